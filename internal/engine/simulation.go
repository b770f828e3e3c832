// Simulation ties together every detection subsystem and runs them in a
// fixed order each tick. It is the single writer for all core state; the
// host reads derived state only between ticks.
package engine

import (
	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/city"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/faction"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/persona"
	"github.com/talgya/masquerade/internal/trace"
)

// FactionEvent is a detection event emitted by the director. The event
// buffer is ephemeral: cleared and rebuilt every tick.
type FactionEvent struct {
	FactionID  string               `json:"faction_id"`
	TypeID     string               `json:"type_id"`
	DistrictID string               `json:"district_id"`
	Level      string               `json:"level"`
	Actions    []faction.ActionKind `json:"actions"`
}

// ResolvedEvent is a faction event republished to the external feed after
// the resolver applied it.
type ResolvedEvent struct {
	ID   string `json:"id"`
	Tick uint64 `json:"tick"`
	FactionEvent
}

// TransformationEvent records a fired narrative transformation.
type TransformationEvent struct {
	Tick    uint64                      `json:"tick"`
	State   persona.TransformationState `json:"state"`
	Trigger string                      `json:"trigger"`
}

// Simulation holds the complete detection-pipeline state.
type Simulation struct {
	City     *city.Map
	Ledger   *trace.Ledger
	Heat     *heat.Accumulator
	Evidence *evidence.Store
	Catalog  *faction.Catalog
	Cases    *casework.Registry

	Personas     []*persona.Persona
	PersonaIndex map[string]*persona.Persona
	Pressure     persona.PressureProfile

	// External faction-event feed, append-only across the run.
	Feed []ResolvedEvent

	// Fired transformations, at most one per state per run.
	Transformations []TransformationEvent

	LastTick uint64

	// Director hysteresis: (faction instance, district) → last emitted
	// level. Pure bookkeeping to suppress duplicate emissions.
	hysteresis map[hysteresisKey]string

	// Instance lookup built from the catalog.
	instanceIndex map[string]*faction.Instance

	// Input buffers, drained at the head of the tick they apply to.
	pendingReports []Report
	pendingIntents []persona.Intent

	// Faction event buffer for the current tick (director → resolver).
	factionEvents []FactionEvent

	// Events resolved during the current tick; sampled by the
	// transformation evaluator, replaced next tick.
	resolvedThisTick []ResolvedEvent

	fired map[persona.TransformationState]bool
}

type hysteresisKey struct {
	FactionID  string
	DistrictID string
}

// NewSimulation wires the aggregate together. District security baselines
// are applied to the heat map on first registration.
func NewSimulation(cityMap *city.Map, catalog *faction.Catalog, personas []*persona.Persona) *Simulation {
	s := &Simulation{
		City:          cityMap,
		Ledger:        trace.NewLedger(),
		Heat:          heat.NewAccumulator(),
		Evidence:      evidence.NewStore(),
		Catalog:       catalog,
		Cases:         casework.NewRegistry(),
		Personas:      personas,
		PersonaIndex:  make(map[string]*persona.Persona, len(personas)),
		hysteresis:    make(map[hysteresisKey]string),
		instanceIndex: make(map[string]*faction.Instance),
		fired:         make(map[persona.TransformationState]bool),
	}
	for _, p := range personas {
		s.PersonaIndex[p.ID] = p
	}
	for _, inst := range catalog.Instances {
		s.instanceIndex[inst.ID] = inst
	}
	for _, d := range cityMap.Districts {
		dh := s.Heat.Get(d.ID)
		dh.SurveillanceLevel = d.BaseSurveillance
		dh.CrimePressure = d.BaseCrimePressure
	}
	return s
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// RunTick advances the pipeline by one tick. The step order is a hard
// invariant: ledger decay before intake, intake before the director,
// resolver before case progression. Reordering delays detection by a tick
// and desynchronizes hysteresis from world state.
func (s *Simulation) RunTick(tick uint64) {
	s.LastTick = tick

	s.Ledger.TickDecay()
	s.processReports(tick)
	s.Heat.DecayAll(s.Cases.HeatLockedDistricts())
	s.runDirector()
	s.resolveFactionEvents(tick)
	s.progressCases()
	s.propagateSuspicion()
	s.evaluateTransformation(tick)
}

// Restore installs durable state loaded by the persistence layer. Call
// before the first tick only.
func (s *Simulation) Restore(states []*heat.DistrictHeat, cases []*casework.Case, items []*evidence.Item, feed []ResolvedEvent, tick uint64) {
	for _, dh := range states {
		s.Heat.Restore(dh)
	}
	s.Cases.Restore(cases)
	s.Evidence.Restore(items)
	s.Feed = feed
	s.LastTick = tick
}

// FiredStates exposes the one-shot transformation flags.
func (s *Simulation) FiredStates() map[persona.TransformationState]bool {
	return s.fired
}
