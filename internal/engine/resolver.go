// Faction event resolver: drains the tick's faction events, applies their
// actions to district security state, seeds cases, and republishes each
// event to the external feed.
package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/masquerade/internal/faction"
	"github.com/talgya/masquerade/internal/trace"
)

// casePatternSize caps how many ledger signature types seed a new case.
const casePatternSize = 3

// resolveFactionEvents consumes the input buffer built by the director
// this tick. Input and output are separate buffers: the feed is appended
// to while the input is iterated, never the same slice.
func (s *Simulation) resolveFactionEvents(tick uint64) {
	events := s.factionEvents
	s.factionEvents = nil
	s.resolvedThisTick = nil

	for _, ev := range events {
		dh := s.Heat.Get(ev.DistrictID)

		for _, action := range ev.Actions {
			switch action {
			case faction.ActionSpawnPatrol:
				dh.PatrolUnits++
				dh.PolicePresence += 5
				dh.SurveillanceLevel += 2
			case faction.ActionSpawnTactical:
				dh.TacticalUnits += 2
				dh.PolicePresence += 10
				dh.SurveillanceLevel += 5
			case faction.ActionStartInvestigation:
				dh.Investigators++
				s.openCase(ev)
			case faction.ActionEscalateSecurity:
				dh.LockdownLevel += 10
				dh.SurveillanceLevel += 10
				dh.PolicePresence += 10
				dh.PatrolUnits++
			case faction.ActionProxyCrime:
				dh.GangUnits++
				dh.CrimePressure += 5
			default:
				// Unknown action kinds are content errors, not ours.
			}
		}

		// Every resolved event cements the faction's hold on the
		// district, whatever it actually did there.
		dh.FactionInfluence[ev.FactionID] += 5

		resolved := ResolvedEvent{ID: uuid.NewString(), Tick: tick, FactionEvent: ev}
		s.resolvedThisTick = append(s.resolvedThisTick, resolved)
		s.Feed = append(s.Feed, resolved)
	}
}

// openCase creates an investigation for the event's (faction, district)
// pair unless one is already active. The signature pattern is seeded from
// the most frequent matching ledger types at the district.
func (s *Simulation) openCase(ev FactionEvent) {
	if s.Cases.ActiveAt(ev.FactionID, ev.DistrictID) != nil {
		return
	}

	var filter []trace.SignatureType
	if inst := s.instanceIndex[ev.FactionID]; inst != nil {
		filter = s.Catalog.DetectionFor(inst).SignatureTypes
	}
	pattern := s.Ledger.TopTypes(ev.DistrictID, filter, casePatternSize)

	s.Cases.Create(ev.FactionID, ev.DistrictID, pattern, true)
	slog.Info("investigation opened",
		"faction", ev.FactionID, "district", ev.DistrictID, "pattern", pattern)
}
