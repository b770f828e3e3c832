// Package heat tracks per-district suspicion: a clamped 0–100 scalar fed by
// signatures and witnesses, decayed by security presence, and mapped onto a
// discrete response tier.
package heat

import (
	"log/slog"

	"github.com/talgya/masquerade/internal/trace"
)

// Response is the discrete escalation tier derived from a district's heat.
type Response string

const (
	ResponseNone             Response = "NONE"
	ResponsePolicePatrol     Response = "POLICE_PATROL"
	ResponseInvestigation    Response = "INVESTIGATION"
	ResponseFactionAttention Response = "FACTION_ATTENTION"
)

// Tier thresholds. ResponseFor is the single source of truth: the stored
// response field is always re-derivable from the stored heat value.
const (
	TierPatrol        = 30
	TierInvestigation = 50
	TierFaction       = 70
)

// ResponseFor derives the response tier from a heat value.
func ResponseFor(heat int) Response {
	switch {
	case heat >= TierFaction:
		return ResponseFactionAttention
	case heat >= TierInvestigation:
		return ResponseInvestigation
	case heat >= TierPatrol:
		return ResponsePolicePatrol
	default:
		return ResponseNone
	}
}

// DistrictHeat is the security state of a single district.
type DistrictHeat struct {
	DistrictID        string         `json:"district_id"`
	Heat              int            `json:"heat"`
	CrimePressure     int            `json:"crime_pressure"`
	PolicePresence    int            `json:"police_presence"`
	SurveillanceLevel int            `json:"surveillance_level"`
	LockdownLevel     int            `json:"lockdown_level"`
	PatrolUnits       int            `json:"patrol_units"`
	TacticalUnits     int            `json:"tactical_units"`
	Investigators     int            `json:"investigators"`
	GangUnits         int            `json:"gang_units"`
	FactionInfluence  map[string]int `json:"faction_influence"`
	Response          Response       `json:"response"`
}

// ResponseChange is a one-shot notification that a district crossed into a
// different response tier. Consumed externally; not repeated while the tier
// holds.
type ResponseChange struct {
	DistrictID string   `json:"district_id"`
	From       Response `json:"from"`
	To         Response `json:"to"`
	Heat       int      `json:"heat"`
}

// Accumulator owns the heat state for every district.
type Accumulator struct {
	districts map[string]*DistrictHeat
	changes   []ResponseChange
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{districts: make(map[string]*DistrictHeat)}
}

// Get returns the heat state for a district, creating a zeroed entry on
// first touch.
func (a *Accumulator) Get(districtID string) *DistrictHeat {
	dh, ok := a.districts[districtID]
	if !ok {
		dh = &DistrictHeat{
			DistrictID:       districtID,
			FactionInfluence: make(map[string]int),
			Response:         ResponseNone,
		}
		a.districts[districtID] = dh
	}
	return dh
}

// All returns every tracked district heat state.
func (a *Accumulator) All() map[string]*DistrictHeat {
	return a.districts
}

// Restore installs a loaded heat state, re-deriving the response tier from
// the stored heat value.
func (a *Accumulator) Restore(dh *DistrictHeat) {
	if dh.FactionInfluence == nil {
		dh.FactionInfluence = make(map[string]int)
	}
	dh.Response = ResponseFor(dh.Heat)
	a.districts[dh.DistrictID] = dh
}

// ApplySignatures raises a district's heat for a batch of freshly emitted
// signatures. Each signature contributes max(1, strength/10) plus its
// per-type bonus; public exposure adds 1 and witnesses add up to 5.
func (a *Accumulator) ApplySignatures(districtID string, sigs []trace.Signature, witnesses int, inPublic bool) {
	if len(sigs) == 0 {
		return
	}
	dh := a.Get(districtID)

	delta := 0
	for _, sig := range sigs {
		base := sig.Strength / 10
		if base < 1 {
			base = 1
		}
		delta += base + trace.HeatBonus(sig.Type)
	}
	if inPublic {
		delta++
	}
	if witnesses > 5 {
		witnesses = 5
	}
	delta += witnesses

	a.setHeat(dh, dh.Heat+delta)
}

// DecayAll applies one tick of decay to every district. Base decay is 1,
// raised by police presence and lockdown, lowered by crime pressure and an
// active heat-locked case. Net decay never goes negative.
// lockedDistricts holds the ids with at least one Active heat_lock case.
func (a *Accumulator) DecayAll(lockedDistricts map[string]bool) {
	for _, dh := range a.districts {
		decay := 1
		if dh.PolicePresence >= 30 {
			decay++
		}
		if dh.LockdownLevel >= 30 {
			decay++
		}
		if dh.CrimePressure >= 12 {
			decay--
		}
		if lockedDistricts[dh.DistrictID] {
			decay--
		}
		if decay < 0 {
			decay = 0
		}
		a.setHeat(dh, dh.Heat-decay)
	}
}

// DrainChanges returns the response-tier changes recorded since the last
// drain and resets the buffer.
func (a *Accumulator) DrainChanges() []ResponseChange {
	out := a.changes
	a.changes = nil
	return out
}

// setHeat clamps and stores a heat value, recomputing the response tier and
// recording a one-shot notification when the tier moves.
func (a *Accumulator) setHeat(dh *DistrictHeat, heat int) {
	if heat < 0 {
		heat = 0
	}
	if heat > 100 {
		heat = 100
	}
	dh.Heat = heat

	next := ResponseFor(heat)
	if next != dh.Response {
		a.changes = append(a.changes, ResponseChange{
			DistrictID: dh.DistrictID,
			From:       dh.Response,
			To:         next,
			Heat:       heat,
		})
		slog.Info("district response tier changed",
			"district", dh.DistrictID, "from", dh.Response, "to", next, "heat", heat)
		dh.Response = next
	}
}
