// Package casework tracks faction investigations as milestone-gated state
// machines. Progress and milestones only move forward; a resolved case is
// immutable.
package casework

import (
	"log/slog"

	"github.com/talgya/masquerade/internal/trace"
)

// TargetType is what the investigation believes it is chasing. It only
// ever escalates: UnknownMasked → KnownMasked → CivilianLink.
type TargetType string

const (
	TargetUnknownMasked TargetType = "UNKNOWN_MASKED"
	TargetKnownMasked   TargetType = "KNOWN_MASKED"
	TargetCivilianLink  TargetType = "CIVILIAN_LINK"
)

// Status of a case. Resolved is terminal.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusResolved Status = "RESOLVED"
)

// Milestone tags, each appended exactly once over a case's lifetime.
const (
	TagProfileFormed    = "PROFILE_FORMED"
	TagActiveOperations = "ACTIVE_OPERATIONS"
	TagLinkageAttempt   = "LINKAGE_ATTEMPT"
	TagConvergence      = "CONVERGENCE"
)

// Case is one faction's pursuit of a target's identity at a district.
type Case struct {
	ID               uint64                `json:"id"`
	FactionID        string                `json:"faction_id"`
	DistrictID       string                `json:"district_id"`
	TargetType       TargetType            `json:"target_type"`
	SignaturePattern []trace.SignatureType `json:"signature_pattern"`
	Progress         int                   `json:"progress"`
	HeatLock         bool                  `json:"heat_lock"`
	Status           Status                `json:"status"`
	Milestone        int                   `json:"milestone"`
	PressureActions  []string              `json:"pressure_actions"`
}

// Advance raises progress by delta and fires any newly reached milestones
// in ascending order. Zero or negative deltas do nothing; resolved cases
// never mutate.
func (c *Case) Advance(delta int) {
	if c.Status != StatusActive || delta <= 0 {
		return
	}
	c.Progress += delta
	if c.Progress > 100 {
		c.Progress = 100
	}

	if c.Milestone < 1 && c.Progress >= 30 {
		c.Milestone = 1
		c.PressureActions = append(c.PressureActions, TagProfileFormed)
	}
	if c.Milestone < 2 && c.Progress >= 60 {
		c.Milestone = 2
		if c.TargetType == TargetUnknownMasked {
			c.TargetType = TargetKnownMasked
		}
		c.PressureActions = append(c.PressureActions, TagActiveOperations)
	}
	if c.Milestone < 3 && c.Progress >= 85 {
		c.Milestone = 3
		c.TargetType = TargetCivilianLink
		c.PressureActions = append(c.PressureActions, TagLinkageAttempt)
	}
	if c.Progress >= 100 {
		c.Status = StatusResolved
		c.PressureActions = append(c.PressureActions, TagConvergence)
		slog.Info("case resolved", "case", c.ID, "faction", c.FactionID, "district", c.DistrictID)
	}
}

// Registry owns every case and allocates sequential ids.
type Registry struct {
	cases  []*Case
	nextID uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nextID: 1}
}

// Create opens a new active case with the next sequential id.
func (r *Registry) Create(factionID, districtID string, pattern []trace.SignatureType, heatLock bool) *Case {
	c := &Case{
		ID:               r.nextID,
		FactionID:        factionID,
		DistrictID:       districtID,
		TargetType:       TargetUnknownMasked,
		SignaturePattern: pattern,
		HeatLock:         heatLock,
		Status:           StatusActive,
	}
	r.nextID++
	r.cases = append(r.cases, c)
	slog.Info("case opened", "case", c.ID, "faction", factionID, "district", districtID)
	return c
}

// Restore installs loaded cases and syncs the id counter past the highest
// existing id.
func (r *Registry) Restore(cases []*Case) {
	r.cases = cases
	r.nextID = 1
	for _, c := range cases {
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
}

// All returns every case, oldest first.
func (r *Registry) All() []*Case {
	return r.cases
}

// Active returns the open cases.
func (r *Registry) Active() []*Case {
	var out []*Case
	for _, c := range r.cases {
		if c.Status == StatusActive {
			out = append(out, c)
		}
	}
	return out
}

// ActiveAt returns the open case for a (faction, district) pair, or nil.
func (r *Registry) ActiveAt(factionID, districtID string) *Case {
	for _, c := range r.cases {
		if c.Status == StatusActive && c.FactionID == factionID && c.DistrictID == districtID {
			return c
		}
	}
	return nil
}

// HeatLockedDistricts returns the district ids holding at least one active
// heat-locked case. Feeds the heat decay modifier.
func (r *Registry) HeatLockedDistricts() map[string]bool {
	out := make(map[string]bool)
	for _, c := range r.cases {
		if c.Status == StatusActive && c.HeatLock {
			out[c.DistrictID] = true
		}
	}
	return out
}

// MaxActiveProgress returns the highest progress among active cases, or 0.
func (r *Registry) MaxActiveProgress() int {
	max := 0
	for _, c := range r.cases {
		if c.Status == StatusActive && c.Progress > max {
			max = c.Progress
		}
	}
	return max
}
