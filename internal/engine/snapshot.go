// Between-tick snapshots for outside readers. The presentation layer never
// touches live core state; it gets a value copy taken after each tick.
package engine

import (
	"sort"

	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/persona"
)

// DistrictView is a district's heat state joined with its static identity.
type DistrictView struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	heat.DistrictHeat
}

// Snapshot is a read-only copy of derived state, safe to serve while the
// next tick runs.
type Snapshot struct {
	Tick            uint64                `json:"tick"`
	Districts       []DistrictView        `json:"districts"`
	Cases           []casework.Case       `json:"cases"`
	Personas        []persona.Persona     `json:"personas"`
	Feed            []ResolvedEvent       `json:"feed"`
	ResponseChanges []heat.ResponseChange `json:"response_changes"`
	Transformations []TransformationEvent `json:"transformations"`
}

// Snapshot builds a copy of the current derived state and drains the
// pending response-change notifications into it. Call between ticks only.
func (s *Simulation) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:            s.LastTick,
		ResponseChanges: s.Heat.DrainChanges(),
	}

	for _, dh := range s.Heat.All() {
		view := DistrictView{DistrictHeat: *dh}
		view.FactionInfluence = make(map[string]int, len(dh.FactionInfluence))
		for k, v := range dh.FactionInfluence {
			view.FactionInfluence[k] = v
		}
		if d := s.City.Get(dh.DistrictID); d != nil {
			view.Name = d.Name
			view.Tags = d.Tags
		}
		snap.Districts = append(snap.Districts, view)
	}
	sort.Slice(snap.Districts, func(i, j int) bool {
		return snap.Districts[i].DistrictID < snap.Districts[j].DistrictID
	})

	for _, c := range s.Cases.All() {
		snap.Cases = append(snap.Cases, *c)
	}
	for _, p := range s.Personas {
		snap.Personas = append(snap.Personas, *p)
	}
	snap.Feed = append(snap.Feed, s.Feed...)
	snap.Transformations = append(snap.Transformations, s.Transformations...)

	return snap
}
