// Faction detection/response director: a per (faction instance, district)
// threshold state machine. Hysteresis guarantees level-change events only,
// never per-tick repetition while a level holds.
package engine

import (
	"log/slog"

	"github.com/talgya/masquerade/internal/city"
	"github.com/talgya/masquerade/internal/faction"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/trace"
)

// runDirector evaluates every faction instance against every district in
// its scope and emits faction events for threshold level changes.
func (s *Simulation) runDirector() {
	for _, inst := range s.Catalog.Instances {
		det := s.Catalog.DetectionFor(inst)
		resp := s.Catalog.ResponseFor(inst)

		for _, d := range s.City.Districts {
			if !inst.Scope.Matches(d.ID, d.Tags) {
				continue
			}
			key := hysteresisKey{FactionID: inst.ID, DistrictID: d.ID}
			dh := s.Heat.Get(d.ID)

			if dh.Heat < det.HeatMin {
				delete(s.hysteresis, key)
				continue
			}
			if !s.detectionMatches(det, d, dh) {
				delete(s.hysteresis, key)
				continue
			}

			th, ok := candidateThreshold(resp, dh.Heat)
			if !ok {
				delete(s.hysteresis, key)
				continue
			}

			if s.hysteresis[key] == th.Level {
				continue // level unchanged since last emission
			}
			s.hysteresis[key] = th.Level
			s.factionEvents = append(s.factionEvents, FactionEvent{
				FactionID:  inst.ID,
				TypeID:     inst.TypeID,
				DistrictID: d.ID,
				Level:      th.Level,
				Actions:    th.Actions,
			})
			slog.Info("faction detection",
				"faction", inst.ID, "district", d.ID, "level", th.Level, "heat", dh.Heat)
		}
	}
}

// detectionMatches reports whether the district's live ledger entries
// satisfy the profile's signature filter. An empty filter always matches.
func (s *Simulation) detectionMatches(det faction.DetectionProfile, d *city.District, dh *heat.DistrictHeat) bool {
	if len(det.SignatureTypes) == 0 {
		return true
	}
	for _, t := range det.SignatureTypes {
		if !signaturePlausible(t, d, dh) {
			continue
		}
		if s.Ledger.HasType(d.ID, []trace.SignatureType{t}) {
			return true
		}
	}
	return false
}

// signaturePlausible filters out signature types a faction could not
// credibly have observed at the district. A visual anomaly needs either
// camera coverage or a public crowd; everything else is physical residue
// that survives unobserved.
func signaturePlausible(t trace.SignatureType, d *city.District, dh *heat.DistrictHeat) bool {
	if t == trace.SigVisualAnomaly {
		return dh.SurveillanceLevel > 0 || d.HasTag(city.TagPublic)
	}
	return true
}

// candidateThreshold selects the highest threshold whose required heat is
// at or below the current heat.
func candidateThreshold(resp faction.ResponseProfile, heat int) (faction.Threshold, bool) {
	var best faction.Threshold
	found := false
	for _, th := range resp.Thresholds {
		if th.Heat > heat {
			continue
		}
		if !found || th.Heat > best.Heat {
			best = th
			found = true
		}
	}
	return best, found
}
