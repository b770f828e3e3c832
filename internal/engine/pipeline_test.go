package engine

import (
	"testing"

	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/trace"
)

func plazaIncident() Report {
	return Report{
		DistrictID:  "plaza",
		Signatures:  []trace.Signature{{Type: trace.SigEnergyResidue, Strength: 80}},
		Witnesses:   3,
		InPublic:    true,
		PersonaHint: evidence.HintMasked,
	}
}

func TestReportsQueueUntilNextTick(t *testing.T) {
	s := newTestSim(t)
	s.ReportAction(plazaIncident())

	if s.Heat.Get("plaza").Heat != 0 || len(s.Evidence.All()) != 0 {
		t.Fatalf("reports must not touch state before the tick runs")
	}

	s.RunTick(1)

	// Strength 80 energy residue: 8 base + 2 bonus + 1 public + 3
	// witnesses = 14, minus 1 decay.
	if got := s.Heat.Get("plaza").Heat; got != 13 {
		t.Errorf("expected heat 13 after one tick, got %d", got)
	}
	items := s.Evidence.All()
	if len(items) != 1 {
		t.Fatalf("expected one evidence item, got %d", len(items))
	}
	item := items[0]
	if item.Tick != 1 || item.WitnessCount != 3 || item.VisualQuality != 50 {
		t.Errorf("unexpected evidence derivation: %+v", item)
	}
	if item.PersonaHint != evidence.HintMasked {
		t.Errorf("hint should pass through, got %s", item.PersonaHint)
	}
}

// Repeated incidents walk the district up the escalation ladder: heat
// builds, the police instance fires alert then critical, and the critical
// response opens a heat-locked investigation that starts progressing the
// same tick.
func TestPipelineEscalatesOverRepeatedIncidents(t *testing.T) {
	s := newTestSim(t)

	for tick := uint64(1); tick <= 5; tick++ {
		s.ReportAction(plazaIncident())
		s.RunTick(tick)
	}

	if got := s.Heat.Get("plaza").Heat; got != 65 {
		t.Errorf("expected heat 65 after five incidents, got %d", got)
	}

	if len(s.Feed) != 2 {
		t.Fatalf("expected alert then critical in the feed, got %d events", len(s.Feed))
	}
	if s.Feed[0].Level != "alert" || s.Feed[0].Tick != 4 {
		t.Errorf("first event should be alert at tick 4: %+v", s.Feed[0])
	}
	if s.Feed[1].Level != "critical" || s.Feed[1].Tick != 5 {
		t.Errorf("second event should be critical at tick 5: %+v", s.Feed[1])
	}

	cases := s.Cases.Active()
	if len(cases) != 1 {
		t.Fatalf("critical response should have opened one case, got %d", len(cases))
	}
	c := cases[0]
	if len(c.SignaturePattern) != 1 || c.SignaturePattern[0] != trace.SigEnergyResidue {
		t.Errorf("case pattern should be the observed residue, got %v", c.SignaturePattern)
	}
	// Opened and progressed within tick 5: 2 per investigator plus capped
	// signature and evidence matches.
	if c.Progress != 14 {
		t.Errorf("expected progress 14, got %d", c.Progress)
	}
	if !s.Cases.HeatLockedDistricts()["plaza"] {
		t.Errorf("the open case should hold plaza's heat lock")
	}

	if s.factionEvents != nil {
		t.Errorf("faction event buffer must be empty between ticks")
	}
	if len(s.Transformations) != 0 {
		t.Errorf("nothing transformation-worthy happened: %v", s.Transformations)
	}
}

func TestRestoreRebuildsDerivedState(t *testing.T) {
	s := newTestSim(t)
	s.Restore(
		[]*heat.DistrictHeat{{DistrictID: "plaza", Heat: 72}},
		nil, nil, nil, 40,
	)

	if s.CurrentTick() != 40 {
		t.Errorf("expected tick 40 after restore, got %d", s.CurrentTick())
	}
	dh := s.Heat.Get("plaza")
	if dh.Response != heat.ResponseFactionAttention {
		t.Errorf("restore must re-derive the response tier, got %s", dh.Response)
	}
	if dh.FactionInfluence == nil {
		t.Errorf("restore must initialize the influence map")
	}
}
