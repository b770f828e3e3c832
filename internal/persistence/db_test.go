package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/engine"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/faction"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/trace"
)

var _ Store = (*DB)(nil)
var _ Store = (*Memory)(nil)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "masquerade.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTickDefaultsToZero(t *testing.T) {
	db := openTestDB(t)

	tick, err := db.LoadTick()
	if err != nil {
		t.Fatalf("load tick: %v", err)
	}
	if tick != 0 {
		t.Errorf("fresh database should report tick 0, got %d", tick)
	}

	if err := db.SaveTick(42); err != nil {
		t.Fatalf("save tick: %v", err)
	}
	if err := db.SaveTick(43); err != nil {
		t.Fatalf("save tick again: %v", err)
	}
	tick, err = db.LoadTick()
	if err != nil {
		t.Fatalf("load tick: %v", err)
	}
	if tick != 43 {
		t.Errorf("expected tick 43 after overwrite, got %d", tick)
	}
}

func TestHeatRoundTrip(t *testing.T) {
	db := openTestDB(t)
	in := []*heat.DistrictHeat{{
		DistrictID:        "d-03",
		Heat:              61,
		CrimePressure:     14,
		PolicePresence:    25,
		SurveillanceLevel: 40,
		LockdownLevel:     10,
		PatrolUnits:       2,
		TacticalUnits:     1,
		Investigators:     1,
		GangUnits:         0,
		FactionInfluence:  map[string]int{"mpd-central": 15, "syndicate-harbor": 5},
		Response:          heat.ResponseInvestigation,
	}}

	if err := db.SaveHeat(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := db.LoadHeat()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 state, got %d", len(out))
	}
	got := out[0]
	if got.DistrictID != "d-03" || got.Heat != 61 || got.Response != heat.ResponseInvestigation {
		t.Errorf("round trip mangled scalars: %+v", got)
	}
	if got.FactionInfluence["mpd-central"] != 15 || got.FactionInfluence["syndicate-harbor"] != 5 {
		t.Errorf("round trip mangled influence: %v", got.FactionInfluence)
	}
}

// Saves are full replacements: a second save with fewer rows shrinks the
// table.
func TestSaveHeatReplaces(t *testing.T) {
	db := openTestDB(t)
	two := []*heat.DistrictHeat{
		{DistrictID: "d-01", FactionInfluence: map[string]int{}},
		{DistrictID: "d-02", FactionInfluence: map[string]int{}},
	}
	if err := db.SaveHeat(two); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveHeat(two[:1]); err != nil {
		t.Fatalf("save again: %v", err)
	}

	out, err := db.LoadHeat()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].DistrictID != "d-01" {
		t.Errorf("expected only d-01 to survive, got %+v", out)
	}
}

func TestCasesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	in := []*casework.Case{{
		ID:               7,
		FactionID:        "mpd-central",
		DistrictID:       "d-05",
		TargetType:       casework.TargetKnownMasked,
		SignaturePattern: []trace.SignatureType{trace.SigEnergyResidue, trace.SigVisualAnomaly},
		Progress:         64,
		HeatLock:         true,
		Status:           casework.StatusActive,
		Milestone:        2,
		PressureActions:  []string{casework.TagProfileFormed, casework.TagActiveOperations},
	}}

	if err := db.SaveCases(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := db.LoadCases()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 case, got %d", len(out))
	}
	got := out[0]
	if got.ID != 7 || got.TargetType != casework.TargetKnownMasked || !got.HeatLock {
		t.Errorf("round trip mangled scalars: %+v", got)
	}
	if len(got.SignaturePattern) != 2 || got.SignaturePattern[1] != trace.SigVisualAnomaly {
		t.Errorf("round trip mangled pattern: %v", got.SignaturePattern)
	}
	if len(got.PressureActions) != 2 || got.PressureActions[0] != casework.TagProfileFormed {
		t.Errorf("round trip mangled actions: %v", got.PressureActions)
	}
}

func TestEvidenceRoundTrip(t *testing.T) {
	db := openTestDB(t)
	in := []*evidence.Item{{
		ID:              3,
		DistrictID:      "d-02",
		Tick:            120,
		SignatureTypes:  []string{string(trace.SigSonicEcho)},
		WitnessCount:    4,
		VisualQuality:   55,
		PersonaHint:     evidence.HintMasked,
		SuspectFeatures: []string{"tall", "grey cloak"},
	}}

	if err := db.SaveEvidence(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := db.LoadEvidence()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 item, got %d", len(out))
	}
	got := out[0]
	if got.Tick != 120 || got.PersonaHint != evidence.HintMasked || got.VisualQuality != 55 {
		t.Errorf("round trip mangled scalars: %+v", got)
	}
	if len(got.SuspectFeatures) != 2 || got.SuspectFeatures[1] != "grey cloak" {
		t.Errorf("round trip mangled features: %v", got.SuspectFeatures)
	}
}

// Re-appending an already-stored event is a no-op; the feed loads back in
// tick order.
func TestFeedAppendIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	events := []engine.ResolvedEvent{
		{
			ID:   "ev-b",
			Tick: 9,
			FactionEvent: engine.FactionEvent{
				FactionID: "mpd-central", TypeID: "police", DistrictID: "d-01",
				Level: "elevated", Actions: []faction.ActionKind{faction.ActionStartInvestigation},
			},
		},
		{
			ID:   "ev-a",
			Tick: 4,
			FactionEvent: engine.FactionEvent{
				FactionID: "mpd-central", TypeID: "police", DistrictID: "d-01",
				Level: "alert", Actions: []faction.ActionKind{faction.ActionSpawnPatrol},
			},
		},
	}

	if err := db.AppendFeed(events); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := db.AppendFeed(events[:1]); err != nil {
		t.Fatalf("re-append: %v", err)
	}

	out, err := db.LoadFeed()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out))
	}
	if out[0].ID != "ev-a" || out[1].ID != "ev-b" {
		t.Errorf("feed should load in tick order, got %s then %s", out[0].ID, out[1].ID)
	}
	if out[1].Actions[0] != faction.ActionStartInvestigation {
		t.Errorf("round trip mangled actions: %v", out[1].Actions)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	m := NewMemory()

	if err := m.SaveHeat([]*heat.DistrictHeat{{DistrictID: "d-01", Heat: 12}}); err != nil {
		t.Fatalf("save heat: %v", err)
	}
	if err := m.AppendFeed([]engine.ResolvedEvent{{ID: "ev-1", Tick: 1}}); err != nil {
		t.Fatalf("append feed: %v", err)
	}
	if err := m.AppendFeed([]engine.ResolvedEvent{{ID: "ev-2", Tick: 2}}); err != nil {
		t.Fatalf("append feed: %v", err)
	}
	if err := m.SaveTick(5); err != nil {
		t.Fatalf("save tick: %v", err)
	}

	states, _ := m.LoadHeat()
	if len(states) != 1 || states[0].Heat != 12 {
		t.Errorf("unexpected heat: %+v", states)
	}
	feed, _ := m.LoadFeed()
	if len(feed) != 2 || feed[1].ID != "ev-2" {
		t.Errorf("feed should accumulate appends: %+v", feed)
	}
	if tick, _ := m.LoadTick(); tick != 5 {
		t.Errorf("expected tick 5, got %d", tick)
	}
}
