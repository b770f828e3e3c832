package engine

import (
	"testing"

	"github.com/talgya/masquerade/internal/city"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/persona"
)

func maskedPersona(id, districtID string) *persona.Persona {
	return &persona.Persona{ID: id, Name: id, Kind: persona.KindMasked, DistrictID: districtID}
}

func civilianPersona(id, districtID string) *persona.Persona {
	return &persona.Persona{ID: id, Name: id, Kind: persona.KindCivilian, DistrictID: districtID}
}

func TestAttackIntentRaisesSuspicion(t *testing.T) {
	p := maskedPersona("nightjar", "harbor")
	s := newTestSim(t, p)

	s.SubmitIntent(persona.Intent{PersonaID: "nightjar", Kind: persona.IntentAttack})
	s.propagateSuspicion()

	// Attack gives +4/+5/+2 on public/wanted/exposure, passive decay -1 each.
	if p.Suspicion.Public != 3 || p.Suspicion.Wanted != 4 || p.Suspicion.Exposure != 1 {
		t.Errorf("unexpected suspicion after attack: %+v", p.Suspicion)
	}
	if p.Suspicion.Civilian != 0 {
		t.Errorf("civilian axis clamps at 0, got %d", p.Suspicion.Civilian)
	}
	if s.pendingIntents != nil {
		t.Errorf("intent queue must be drained")
	}
}

func TestPassiveDecayWithNoActivity(t *testing.T) {
	p := maskedPersona("nightjar", "")
	p.Suspicion = persona.Suspicion{Public: 10, Civilian: 10, Wanted: 10, Exposure: 10}
	s := newTestSim(t, p)

	s.propagateSuspicion()

	want := persona.Suspicion{Public: 9, Civilian: 9, Wanted: 9, Exposure: 9}
	if p.Suspicion != want {
		t.Errorf("expected one point of decay per axis, got %+v", p.Suspicion)
	}
}

func TestSuspicionClampsAtZero(t *testing.T) {
	p := maskedPersona("nightjar", "")
	s := newTestSim(t, p)

	s.propagateSuspicion()
	s.propagateSuspicion()

	if p.Suspicion != (persona.Suspicion{}) {
		t.Errorf("axes must not go negative: %+v", p.Suspicion)
	}
}

func TestLocationTermsForMaskedInPublic(t *testing.T) {
	p := maskedPersona("nightjar", "plaza")
	p.Suspicion = persona.Suspicion{Public: 50, Civilian: 50, Wanted: 50, Exposure: 50}
	s := newTestSim(t, p)
	s.Heat.Get("plaza").SurveillanceLevel = 40

	s.propagateSuspicion()

	// Public district: +1 public, +1 exposure; surveillance above 30 adds
	// another +1 exposure; decay -1 everywhere.
	if p.Suspicion.Public != 50 || p.Suspicion.Exposure != 51 {
		t.Errorf("unexpected location terms: %+v", p.Suspicion)
	}
	if p.Suspicion.Civilian != 49 || p.Suspicion.Wanted != 49 {
		t.Errorf("untouched axes should only decay: %+v", p.Suspicion)
	}
}

func TestResidentialDistrictShedsCivilianSuspicion(t *testing.T) {
	p := civilianPersona("voss", "harbor")
	p.Suspicion.Civilian = 20
	s := newTestSim(t, p)
	s.City.Get("harbor").Tags = append(s.City.Get("harbor").Tags, city.TagResidential)

	s.propagateSuspicion()

	// -1 residential bonus on top of -1 decay.
	if p.Suspicion.Civilian != 18 {
		t.Errorf("expected civilian 18, got %d", p.Suspicion.Civilian)
	}
}

func TestCasePressureTracksProgressTier(t *testing.T) {
	p := maskedPersona("nightjar", "harbor")
	p.Suspicion = persona.Suspicion{Public: 30, Wanted: 30}
	s := newTestSim(t, p)
	c := s.Cases.Create("mpd", "plaza", nil, true)
	c.Advance(60)

	s.propagateSuspicion()

	// Progress 60 is tier 2: +2 public, +2 wanted, then decay.
	if p.Suspicion.Public != 31 || p.Suspicion.Wanted != 31 {
		t.Errorf("expected tier-2 case pressure, got %+v", p.Suspicion)
	}
}

func TestCivilianLinkCasePressuresCivilians(t *testing.T) {
	masked := maskedPersona("nightjar", "harbor")
	civ := civilianPersona("voss", "harbor")
	civ.Suspicion = persona.Suspicion{Civilian: 30, Exposure: 30}
	s := newTestSim(t, masked, civ)
	c := s.Cases.Create("mpd", "plaza", nil, true)
	c.Advance(85)

	s.propagateSuspicion()

	// CIVILIAN_LINK at tier 3 presses the civilian identity, not the mask.
	if civ.Suspicion.Civilian != 32 || civ.Suspicion.Exposure != 32 {
		t.Errorf("expected tier-3 civilian pressure, got %+v", civ.Suspicion)
	}
	if masked.Suspicion.Public != 0 {
		t.Errorf("a civilian-link case must not press the masked persona, got %+v", masked.Suspicion)
	}
}

func TestEvidencePressureOnlyCountsCurrentTick(t *testing.T) {
	p := maskedPersona("nightjar", "harbor")
	p.Suspicion = persona.Suspicion{Public: 20, Exposure: 20}
	s := newTestSim(t, p)
	s.LastTick = 3
	s.Evidence.Record("plaza", 3, []string{"ENERGY_RESIDUE"}, 2, 50, evidence.HintMasked, nil)
	s.Evidence.Record("plaza", 2, []string{"ENERGY_RESIDUE"}, 2, 100, evidence.HintMasked, nil)

	s.propagateSuspicion()

	// Only the tick-3 item counts: quality 50 → +2 public, +1 exposure,
	// then decay.
	if p.Suspicion.Public != 21 || p.Suspicion.Exposure != 20 {
		t.Errorf("expected only current-tick evidence to press, got %+v", p.Suspicion)
	}
}

func TestEvidencePressureRespectsHintForCivilians(t *testing.T) {
	civ := civilianPersona("voss", "harbor")
	civ.Suspicion = persona.Suspicion{Civilian: 20, Exposure: 20}
	s := newTestSim(t, civ)
	s.LastTick = 1
	s.Evidence.Record("plaza", 1, nil, 2, 75, evidence.HintMasked, nil)

	s.propagateSuspicion()

	// Evidence of someone masked says nothing about a civilian.
	if civ.Suspicion.Civilian != 19 || civ.Suspicion.Exposure != 19 {
		t.Errorf("masked-hint evidence must not press a civilian: %+v", civ.Suspicion)
	}
}

func TestRiskAndAlignmentScaleDeltas(t *testing.T) {
	p := maskedPersona("nightjar", "")
	p.Risk = persona.RiskModifiers{Public: 2, Civilian: 1, Wanted: 1, Exposure: 1}
	p.Alignment = persona.Alignment{Name: "renegade", SuspicionMultiplier: 1.5}
	s := newTestSim(t, p)

	s.SubmitIntent(persona.Intent{PersonaID: "nightjar", Kind: persona.IntentAttack})
	s.propagateSuspicion()

	// Raw public delta 3 scaled by 2 * 1.5 = 9.
	if p.Suspicion.Public != 9 {
		t.Errorf("expected scaled public 9, got %d", p.Suspicion.Public)
	}
	// Raw wanted delta 4 scaled by 1 * 1.5 = 6.
	if p.Suspicion.Wanted != 6 {
		t.Errorf("expected scaled wanted 6, got %d", p.Suspicion.Wanted)
	}
}
