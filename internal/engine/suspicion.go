// Suspicion propagator: folds intents, location context, case pressure and
// identity evidence into per-persona suspicion deltas, scaled by risk
// modifiers and alignment, then clamped per axis.
package engine

import (
	"math"

	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/city"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/persona"
)

// suspicionDelta accumulates raw (pre-scaling) per-axis deltas.
type suspicionDelta struct {
	public, civilian, wanted, exposure int
}

// propagateSuspicion runs once per tick over every persona, consuming the
// queued intent batch.
func (s *Simulation) propagateSuspicion() {
	intents := s.pendingIntents
	s.pendingIntents = nil

	byPersona := make(map[string][]persona.Intent)
	for _, in := range intents {
		byPersona[in.PersonaID] = append(byPersona[in.PersonaID], in)
	}

	for _, p := range s.Personas {
		var d suspicionDelta

		for _, in := range byPersona[p.ID] {
			applyIntent(&d, in.Kind)
		}

		// Passive decay on every axis.
		d.public--
		d.civilian--
		d.wanted--
		d.exposure--

		s.applyLocationTerms(&d, p)
		s.applyCasePressure(&d, p)
		s.applyEvidencePressure(&d, p)

		applyScaled(p, d)
	}
}

func applyIntent(d *suspicionDelta, kind persona.IntentKind) {
	switch kind {
	case persona.IntentInteract:
		d.civilian += 2
	case persona.IntentAttack:
		d.public += 4
		d.wanted += 5
		d.exposure += 2
	case persona.IntentRest:
		d.civilian--
		d.exposure -= 2
	}
}

// applyLocationTerms adds the district-conditional terms. A persona with
// no district contributes nothing here.
func (s *Simulation) applyLocationTerms(d *suspicionDelta, p *persona.Persona) {
	dist := s.City.Get(p.DistrictID)
	if dist == nil {
		return
	}
	dh := s.Heat.Get(p.DistrictID)

	if p.Kind == persona.KindMasked && dist.HasTag(city.TagPublic) {
		d.public++
		d.exposure++
	}
	if dh.SurveillanceLevel > 30 {
		d.exposure++
	}
	if p.Kind == persona.KindCivilian && dist.HasTag(city.TagResidential) {
		d.civilian--
	}
}

// applyCasePressure adds pressure from active cases whose target type can
// mean this persona, keyed by how far along the case is.
func (s *Simulation) applyCasePressure(d *suspicionDelta, p *persona.Persona) {
	for _, c := range s.Cases.Active() {
		tier := progressTier(c.Progress)
		if tier == 0 {
			continue
		}
		switch {
		case p.Kind == persona.KindMasked &&
			(c.TargetType == casework.TargetUnknownMasked || c.TargetType == casework.TargetKnownMasked):
			d.public += tier
			d.wanted += tier
		case p.Kind == persona.KindCivilian && c.TargetType == casework.TargetCivilianLink:
			d.civilian += tier
			d.exposure += tier
		}
	}
}

func progressTier(progress int) int {
	switch {
	case progress >= 85:
		return 3
	case progress >= 60:
		return 2
	case progress >= 30:
		return 1
	default:
		return 0
	}
}

// applyEvidencePressure adds terms from identity evidence recorded this
// tick. Masked personas feel every item; civilian personas only items that
// pointed at a civilian.
func (s *Simulation) applyEvidencePressure(d *suspicionDelta, p *persona.Persona) {
	for _, item := range s.Evidence.All() {
		if item.Tick != s.LastTick {
			continue
		}
		strength := item.VisualQuality / 25
		if strength < 0 {
			strength = 0
		}
		half := strength / 2
		if half < 1 {
			half = 1
		}

		switch p.Kind {
		case persona.KindMasked:
			d.public += strength
			d.exposure += half
		case persona.KindCivilian:
			if item.PersonaHint == evidence.HintCivilian {
				d.civilian += strength
				d.exposure += half
			}
		}
	}
}

// applyScaled scales the raw delta per axis by risk modifiers and the
// alignment suspicion multiplier, rounds, applies, and clamps.
func applyScaled(p *persona.Persona, d suspicionDelta) {
	risk := p.Risk
	if risk == (persona.RiskModifiers{}) {
		risk = persona.NeutralRisk()
	}
	mult := p.Alignment.SuspicionMultiplier
	if mult == 0 {
		mult = 1
	}

	p.Suspicion.Public = clampAxis(p.Suspicion.Public, d.public, risk.Public*mult)
	p.Suspicion.Civilian = clampAxis(p.Suspicion.Civilian, d.civilian, risk.Civilian*mult)
	p.Suspicion.Wanted = clampAxis(p.Suspicion.Wanted, d.wanted, risk.Wanted*mult)
	p.Suspicion.Exposure = clampAxis(p.Suspicion.Exposure, d.exposure, risk.Exposure*mult)
}

func clampAxis(current, rawDelta int, scale float64) int {
	v := current + int(math.Round(float64(rawDelta)*scale))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
