// Transformation evaluator: a pure function over case state, aggregate
// pressure, and this tick's resolved faction events. Checked in strict
// priority; first match wins. One-shot firing is enforced by the
// caller-held flags, not here.
package engine

import (
	"log/slog"
	"strings"

	"github.com/talgya/masquerade/internal/persona"
)

// TransformInput is everything the evaluator reads.
type TransformInput struct {
	MaxActiveCaseProgress int
	Pressure              persona.PressureProfile
	ResolvedLevels        []string
}

// EvaluateTransformation checks the transformation triggers in priority
// order and returns the first match.
func EvaluateTransformation(in TransformInput) (persona.TransformationState, string, bool) {
	// 1. Case collapse.
	if in.MaxActiveCaseProgress >= 90 {
		return persona.StateExposed, "investigation at the point of collapse", true
	}
	if in.MaxActiveCaseProgress >= 70 {
		return persona.StateRegistration, "investigation closing in", true
	}

	// 2. Pressure spike.
	spikes := 0
	if in.Pressure.Identity >= 85 {
		spikes++
	}
	if in.Pressure.Institutional >= 85 {
		spikes++
	}
	if in.Pressure.Psychological >= 85 {
		spikes++
	}
	if in.Pressure.Moral >= 80 {
		spikes++
	}
	if spikes >= 3 {
		return persona.StateCosmicJudgement, "converging pressure spike", true
	}
	if in.Pressure.Temporal >= 80 && in.Pressure.Resource >= 80 {
		return persona.StateAscension, "temporal and resource pressure peak", true
	}

	// 3. Faction attention.
	critical := 0
	for _, level := range in.ResolvedLevels {
		switch strings.ToLower(level) {
		case "critical", "max":
			critical++
		}
	}
	if critical >= 2 {
		return persona.StateExile, "multiple factions at critical response", true
	}

	return "", "", false
}

// evaluateTransformation samples the current tick and records the first
// not-yet-fired candidate.
func (s *Simulation) evaluateTransformation(tick uint64) {
	levels := make([]string, len(s.resolvedThisTick))
	for i, ev := range s.resolvedThisTick {
		levels[i] = ev.Level
	}

	state, trigger, ok := EvaluateTransformation(TransformInput{
		MaxActiveCaseProgress: s.Cases.MaxActiveProgress(),
		Pressure:              s.Pressure,
		ResolvedLevels:        levels,
	})
	if !ok || s.fired[state] {
		return
	}
	s.fired[state] = true
	s.Transformations = append(s.Transformations, TransformationEvent{
		Tick:    tick,
		State:   state,
		Trigger: trigger,
	})
	slog.Info("transformation fired", "state", state, "trigger", trigger, "tick", tick)
}
