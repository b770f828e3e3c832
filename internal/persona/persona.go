// Package persona models an actor's alternate identities and the suspicion
// metrics attached to each.
package persona

// Kind distinguishes an actor's civilian face from the masked one.
type Kind string

const (
	KindCivilian Kind = "CIVILIAN"
	KindMasked   Kind = "MASKED"
)

// Suspicion holds the four per-persona suspicion axes, each clamped 0–100.
type Suspicion struct {
	Public   int `json:"public_suspicion"`
	Civilian int `json:"civilian_suspicion"`
	Wanted   int `json:"wanted_level"`
	Exposure int `json:"exposure_risk"`
}

// RiskModifiers scale raw suspicion deltas per axis before application.
// 1.0 everywhere is neutral.
type RiskModifiers struct {
	Public   float64 `json:"public"`
	Civilian float64 `json:"civilian"`
	Wanted   float64 `json:"wanted"`
	Exposure float64 `json:"exposure"`
}

// NeutralRisk returns modifiers that leave deltas unchanged.
func NeutralRisk() RiskModifiers {
	return RiskModifiers{Public: 1, Civilian: 1, Wanted: 1, Exposure: 1}
}

// Alignment carries the narrative alignment's single knob this core cares
// about: a multiplier on all suspicion deltas.
type Alignment struct {
	Name                string  `json:"name"`
	SuspicionMultiplier float64 `json:"suspicion_multiplier"`
}

// Persona is one identity of an actor, placed in a district.
type Persona struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Kind       Kind          `json:"kind"`
	DistrictID string        `json:"district_id"`
	Suspicion  Suspicion     `json:"suspicion"`
	Risk       RiskModifiers `json:"risk"`
	Alignment  Alignment     `json:"alignment"`
}

// IntentKind is a discrete action the presentation layer submits for a
// persona; consumed by the suspicion propagator.
type IntentKind string

const (
	IntentInteract IntentKind = "INTERACT"
	IntentAttack   IntentKind = "ATTACK"
	IntentRest     IntentKind = "REST"
)

// Intent is one submitted action.
type Intent struct {
	PersonaID string     `json:"persona_id"`
	Kind      IntentKind `json:"kind"`
}

// PressureProfile is the actor-level narrative pressure aggregate sampled
// by the transformation evaluator. Axes are 0–100 and maintained by the
// host's narrative layer.
type PressureProfile struct {
	Identity      int `json:"identity"`
	Institutional int `json:"institutional"`
	Psychological int `json:"psychological"`
	Moral         int `json:"moral"`
	Temporal      int `json:"temporal"`
	Resource      int `json:"resource"`
}

// TransformationState is a narrative-transformation tag. Each fires at
// most once per run, enforced by caller-held flags.
type TransformationState string

const (
	StateExposed         TransformationState = "EXPOSED"
	StateRegistration    TransformationState = "REGISTRATION"
	StateCosmicJudgement TransformationState = "COSMIC_JUDGEMENT"
	StateAscension       TransformationState = "ASCENSION"
	StateExile           TransformationState = "EXILE"
)
