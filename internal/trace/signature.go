// Package trace models the physical evidence left behind by extraordinary
// actions: typed signatures that decay over a fixed number of turns.
package trace

// SignatureType categorizes a physical trace left at a district.
type SignatureType string

const (
	SigEnergyResidue    SignatureType = "ENERGY_RESIDUE"    // scorch marks, ionized air
	SigPropertyDamage   SignatureType = "PROPERTY_DAMAGE"   // broken walls, bent steel
	SigVisualAnomaly    SignatureType = "VISUAL_ANOMALY"    // something seen that shouldn't exist
	SigBiologicalTrace  SignatureType = "BIOLOGICAL_TRACE"  // blood, tissue, unusual samples
	SigSonicEcho        SignatureType = "SONIC_ECHO"        // booms, shattered glass radius
	SigTechInterference SignatureType = "TECH_INTERFERENCE" // fried electronics, jammed comms
)

// DefaultPersistence is the lifetime assigned to signatures emitted without
// an explicit persistence value.
const DefaultPersistence = 5

// heatBonus is the per-type surcharge a signature adds on top of its
// strength-derived base when it feeds the heat accumulator.
var heatBonus = map[SignatureType]int{
	SigEnergyResidue:    2,
	SigPropertyDamage:   1,
	SigVisualAnomaly:    1,
	SigBiologicalTrace:  0,
	SigSonicEcho:        1,
	SigTechInterference: 2,
}

// HeatBonus returns the per-type heat surcharge for a signature type.
// Unknown types contribute no bonus.
func HeatBonus(t SignatureType) int {
	return heatBonus[t]
}

// Signature is a typed trace produced by action resolution.
type Signature struct {
	Type        SignatureType `json:"type"`
	Strength    int           `json:"strength"`
	Persistence int           `json:"persistence_turns"`
}

// Instance is a signature that has been emitted into a ledger and is
// counting down toward removal.
type Instance struct {
	Signature
	Remaining int `json:"remaining_turns"`
}

// Event pairs an emitted instance with its district. IsNew is set on emit
// and consumed exactly once, by the identity evidence recorder.
type Event struct {
	DistrictID string    `json:"district_id"`
	Instance   *Instance `json:"instance"`
	IsNew      bool      `json:"is_new"`
}
