// Package faction defines the organizations that watch the city: faction
// types carrying detection/response profiles, and deployed instances
// scoped to districts. Catalog data is read-only once loaded.
package faction

import "github.com/talgya/masquerade/internal/trace"

// ActionKind is a response action dispatched when a threshold fires.
// Unknown kinds are ignored by the resolver.
type ActionKind string

const (
	ActionSpawnPatrol        ActionKind = "SPAWN_PATROL"
	ActionSpawnTactical      ActionKind = "SPAWN_TACTICAL"
	ActionStartInvestigation ActionKind = "START_INVESTIGATION"
	ActionEscalateSecurity   ActionKind = "ESCALATE_SECURITY"
	ActionProxyCrime         ActionKind = "PROXY_CRIME"
)

// DetectionProfile gates whether a faction notices a district at all.
type DetectionProfile struct {
	HeatMin        int                   `yaml:"heat_min" json:"heat_min"`
	SignatureTypes []trace.SignatureType `yaml:"signature_types" json:"signature_types"`
}

// Threshold maps a heat floor to a named response level and its actions.
type Threshold struct {
	Heat    int          `yaml:"heat" json:"heat"`
	Level   string       `yaml:"level" json:"level"`
	Actions []ActionKind `yaml:"actions" json:"actions"`
}

// ResponseProfile is the ladder of thresholds a faction escalates through.
type ResponseProfile struct {
	Thresholds []Threshold `yaml:"thresholds" json:"thresholds"`
}

// Type is a faction archetype with default profiles.
type Type struct {
	ID        string           `yaml:"id" json:"id"`
	Name      string           `yaml:"name" json:"name"`
	Detection DetectionProfile `yaml:"detection" json:"detection"`
	Response  ResponseProfile  `yaml:"response" json:"response"`
}

// Scope restricts an instance to districts by explicit id or tag overlap.
// An empty scope matches every district.
type Scope struct {
	DistrictIDs []string `yaml:"district_ids" json:"district_ids"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Instance is a deployed faction. Overrides, when present, replace the
// type's default profile wholesale.
type Instance struct {
	ID        string            `yaml:"id" json:"id"`
	TypeID    string            `yaml:"type_id" json:"type_id"`
	Name      string            `yaml:"name" json:"name"`
	Scope     Scope             `yaml:"scope" json:"scope"`
	Detection *DetectionProfile `yaml:"detection,omitempty" json:"detection,omitempty"`
	Response  *ResponseProfile  `yaml:"response,omitempty" json:"response,omitempty"`
}

// Catalog is the validated set of faction types and instances.
type Catalog struct {
	Types     []*Type     `yaml:"types" json:"types"`
	Instances []*Instance `yaml:"instances" json:"instances"`

	typeIndex map[string]*Type
}

// EmptyCatalog is the fallback when content loading fails: the director
// simply has nothing to evaluate.
func EmptyCatalog() *Catalog {
	return &Catalog{typeIndex: make(map[string]*Type)}
}

// TypeOf returns the type backing an instance.
func (c *Catalog) TypeOf(inst *Instance) *Type {
	return c.typeIndex[inst.TypeID]
}

// DetectionFor resolves an instance's detection profile, falling back to
// the type default.
func (c *Catalog) DetectionFor(inst *Instance) DetectionProfile {
	if inst.Detection != nil {
		return *inst.Detection
	}
	return c.typeIndex[inst.TypeID].Detection
}

// ResponseFor resolves an instance's response profile, falling back to the
// type default.
func (c *Catalog) ResponseFor(inst *Instance) ResponseProfile {
	if inst.Response != nil {
		return *inst.Response
	}
	return c.typeIndex[inst.TypeID].Response
}

// Matches reports whether the instance's scope covers a district with the
// given id and tags.
func (s Scope) Matches(districtID string, tags []string) bool {
	if len(s.DistrictIDs) == 0 && len(s.Tags) == 0 {
		return true
	}
	for _, id := range s.DistrictIDs {
		if id == districtID {
			return true
		}
	}
	for _, want := range s.Tags {
		for _, have := range tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
