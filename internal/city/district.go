// Package city models the simulated city as a flat list of districts.
// Districts are opaque location ids to the rest of the core; tags and
// baseline security levels are the only attributes anything reads.
package city

// Well-known district tags consumed by the detection plausibility filter
// and the suspicion propagator's location terms.
const (
	TagPublic      = "PUBLIC"
	TagResidential = "RESIDENTIAL"
	TagIndustrial  = "INDUSTRIAL"
	TagDowntown    = "DOWNTOWN"
)

// District is one named zone of the city.
type District struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`

	// Baselines applied to the heat state when the district is first
	// registered; the heat accumulator owns them afterwards.
	BaseSurveillance  int `json:"base_surveillance"`
	BaseCrimePressure int `json:"base_crime_pressure"`
}

// HasTag reports whether the district carries the tag.
func (d *District) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Map indexes districts by id.
type Map struct {
	Districts []*District
	byID      map[string]*District
}

// NewMap builds a map over the given districts.
func NewMap(districts []*District) *Map {
	m := &Map{Districts: districts, byID: make(map[string]*District, len(districts))}
	for _, d := range districts {
		m.byID[d.ID] = d
	}
	return m
}

// Get returns the district with the given id, or nil.
func (m *Map) Get(id string) *District {
	return m.byID[id]
}

// Tags returns the tags of a district, or nil for unknown ids.
func (m *Map) Tags(id string) []string {
	if d := m.byID[id]; d != nil {
		return d.Tags
	}
	return nil
}
