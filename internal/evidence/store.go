// Package evidence accumulates identity evidence: correlations of observed
// signatures with witness and surveillance quality, used to infer who is
// behind a masked persona. The store is append-only.
package evidence

// PersonaHint is what the observation suggested about the actor.
type PersonaHint string

const (
	HintCivilian PersonaHint = "CIVILIAN"
	HintMasked   PersonaHint = "MASKED"
	HintUnknown  PersonaHint = "UNKNOWN"
)

// WitnessQualityWeight scales witness count into visual quality. A tunable
// constant, not a derived invariant.
const WitnessQualityWeight = 10

// Item is a single recorded observation. Ids increase monotonically; items
// are never deleted or mutated after Record.
type Item struct {
	ID              uint64      `json:"id"`
	DistrictID      string      `json:"district_id"`
	Tick            uint64      `json:"tick"`
	SignatureTypes  []string    `json:"signature_types"`
	WitnessCount    int         `json:"witness_count"`
	VisualQuality   int         `json:"visual_quality"`
	PersonaHint     PersonaHint `json:"persona_hint"`
	SuspectFeatures []string    `json:"suspect_features"`
}

// Store is the append-only identity evidence log.
type Store struct {
	items  []*Item
	nextID uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Record appends an item with the next sequential id and returns it.
func (s *Store) Record(districtID string, tick uint64, sigTypes []string, witnessCount, visualQuality int, hint PersonaHint, features []string) *Item {
	item := &Item{
		ID:              s.nextID,
		DistrictID:      districtID,
		Tick:            tick,
		SignatureTypes:  sigTypes,
		WitnessCount:    witnessCount,
		VisualQuality:   visualQuality,
		PersonaHint:     hint,
		SuspectFeatures: features,
	}
	s.nextID++
	s.items = append(s.items, item)
	return item
}

// Restore installs loaded items and syncs the id counter past the highest
// existing id.
func (s *Store) Restore(items []*Item) {
	s.items = items
	s.nextID = 1
	for _, it := range items {
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
}

// All returns every recorded item, oldest first.
func (s *Store) All() []*Item {
	return s.items
}

// At returns the items recorded at a district.
func (s *Store) At(districtID string) []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.DistrictID == districtID {
			out = append(out, it)
		}
	}
	return out
}

// DeriveWitnessCount is the caller-side derivation for Record: at least one
// witness in public districts, none otherwise.
func DeriveWitnessCount(witnesses int, inPublic bool) int {
	if !inPublic {
		return 0
	}
	if witnesses < 1 {
		return 1
	}
	return witnesses
}

// DeriveVisualQuality is the caller-side derivation for Record:
// surveillance plus weighted witnesses, clamped to 0–100.
func DeriveVisualQuality(surveillance, witnessCount int) int {
	q := surveillance + witnessCount*WitnessQualityWeight
	if q < 0 {
		q = 0
	}
	if q > 100 {
		q = 100
	}
	return q
}
