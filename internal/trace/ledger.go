package trace

// Ledger is the transient per-district log of decaying signature instances.
// It has a single writer (the tick driver); entries live from Emit until
// their remaining turns reach zero.
type Ledger struct {
	entries map[string][]*Event
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]*Event)}
}

// Emit appends one event per signature at the given district. Signatures
// with a non-positive persistence get DefaultPersistence. Repeated
// signatures of the same type are kept as separate entries, never merged.
func (l *Ledger) Emit(districtID string, sigs []Signature) []*Event {
	emitted := make([]*Event, 0, len(sigs))
	for _, sig := range sigs {
		if sig.Persistence <= 0 {
			sig.Persistence = DefaultPersistence
		}
		ev := &Event{
			DistrictID: districtID,
			Instance:   &Instance{Signature: sig, Remaining: sig.Persistence},
			IsNew:      true,
		}
		l.entries[districtID] = append(l.entries[districtID], ev)
		emitted = append(emitted, ev)
	}
	return emitted
}

// TickDecay decrements every entry's remaining turns and removes the ones
// that reach zero. Runs exactly once per tick, before anything samples the
// ledger.
func (l *Ledger) TickDecay() {
	for id, evs := range l.entries {
		kept := evs[:0]
		for _, ev := range evs {
			ev.Instance.Remaining--
			if ev.Instance.Remaining > 0 {
				kept = append(kept, ev)
			}
		}
		if len(kept) == 0 {
			delete(l.entries, id)
		} else {
			l.entries[id] = kept
		}
	}
}

// At returns the live entries for a district. Callers must not mutate.
func (l *Ledger) At(districtID string) []*Event {
	return l.entries[districtID]
}

// ConsumeNew returns the signature types of not-yet-consumed entries at a
// district and clears their IsNew flags. Each entry is reported once.
func (l *Ledger) ConsumeNew(districtID string) []SignatureType {
	var types []SignatureType
	for _, ev := range l.entries[districtID] {
		if ev.IsNew {
			ev.IsNew = false
			types = append(types, ev.Instance.Type)
		}
	}
	return types
}

// HasType reports whether any live entry at the district carries one of
// the given types. An empty filter matches nothing.
func (l *Ledger) HasType(districtID string, types []SignatureType) bool {
	for _, ev := range l.entries[districtID] {
		for _, t := range types {
			if ev.Instance.Type == t {
				return true
			}
		}
	}
	return false
}

// CountMatching counts live entries at the district whose type appears in
// the pattern.
func (l *Ledger) CountMatching(districtID string, pattern []SignatureType) int {
	n := 0
	for _, ev := range l.entries[districtID] {
		for _, t := range pattern {
			if ev.Instance.Type == t {
				n++
				break
			}
		}
	}
	return n
}

// TopTypes returns up to max signature types at the district ranked by
// entry frequency, restricted to the filter when it is non-empty. Ties
// break deterministically by first-seen order.
func (l *Ledger) TopTypes(districtID string, filter []SignatureType, max int) []SignatureType {
	counts := make(map[SignatureType]int)
	var order []SignatureType
	for _, ev := range l.entries[districtID] {
		t := ev.Instance.Type
		if len(filter) > 0 && !containsType(filter, t) {
			continue
		}
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	// Selection by repeated max scan; the type universe is tiny.
	var top []SignatureType
	for len(top) < max && len(order) > 0 {
		bestIdx := 0
		for i := range order {
			if counts[order[i]] > counts[order[bestIdx]] {
				bestIdx = i
			}
		}
		top = append(top, order[bestIdx])
		order = append(order[:bestIdx], order[bestIdx+1:]...)
	}
	return top
}

func containsType(list []SignatureType, t SignatureType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
