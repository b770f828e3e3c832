// Per-tick case progression: investigators on the ground, matching ledger
// signatures, and compatible identity evidence all push a case forward.
package engine

import (
	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/evidence"
)

// Caps on per-tick contributions from ledger and evidence matches.
const (
	caseSigMatchCap      = 3
	caseEvidenceMatchCap = 3
)

// progressCases advances every active case.
func (s *Simulation) progressCases() {
	for _, c := range s.Cases.Active() {
		dh := s.Heat.Get(c.DistrictID)

		sigMatches := s.Ledger.CountMatching(c.DistrictID, c.SignaturePattern)
		if sigMatches > caseSigMatchCap {
			sigMatches = caseSigMatchCap
		}

		evMatches := s.countEvidenceMatches(c)
		if evMatches > caseEvidenceMatchCap {
			evMatches = caseEvidenceMatchCap
		}

		delta := 2*dh.Investigators + 2*sigMatches + 2*evMatches
		c.Advance(delta)
	}
}

// countEvidenceMatches counts identity evidence items at the case's
// district whose signatures overlap the case pattern and whose persona
// hint is compatible with what the case believes it is chasing.
func (s *Simulation) countEvidenceMatches(c *casework.Case) int {
	n := 0
	for _, item := range s.Evidence.At(c.DistrictID) {
		if !hintCompatible(item.PersonaHint, c.TargetType) {
			continue
		}
		if !patternOverlaps(item.SignatureTypes, c) {
			continue
		}
		n++
	}
	return n
}

// hintCompatible enforces target coherence: a masked-target case cannot be
// advanced by evidence pointing at a civilian, and a civilian-link case
// cannot be advanced by evidence of someone visibly masked.
func hintCompatible(hint evidence.PersonaHint, target casework.TargetType) bool {
	switch target {
	case casework.TargetUnknownMasked, casework.TargetKnownMasked:
		return hint != evidence.HintCivilian
	case casework.TargetCivilianLink:
		return hint != evidence.HintMasked
	default:
		return false
	}
}

func patternOverlaps(sigTypes []string, c *casework.Case) bool {
	for _, st := range sigTypes {
		for _, pt := range c.SignaturePattern {
			if st == string(pt) {
				return true
			}
		}
	}
	return false
}
