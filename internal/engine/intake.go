// Intake: signature reports and intents submitted by outer layers are
// queued here and consumed at the head of the next tick, keeping the tick
// driver the only writer of core state.
package engine

import (
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/persona"
	"github.com/talgya/masquerade/internal/trace"
)

// Report is the action-resolution layer's input contract: one resolved
// in-world action and the observation context around it.
type Report struct {
	DistrictID      string
	Signatures      []trace.Signature
	Witnesses       int
	InPublic        bool
	PersonaHint     evidence.PersonaHint
	SuspectFeatures []string
}

// ReportAction queues a signature batch for the next tick.
func (s *Simulation) ReportAction(r Report) {
	s.pendingReports = append(s.pendingReports, r)
}

// SubmitIntent queues a persona intent for the next tick.
func (s *Simulation) SubmitIntent(in persona.Intent) {
	s.pendingIntents = append(s.pendingIntents, in)
}

// processReports drains the report queue: each report emits into the
// ledger, feeds the heat accumulator, and is correlated into identity
// evidence. Runs after ledger decay so a fresh entry survives the full
// persistence window.
func (s *Simulation) processReports(tick uint64) {
	reports := s.pendingReports
	s.pendingReports = nil

	for _, r := range reports {
		if len(r.Signatures) == 0 {
			continue
		}
		s.Ledger.Emit(r.DistrictID, r.Signatures)
		s.Heat.ApplySignatures(r.DistrictID, r.Signatures, r.Witnesses, r.InPublic)

		dh := s.Heat.Get(r.DistrictID)
		witnessCount := evidence.DeriveWitnessCount(r.Witnesses, r.InPublic)
		quality := evidence.DeriveVisualQuality(dh.SurveillanceLevel, witnessCount)

		// Consuming is_new here is what makes each ledger entry feed
		// identity evidence exactly once.
		newTypes := s.Ledger.ConsumeNew(r.DistrictID)
		sigNames := make([]string, len(newTypes))
		for i, t := range newTypes {
			sigNames[i] = string(t)
		}

		hint := r.PersonaHint
		if hint == "" {
			hint = evidence.HintUnknown
		}
		s.Evidence.Record(r.DistrictID, tick, sigNames, witnessCount, quality, hint, r.SuspectFeatures)
	}
}
