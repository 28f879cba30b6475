// Package classifier labels raw engine candidate moves with domain
// scoring metadata (style, ELO-band fit, etc.). The scoring heuristics
// themselves are out of scope for this core — this package only defines
// the seam a real labeler plugs into.
package classifier

import "github.com/ocx-chess/enginecore/internal/uciengine"

// RawSuggestion is one engine candidate before labeling.
type RawSuggestion struct {
	Move      string
	PV        []string
	Eval      int
	WinRate   float64
	DrawRate  float64
	LossRate  float64
	Depth     int
	MateScore *int
}

// LabeledSuggestion adds a classification label to a RawSuggestion.
type LabeledSuggestion struct {
	RawSuggestion
	Label string
}

// Classifier turns raw engine output into labeled suggestions.
type Classifier interface {
	Classify(candidates []RawSuggestion) []LabeledSuggestion
}

// PassthroughClassifier labels every move "unclassified". It is the
// default classifier — a real scoring/ELO-band service is expected to
// implement Classifier and be wired in at startup.
type PassthroughClassifier struct{}

func (PassthroughClassifier) Classify(candidates []RawSuggestion) []LabeledSuggestion {
	out := make([]LabeledSuggestion, len(candidates))
	for i, c := range candidates {
		out[i] = LabeledSuggestion{RawSuggestion: c, Label: "unclassified"}
	}
	return out
}

// FromCandidates adapts uciengine.Candidate values (already normalized
// to white's perspective) into RawSuggestion values for classification.
func FromCandidates(candidates []uciengine.Candidate) []RawSuggestion {
	out := make([]RawSuggestion, len(candidates))
	for i, c := range candidates {
		out[i] = RawSuggestion{
			Move:      c.Move,
			PV:        c.PV,
			Eval:      c.Eval,
			WinRate:   c.WinRate,
			DrawRate:  c.DrawRate,
			LossRate:  c.LossRate,
			Depth:     c.Depth,
			MateScore: c.MateScore,
		}
	}
	return out
}
