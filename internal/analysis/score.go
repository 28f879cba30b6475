package analysis

import (
	"math"

	"github.com/ocx-chess/enginecore/internal/chessutil"
)

// classify maps centipawn loss onto the six-bucket classification scale.
// Monotone in cpl by construction: every bucket's upper bound is strictly
// greater than the previous one.
func classify(cpl int) string {
	switch {
	case cpl <= 10:
		return "best"
	case cpl <= 25:
		return "excellent"
	case cpl <= 60:
		return "good"
	case cpl <= 120:
		return "inaccuracy"
	case cpl <= 250:
		return "mistake"
	default:
		return "blunder"
	}
}

// accuracyImpact is a saturating exponential: 0 at cpl=0, strictly
// increasing, approaching 40 as cpl grows without bound.
func accuracyImpact(cpl int) float64 {
	impact := 40 * (1 - math.Exp(-float64(cpl)/150))
	return math.Round(impact*10) / 10
}

var phaseWeights = map[string]float64{
	"opening":    0.7,
	"middlegame": 1.0,
	"endgame":    1.3,
}

const startingNonKingMaterial = 78

// detectPhase counts non-king material in fen via chessutil and buckets
// the fraction remaining into opening/middlegame/endgame. A fen that
// fails to parse here has already been rejected by validate(), so this
// treats that case as endgame rather than propagating a second error.
func detectPhase(fen string) string {
	total, err := chessutil.NonKingMaterial(fen)
	if err != nil {
		return "endgame"
	}
	fraction := total / startingNonKingMaterial
	switch {
	case fraction > 0.85:
		return "opening"
	case fraction > 0.35:
		return "middlegame"
	default:
		return "endgame"
	}
}

func weightedImpact(impact float64, phase string) float64 {
	w := phaseWeights[phase]
	return math.Round(impact*w*10) / 10
}

func normalizeToPlayer(evalWhite int, playerColor string) int {
	if playerColor == "black" {
		return -evalWhite
	}
	return evalWhite
}

func centipawnLoss(bestEvalPlayer, evalAfterPlayer int) int {
	cpl := bestEvalPlayer - evalAfterPlayer
	if cpl < 0 {
		return 0
	}
	return cpl
}
