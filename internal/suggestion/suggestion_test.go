package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ocx-chess/enginecore/internal/classifier"
)

func TestValidateFENRejectsTooFewFields(t *testing.T) {
	err := validateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w")
	assert.ErrorIs(t, err, ErrInvalidFEN)
}

func TestValidateFENRejectsWrongRankCount(t *testing.T) {
	err := validateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1")
	assert.ErrorIs(t, err, ErrInvalidFEN)
}

func TestValidateFENAcceptsStartpos(t *testing.T) {
	err := validateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	assert.NoError(t, err)
}

func TestValidateFENAcceptsFourFieldFEN(t *testing.T) {
	err := validateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq")
	assert.NoError(t, err)
}

func TestBuildOptionsDefaultLimitStrength(t *testing.T) {
	msg := Message{RequestID: "r1", FEN: "x"}
	opts := buildOptions(msg)
	assert.Equal(t, "true", opts["UCI_LimitStrength"])
	assert.Equal(t, "1500", opts["UCI_Elo"])
}

func TestBuildOptionsPuzzleModeForcesStrengthOff(t *testing.T) {
	puzzle := true
	msg := Message{RequestID: "r1", FEN: "x", PuzzleMode: &puzzle}
	opts := buildOptions(msg)
	assert.Equal(t, "false", opts["UCI_LimitStrength"])
	_, hasElo := opts["UCI_Elo"]
	assert.False(t, hasElo)
}

func TestBuildOptionsClampsTargetElo(t *testing.T) {
	elo := 9000
	msg := Message{RequestID: "r1", FEN: "x", TargetElo: &elo}
	opts := buildOptions(msg)
	assert.Equal(t, "2850", opts["UCI_Elo"])
}

func TestBuildOptionsWiresArmageddon(t *testing.T) {
	msg := Message{RequestID: "r1", FEN: "x", Armageddon: "white"}
	opts := buildOptions(msg)
	assert.Equal(t, "armageddon-white", opts["UCI_Opponent"])
}

func TestBuildOptionsArmageddonOffIsNotWired(t *testing.T) {
	msg := Message{RequestID: "r1", FEN: "x", Armageddon: "off"}
	opts := buildOptions(msg)
	_, has := opts["UCI_Opponent"]
	assert.False(t, has)
}

func TestBuildLimitsDefaultsToNodeBudgetWhenStrengthLimited(t *testing.T) {
	msg := Message{RequestID: "r1", FEN: "x"}
	limits := buildLimits(msg, true)
	assert.Equal(t, defaultNodeBudget, limits.Nodes)
}

func TestBuildLimitsHonorsExplicitSearchModeWhenUnlimited(t *testing.T) {
	nodes := 2_000_000
	msg := Message{RequestID: "r1", FEN: "x", SearchMode: "nodes", SearchNodes: &nodes}
	limits := buildLimits(msg, false)
	assert.Equal(t, 2_000_000, limits.Nodes)
}

func TestBuildLimitsClampsDepth(t *testing.T) {
	depth := 99
	msg := Message{RequestID: "r1", FEN: "x", SearchMode: "depth", SearchDepth: &depth}
	limits := buildLimits(msg, false)
	assert.Equal(t, 30, limits.Depth)
}

func TestDetermineWhiteToMoveFromFEN(t *testing.T) {
	assert.True(t, determineWhiteToMove(Message{FEN: "8/8/8/8/8/8/8/8 w - - 0 1"}))
	assert.False(t, determineWhiteToMove(Message{FEN: "8/8/8/8/8/8/8/8 b - - 0 1"}))
}

func TestDetermineWhiteToMoveFromMoveParity(t *testing.T) {
	assert.True(t, determineWhiteToMove(Message{FEN: "x", Moves: []string{"e2e4", "e7e5"}}))
	assert.False(t, determineWhiteToMove(Message{FEN: "x", Moves: []string{"e2e4"}}))
}

func TestShapeResultDerivesPositionEvalFromBestCandidate(t *testing.T) {
	labeled := []classifier.LabeledSuggestion{
		{RawSuggestion: classifier.RawSuggestion{Move: "e2e4", Eval: 57, WinRate: 55.1, Depth: 20}, Label: "best"},
		{RawSuggestion: classifier.RawSuggestion{Move: "d2d4", Eval: 40, WinRate: 52.0, Depth: 18}, Label: "good"},
	}
	result := shapeResult(Message{RequestID: "r1", FEN: "x"}, labeled)

	assert.Equal(t, 0.57, result.PositionEval)
	assert.Equal(t, 55.1, result.WinRate)
	assert.Equal(t, 20, result.MaxDepth)
	assert.Nil(t, result.MateIn)
	assert.Len(t, result.Candidates, 2)
	assert.Equal(t, "best", result.Candidates[0].Label)
}
