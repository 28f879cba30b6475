package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestValidateRejectsMissingRequestID(t *testing.T) {
	err := validate(Message{FENBefore: startpos, FENAfter: startpos, Move: "e2e4", PlayerColor: "white"})
	assert.ErrorIs(t, err, ErrMissingRequestID)
}

func TestValidateRejectsMissingMove(t *testing.T) {
	err := validate(Message{RequestID: "r1", FENBefore: startpos, FENAfter: startpos, PlayerColor: "white"})
	assert.ErrorIs(t, err, ErrMissingMove)
}

func TestValidateRejectsBadPlayerColor(t *testing.T) {
	err := validate(Message{RequestID: "r1", FENBefore: startpos, FENAfter: startpos, Move: "e2e4", PlayerColor: "purple"})
	assert.ErrorIs(t, err, ErrInvalidPlayerColor)
}

func TestValidateAcceptsWellFormedMessage(t *testing.T) {
	err := validate(Message{RequestID: "r1", FENBefore: startpos, FENAfter: startpos, Move: "e2e4", PlayerColor: "black"})
	assert.NoError(t, err)
}
