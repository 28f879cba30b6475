package chessutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestValidateFENAcceptsStartpos(t *testing.T) {
	assert.NoError(t, ValidateFEN(startpos))
}

func TestValidateFENRejectsTruncatedFEN(t *testing.T) {
	assert.Error(t, ValidateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w"))
}

func TestValidateFENRejectsMissingRank(t *testing.T) {
	assert.Error(t, ValidateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1"))
}

func TestValidateFENAcceptsFourFieldFEN(t *testing.T) {
	assert.NoError(t, ValidateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"))
}

func TestValidateFENAcceptsFiveFieldFEN(t *testing.T) {
	assert.NoError(t, ValidateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"))
}

func TestValidateFENRejectsThreeFieldFEN(t *testing.T) {
	assert.Error(t, ValidateFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"))
}

func TestNonKingMaterialStartposIsFull(t *testing.T) {
	total, err := NonKingMaterial(startpos)
	assert.NoError(t, err)
	assert.Equal(t, float64(78), total)
}

func TestNonKingMaterialBareKingsIsZero(t *testing.T) {
	total, err := NonKingMaterial("8/8/8/4k3/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)
	assert.Equal(t, float64(0), total)
}

func TestNonKingMaterialRejectsInvalidFEN(t *testing.T) {
	_, err := NonKingMaterial("not a fen")
	assert.Error(t, err)
}
