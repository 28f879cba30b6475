// Package chessutil wraps github.com/notnil/chess for the two pieces of
// chess-rules-adjacent parsing the core needs — FEN well-formedness and
// non-king material counting for analysis phase detection — so the
// handlers themselves never hand-roll board parsing (the Non-goals
// exclude chess rules from the core proper).
package chessutil

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ErrInvalidFEN wraps any FEN the underlying chess library rejects.
type ErrInvalidFEN struct{ Cause error }

func (e *ErrInvalidFEN) Error() string { return fmt.Sprintf("chessutil: invalid fen: %v", e.Cause) }
func (e *ErrInvalidFEN) Unwrap() error { return e.Cause }

// normalizeFEN accepts the basic well-formedness window (space-separated,
// at least four fields, an eight-rank board) and pads a 4- or 5-field FEN
// (missing halfmove clock and/or fullmove number) out to the six fields
// notnil/chess requires, defaulting halfmove to 0 and fullmove to 1.
func normalizeFEN(fen string) (string, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return "", fmt.Errorf("chessutil: fen needs at least 4 fields, got %d", len(fields))
	}
	if strings.Count(fields[0], "/") != 7 {
		return "", fmt.Errorf("chessutil: fen board must have 8 ranks")
	}
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 5:
		fields = append(fields, "1")
	default:
		fields = fields[:6]
	}
	return strings.Join(fields, " "), nil
}

// ValidateFEN reports whether fen parses as a well-formed chess position.
func ValidateFEN(fen string) error {
	normalized, err := normalizeFEN(fen)
	if err != nil {
		return &ErrInvalidFEN{Cause: err}
	}
	fenOpt, err := chess.FEN(normalized)
	if err != nil {
		return &ErrInvalidFEN{Cause: err}
	}
	chess.NewGame(fenOpt)
	return nil
}

// pieceValues follows standard point values; kings are intentionally
// absent since they never leave the board and contribute nothing to
// phase detection.
var pieceValues = map[chess.PieceType]float64{
	chess.Queen:  9,
	chess.Rook:   5,
	chess.Bishop: 3,
	chess.Knight: 3,
	chess.Pawn:   1,
}

// NonKingMaterial sums standard point values for every piece on the
// board described by fen, excluding kings. Returns an error if fen does
// not parse.
func NonKingMaterial(fen string) (float64, error) {
	normalized, err := normalizeFEN(fen)
	if err != nil {
		return 0, &ErrInvalidFEN{Cause: err}
	}
	fenOpt, err := chess.FEN(normalized)
	if err != nil {
		return 0, &ErrInvalidFEN{Cause: err}
	}
	game := chess.NewGame(fenOpt)

	var total float64
	for _, piece := range game.Position().Board().SquareMap() {
		total += pieceValues[piece.Type()]
	}
	return total, nil
}
