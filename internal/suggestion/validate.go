// Package suggestion implements the move-suggestion handler: validate
// the request, configure an engine, run a search, and shape the result.
package suggestion

import (
	"errors"

	"github.com/ocx-chess/enginecore/internal/chessutil"
)

var (
	ErrMissingRequestID = errors.New("suggestion: requestId is required")
	ErrInvalidFEN       = errors.New("suggestion: fen is not well-formed")
)

// validateFEN delegates well-formedness checking to chessutil (backed by
// notnil/chess) rather than hand-rolling board parsing here — chess
// rules and board structure stay out of the core proper.
func validateFEN(fen string) error {
	if err := chessutil.ValidateFEN(fen); err != nil {
		return ErrInvalidFEN
	}
	return nil
}
