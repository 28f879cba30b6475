package analysis

import (
	"errors"

	"github.com/ocx-chess/enginecore/internal/chessutil"
)

var (
	ErrMissingRequestID   = errors.New("analysis: requestId is required")
	ErrMissingMove        = errors.New("analysis: move is required")
	ErrInvalidFEN         = errors.New("analysis: fen is not well-formed")
	ErrInvalidPlayerColor = errors.New("analysis: playerColor must be white or black")
)

func validate(msg Message) error {
	if msg.RequestID == "" {
		return ErrMissingRequestID
	}
	if msg.Move == "" {
		return ErrMissingMove
	}
	if err := validateFEN(msg.FENBefore); err != nil {
		return err
	}
	if err := validateFEN(msg.FENAfter); err != nil {
		return err
	}
	if msg.PlayerColor != "white" && msg.PlayerColor != "black" {
		return ErrInvalidPlayerColor
	}
	return nil
}

// validateFEN delegates to chessutil, same as the suggestion handler.
func validateFEN(fen string) error {
	if err := chessutil.ValidateFEN(fen); err != nil {
		return ErrInvalidFEN
	}
	return nil
}
