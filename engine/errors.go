package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoHistory        = errors.New("no moves to undo")
	ErrIllegalMove      = errors.New("illegal move")
	ErrNoMovesAvailable = errors.New("no legal moves available")
	ErrSearchExhausted  = errors.New("search budget exhausted before any root move completed")
)

func illegalMoveError(move Move, side Side) error {
	return fmt.Errorf("%w: %s for side %s", ErrIllegalMove, move, side)
}
