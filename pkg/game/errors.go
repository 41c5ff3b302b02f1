package game

import "errors"

// Action errors. All of these are expected, recoverable outcomes that the
// caller is meant to surface to the player; a rejected action leaves the
// session exactly as it was.
var (
	ErrNoActiveGame     = errors.New("no active game")
	ErrInvalidDirection = errors.New("no exit in that direction")
	ErrBlocked          = errors.New("monsters block the way")
	ErrUnknownTarget    = errors.New("no such target here")
	ErrUnknownItem      = errors.New("no such item")
	ErrWrongItemType    = errors.New("item cannot be used that way")
)
