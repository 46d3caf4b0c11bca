package engine

import (
	"errors"
	"fmt"
)

// Rejection categories. Every mutating operation validates first and
// returns one of these wrapped with a descriptive message; a rejected
// action leaves all state untouched.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrNoResource      = errors.New("no resource")
	ErrLimitReached    = errors.New("limit reached")
	ErrNotConnected    = errors.New("missing road connectivity")
	ErrInvalidCard     = errors.New("invalid development card usage")
	ErrInvalidTrade    = errors.New("invalid trade")
	ErrInvalidSteal    = errors.New("invalid steal target")
	ErrInvalidRobber   = errors.New("invalid robber position")

	// ErrProtocol marks an action that is not acceptable in the current
	// phase. The match stays alive; the action is rejected like any other.
	ErrProtocol = errors.New("protocol violation")
)

func errInvalidPosition(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidPosition, msg) }
func errNoResource(msg string) error      { return fmt.Errorf("%w: %s", ErrNoResource, msg) }
func errLimitReached(msg string) error    { return fmt.Errorf("%w: %s", ErrLimitReached, msg) }
func errNotConnected(msg string) error    { return fmt.Errorf("%w: %s", ErrNotConnected, msg) }
func errInvalidCard(msg string) error     { return fmt.Errorf("%w: %s", ErrInvalidCard, msg) }
func errInvalidTrade(msg string) error    { return fmt.Errorf("%w: %s", ErrInvalidTrade, msg) }
func errInvalidSteal(msg string) error    { return fmt.Errorf("%w: %s", ErrInvalidSteal, msg) }
func errInvalidRobber(msg string) error   { return fmt.Errorf("%w: %s", ErrInvalidRobber, msg) }
func errProtocol(msg string) error        { return fmt.Errorf("%w: %s", ErrProtocol, msg) }
