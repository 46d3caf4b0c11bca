package game

import (
	"context"
	"fmt"

	"github.com/needon1997/settlers/engine"
)

// Actor supplies actions for one seat. The WebSocket transport is one
// implementation; ScriptedActor drives matches in-process for tests and
// bots.
type Actor interface {
	Name() string
	// NextAction returns the seat's next move given its view of the
	// match. Called only when the engine awaits this seat.
	NextAction(ctx context.Context, state MatchState) (engine.Action, error)
}

// ScriptedActor replays a fixed action sequence.
type ScriptedActor struct {
	ActorName string
	Script    []engine.Action
	pos       int
}

// Name returns the actor's display name.
func (a *ScriptedActor) Name() string { return a.ActorName }

// NextAction returns the next scripted action, or an error when the
// script is exhausted.
func (a *ScriptedActor) NextAction(ctx context.Context, state MatchState) (engine.Action, error) {
	if a.pos >= len(a.Script) {
		return nil, fmt.Errorf("actor %s: script exhausted after %d actions", a.ActorName, a.pos)
	}
	action := a.Script[a.pos]
	a.pos++
	return action, nil
}

// Drive runs a match with in-process actors until it finishes, the
// context ends, or an actor fails. Rejected actions stop the drive; a
// script is expected to be legal.
func Drive(ctx context.Context, m *Match, actors []Actor) error {
	if len(actors) != len(m.Seats) {
		return fmt.Errorf("match %s: %d actors for %d seats", m.ID, len(actors), len(m.Seats))
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.Mu.Lock()
		if m.Over {
			m.Mu.Unlock()
			return nil
		}
		seat := m.Engine.AwaitingPlayer()
		if seat < 0 {
			m.Mu.Unlock()
			return nil
		}
		state := m.StateForSeat(seat)
		m.Mu.Unlock()

		action, err := actors[seat].NextAction(ctx, state)
		if err != nil {
			return fmt.Errorf("seat %d: %w", seat, err)
		}

		m.Mu.Lock()
		err = m.HandleAction(seat, action)
		m.Mu.Unlock()
		if err != nil {
			return fmt.Errorf("seat %d action rejected: %w", seat, err)
		}
	}
}
