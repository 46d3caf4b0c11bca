package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needon1997/settlers/engine"
	"github.com/needon1997/settlers/internal/game"
)

// drainForType empties the client's queue and returns the last event of
// the given type, if any.
func drainForType(c *client, eventType string) *game.MatchEvent {
	var found *game.MatchEvent
	for len(c.send) > 0 {
		ev := <-c.send
		if ev.Type == eventType {
			e := ev
			found = &e
		}
	}
	return found
}

func TestSeatReturningReconnects(t *testing.T) {
	s := NewServer(engine.DefaultGameRules(), 0, []byte("test-secret"))

	ids := make([]uuid.UUID, 4)
	var mc *matchConns
	for i, name := range []string{"ann", "ben", "cat", "dan"} {
		ids[i] = uuid.New()
		var err error
		mc, _, _, err = s.seatPlayer(ids[i], name, nil)
		require.NoError(t, err)
	}
	m := mc.match
	require.True(t, m.Started)

	// Drop seat 1 the way readLoop does when the connection dies.
	m.Mu.Lock()
	m.HandleDisconnect(1)
	m.Mu.Unlock()
	mc.mu.Lock()
	delete(mc.clients, 1)
	mc.mu.Unlock()

	// A stranger's token identity cannot claim a seat in a running match.
	_, _, _, err := s.seatReturning(m.ID, uuid.New(), "eve", nil)
	require.Error(t, err)

	// The original user resumes their seat and gets a fresh snapshot.
	rmc, seat, c, err := s.seatReturning(m.ID, ids[1], "ben", nil)
	require.NoError(t, err)
	assert.Equal(t, mc, rmc)
	assert.Equal(t, int8(1), seat)
	assert.True(t, m.Seats[1].Connected)

	sync := drainForType(c, game.EventSyncState)
	require.NotNil(t, sync)
	require.NotNil(t, sync.State)
	assert.Equal(t, int8(1), sync.State.YourSeat)
}

func TestSeatReturningUnknownMatch(t *testing.T) {
	s := NewServer(engine.DefaultGameRules(), 0, []byte("test-secret"))
	_, _, _, err := s.seatReturning(uuid.New(), uuid.New(), "ann", nil)
	require.Error(t, err)
}
