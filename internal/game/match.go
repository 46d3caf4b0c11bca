// Package game orchestrates one match of the board game around the pure
// rules engine: seat management, turn timers, event fan-out to player
// connections, action history publishing, and final persistence.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/needon1997/settlers/engine"
	"github.com/needon1997/settlers/internal/cache"
	"github.com/needon1997/settlers/internal/database"
)

// OnMatchEndFunc runs when a match finishes. Winner is the seat index,
// or -1 when the match ended without one (e.g. all players left).
type OnMatchEndFunc func(matchID uuid.UUID, winner int8, scores map[int8]int)

// Seat binds one engine player index to a service-level identity.
type Seat struct {
	UserID    uuid.UUID
	Name      string
	Connected bool
}

// Match is one running game instance. All state transitions go through
// the engine; the match adds timers, identity, and delivery.
type Match struct {
	ID    uuid.UUID
	Rules engine.GameRules

	Engine *engine.Game
	Seats  []*Seat

	// Turn management.
	TurnDuration time.Duration // zero disables timeouts
	turnTimer    *time.Timer
	turnID       int // increments per scheduled timer, guards stale fires
	actionIndex  int

	Started bool
	Over    bool

	// Communication callbacks, set by the transport before Start.
	BroadcastFn       func(ev MatchEvent)
	BroadcastToSeatFn func(seat int8, ev MatchEvent)
	OnMatchEnd        OnMatchEndFunc

	Mu  sync.Mutex
	log *logrus.Entry
}

// MatchEvent is the outbound message unit of the service layer: either a
// wrapped engine event or a service-level notice (sync state, seat
// connectivity, action rejection).
type MatchEvent struct {
	Type    string        `json:"type"`
	Engine  *engine.Event `json:"event,omitempty"`
	State   *MatchState   `json:"state,omitempty"`
	Seat    *int8         `json:"seat,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Service-level event types. Engine events keep their own type strings.
const (
	EventSyncState      = "private_sync_state"
	EventActionRejected = "private_action_rejected"
	EventSessionToken   = "private_session_token"
	EventSeatDisconnect = "seat_disconnect"
	EventSeatReconnect  = "seat_reconnect"
)

// wrapEngine lifts an engine event into the service envelope.
func wrapEngine(ev engine.Event) MatchEvent {
	e := ev
	return MatchEvent{Type: string(ev.Type), Engine: &e}
}

// NewMatch creates a match with empty seats. The engine starts when all
// seats are filled and Start is called.
func NewMatch(rules engine.GameRules, turnDuration time.Duration) *Match {
	id, _ := uuid.NewRandom()
	return &Match{
		ID:           id,
		Rules:        rules,
		TurnDuration: turnDuration,
		log:          logrus.WithField("match", id),
	}
}

// AddSeat seats a player, or marks an existing seat reconnected when the
// user is already in the match. Returns the seat index.
// Assumes lock is held by caller.
func (m *Match) AddSeat(userID uuid.UUID, name string) (int8, error) {
	for i, s := range m.Seats {
		if s.UserID == userID {
			s.Connected = true
			m.log.WithFields(logrus.Fields{"seat": i, "name": s.Name}).Info("seat reconnected")
			return int8(i), nil
		}
	}
	if m.Started {
		return -1, fmt.Errorf("match %s already in progress", m.ID)
	}
	if len(m.Seats) >= int(m.Rules.NumPlayers) {
		return -1, fmt.Errorf("match %s is full", m.ID)
	}
	m.Seats = append(m.Seats, &Seat{UserID: userID, Name: name, Connected: true})
	m.log.WithFields(logrus.Fields{"seat": len(m.Seats) - 1, "name": name}).Info("seat filled")
	return int8(len(m.Seats) - 1), nil
}

// Full reports whether every seat is taken.
// Assumes lock is held by caller.
func (m *Match) Full() bool {
	return len(m.Seats) == int(m.Rules.NumPlayers)
}

// Start seeds the engine and begins the setup phase. The initial board
// snapshot is persisted and the queued start events are delivered.
// Assumes lock is held by caller.
func (m *Match) Start(seed uint64) error {
	if m.Started {
		return fmt.Errorf("match %s already started", m.ID)
	}
	if !m.Full() {
		return fmt.Errorf("match %s needs %d players, has %d", m.ID, m.Rules.NumPlayers, len(m.Seats))
	}

	names := make([]string, len(m.Seats))
	for i, s := range m.Seats {
		names[i] = s.Name
	}
	m.Engine = engine.NewGame(seed, m.Rules, names)
	m.Started = true
	m.log.WithField("seed", seed).Info("match started")
	m.logAction(-1, "match_start", map[string]interface{}{"seed": seed, "players": names})

	m.persistInitialState()
	m.flushEvents()
	m.scheduleTurnTimer()
	return nil
}

// HandleAction applies one player action through the engine, delivers
// the resulting events, and handles turn and lifecycle consequences. A
// rejection is returned to the caller and sent to the seat privately.
// Assumes lock is held by caller.
func (m *Match) HandleAction(seat int8, action engine.Action) error {
	if m.Engine == nil {
		return fmt.Errorf("match %s not started", m.ID)
	}
	if m.Over {
		return fmt.Errorf("match %s is over", m.ID)
	}

	err := m.Engine.HandleAction(seat, action)
	m.logAction(seat, actionName(action), map[string]interface{}{
		"accepted": err == nil,
	})
	if err != nil {
		m.log.WithFields(logrus.Fields{"seat": seat, "action": actionName(action)}).WithError(err).Debug("action rejected")
		m.sendToSeat(seat, MatchEvent{Type: EventActionRejected, Message: err.Error()})
		return err
	}

	m.flushEvents()

	if m.Engine.Over() {
		m.finish()
		return nil
	}
	m.scheduleTurnTimer()
	return nil
}

// HandleDisconnect marks the seat disconnected. The match keeps running;
// the seat's turns fall to the timeout handler.
// Assumes lock is held by caller.
func (m *Match) HandleDisconnect(seat int8) {
	if int(seat) >= len(m.Seats) || !m.Seats[seat].Connected {
		return
	}
	m.Seats[seat].Connected = false
	m.log.WithField("seat", seat).Info("seat disconnected")
	m.logAction(seat, "seat_disconnect", nil)
	s := seat
	m.broadcast(MatchEvent{Type: EventSeatDisconnect, Seat: &s})

	if m.allSeatsDisconnected() && m.Started && !m.Over {
		m.log.Warn("all seats disconnected, abandoning match")
		m.abandon()
	}
}

// HandleReconnect marks the seat connected again and sends it a full
// state snapshot.
// Assumes lock is held by caller.
func (m *Match) HandleReconnect(seat int8) {
	if int(seat) >= len(m.Seats) {
		return
	}
	m.Seats[seat].Connected = true
	m.log.WithField("seat", seat).Info("seat reconnected")
	m.logAction(seat, "seat_reconnect", nil)
	s := seat
	m.broadcast(MatchEvent{Type: EventSeatReconnect, Seat: &s})
	m.SendSyncState(seat)
}

// SendSyncState sends the seat its obfuscated view of the whole match.
// Assumes lock is held by caller.
func (m *Match) SendSyncState(seat int8) {
	if m.Engine == nil {
		return
	}
	state := m.StateForSeat(seat)
	m.sendToSeat(seat, MatchEvent{Type: EventSyncState, State: &state})
}

// flushEvents drains the engine queues and fans them out: broadcast
// events to every seat, private events to their owner only.
// Assumes lock is held by caller.
func (m *Match) flushEvents() {
	broadcast, private := m.Engine.DrainEvents()
	for _, ev := range broadcast {
		m.broadcast(wrapEngine(ev))
	}
	for seat, queue := range private {
		for _, ev := range queue {
			m.sendToSeat(int8(seat), wrapEngine(ev))
		}
	}
}

// broadcast delivers an event to all seats through the transport.
// Assumes lock is held by caller.
func (m *Match) broadcast(ev MatchEvent) {
	if m.BroadcastFn == nil {
		m.log.WithField("type", ev.Type).Warn("no broadcast function, dropping event")
		return
	}
	m.BroadcastFn(ev)
}

// sendToSeat delivers an event to one seat through the transport.
// Assumes lock is held by caller.
func (m *Match) sendToSeat(seat int8, ev MatchEvent) {
	if m.BroadcastToSeatFn == nil {
		m.log.WithField("type", ev.Type).Warn("no seat send function, dropping event")
		return
	}
	m.BroadcastToSeatFn(seat, ev)
}

// ---------------------------------------------------------------------------
// Turn timer
// ---------------------------------------------------------------------------

// scheduleTurnTimer restarts the timer for the currently awaited seat.
// Assumes lock is held by caller.
func (m *Match) scheduleTurnTimer() {
	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.turnTimer = nil
	}
	if m.TurnDuration <= 0 || m.Over {
		return
	}
	m.turnID++
	turn := m.turnID
	seat := m.Engine.AwaitingPlayer()
	if seat < 0 {
		return
	}
	m.turnTimer = time.AfterFunc(m.TurnDuration, func() {
		m.Mu.Lock()
		defer m.Mu.Unlock()
		if m.turnID != turn || m.Over {
			return
		}
		m.handleTimeout(seat)
	})
}

// handleTimeout resolves an expired turn on the seat's behalf with the
// least intrusive legal action for the current phase. Setup placements
// have no safe default, so the timer only nudges via logs there.
// Assumes lock is held by caller.
func (m *Match) handleTimeout(seat int8) {
	m.log.WithFields(logrus.Fields{"seat": seat, "phase": m.Engine.Phase().String()}).Info("turn timed out")
	m.logAction(seat, "turn_timeout", map[string]interface{}{"phase": m.Engine.Phase().String()})

	var action engine.Action
	switch m.Engine.Phase() {
	case engine.PhaseMain:
		action = engine.EndTurn{}
	case engine.PhaseRobber:
		tile, ok := m.defaultRobberTile()
		if !ok {
			return
		}
		action = engine.SelectRobber{Tile: tile}
	case engine.PhaseTradeRespond:
		action = engine.RespondTrade{Accept: false}
	case engine.PhaseTradeConfirm:
		action = engine.ConfirmTrade{}
	default:
		// Setup has no default placement; reschedule and wait.
		m.scheduleTurnTimer()
		return
	}

	if err := m.Engine.HandleAction(seat, action); err != nil {
		m.log.WithError(err).Warn("timeout default action rejected")
		m.scheduleTurnTimer()
		return
	}
	m.flushEvents()
	if m.Engine.Over() {
		m.finish()
		return
	}
	m.scheduleTurnTimer()
}

// defaultRobberTile picks a producing tile the robber is not on.
// Assumes lock is held by caller.
func (m *Match) defaultRobberTile() (engine.Coordinate, bool) {
	for x := uint8(0); x < engine.GridRows; x++ {
		for y := uint8(0); y < engine.GridCols; y++ {
			c := engine.Coordinate{X: x, Y: y}
			if c != m.Engine.Board.Robber() && m.Engine.Board.Tile(c).Kind.Producing() {
				return c, true
			}
		}
	}
	return engine.Coordinate{}, false
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// finish closes out a completed match: persistence, history, callback.
// Assumes lock is held by caller.
func (m *Match) finish() {
	if m.Over {
		return
	}
	m.Over = true
	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.turnTimer = nil
	}

	winner := m.Engine.Winner()
	scores := make(map[int8]int)
	for _, p := range m.Engine.Players {
		scores[p.Index] = p.Score
	}
	m.log.WithFields(logrus.Fields{"winner": winner, "scores": scores}).Info("match finished")
	m.logAction(-1, "match_end", map[string]interface{}{"winner": winner, "scores": scores})

	m.persistFinalState(winner, scores)
	if m.OnMatchEnd != nil {
		m.OnMatchEnd(m.ID, winner, scores)
	}
}

// abandon ends a match that lost all of its players. No winner.
// Assumes lock is held by caller.
func (m *Match) abandon() {
	if m.Over {
		return
	}
	m.Over = true
	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.turnTimer = nil
	}
	scores := make(map[int8]int)
	for _, p := range m.Engine.Players {
		scores[p.Index] = p.Score
	}
	m.logAction(-1, "match_abandoned", nil)
	m.persistFinalState(-1, scores)
	if m.OnMatchEnd != nil {
		m.OnMatchEnd(m.ID, -1, scores)
	}
}

// allSeatsDisconnected reports whether nobody is connected.
// Assumes lock is held by caller.
func (m *Match) allSeatsDisconnected() bool {
	for _, s := range m.Seats {
		if s.Connected {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Persistence and history
// ---------------------------------------------------------------------------

// persistInitialState saves the generated board for replay and audit.
// Assumes lock is held by caller.
func (m *Match) persistInitialState() {
	if database.DB == nil {
		return
	}
	snapshot := map[string]interface{}{
		"robber":   m.Engine.Board.Robber(),
		"harbors":  m.Engine.Board.Harbors(),
		"deckSize": m.Engine.DeckSize(),
		"players":  m.seatNames(),
	}
	matchID := m.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.UpsertInitialMatchState(ctx, matchID, snapshot); err != nil {
			logrus.WithField("match", matchID).WithError(err).Error("failed persisting initial state")
		}
	}()
}

// persistFinalState saves the final standings.
// Assumes lock is held by caller.
func (m *Match) persistFinalState(winner int8, scores map[int8]int) {
	if database.DB == nil {
		return
	}
	standings := make(map[string]int)
	for seat, score := range scores {
		standings[m.Seats[seat].UserID.String()] = score
	}
	snapshot := map[string]interface{}{
		"scores":  standings,
		"players": m.seatNames(),
	}
	matchID := m.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreFinalMatchState(ctx, matchID, winner, snapshot); err != nil {
			logrus.WithField("match", matchID).WithError(err).Error("failed persisting final state")
		}
	}()
}

// logAction publishes an action record to the historian queue.
// Assumes lock is held by caller.
func (m *Match) logAction(seat int8, actionType string, payload map[string]interface{}) {
	m.actionIndex++
	rec := cache.MatchActionRecord{
		MatchID:       m.ID,
		ActionIndex:   m.actionIndex,
		ActorSeat:     seat,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.MatchActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMatchAction(ctx, rec); err != nil {
			logrus.WithField("match", rec.MatchID).WithError(err).Error("failed publishing action record")
		}
	}(rec)
}

// seatNames returns the seat names in order.
// Assumes lock is held by caller.
func (m *Match) seatNames() []string {
	names := make([]string, len(m.Seats))
	for i, s := range m.Seats {
		names[i] = s.Name
	}
	return names
}

// actionName returns the wire name of an engine action for logging.
func actionName(a engine.Action) string {
	switch a.(type) {
	case engine.BuildRoad:
		return "build_road"
	case engine.BuildSettlement:
		return "build_settlement"
	case engine.BuildCity:
		return "build_city"
	case engine.BuyDevelopmentCard:
		return "buy_development_card"
	case engine.UseDevelopmentCard:
		return "use_development_card"
	case engine.ProposeTrade:
		return "propose_trade"
	case engine.RespondTrade:
		return "respond_trade"
	case engine.ConfirmTrade:
		return "confirm_trade"
	case engine.SelectRobber:
		return "select_robber"
	case engine.EndTurn:
		return "end_turn"
	}
	return "unknown"
}
