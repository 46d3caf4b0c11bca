// Package ws exposes matches over WebSockets: one connection per seat,
// JSON client actions in, match events out. Delivery to each connection
// is serialized through a buffered queue so a slow client never blocks
// the match.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/needon1997/settlers/engine"
	"github.com/needon1997/settlers/internal/auth"
	"github.com/needon1997/settlers/internal/game"
)

// sendQueueSize bounds the per-connection outbound buffer. Events past
// the bound are dropped; the client recovers through a sync state.
const sendQueueSize = 64

// Server matches connecting players into games and routes their traffic.
type Server struct {
	Rules         engine.GameRules
	TurnDuration  time.Duration
	SessionSecret []byte

	mu      sync.Mutex
	pending *game.Match
	matches map[uuid.UUID]*matchConns
}

// matchConns tracks the live connections of one match by seat. Its own
// lock guards the clients map; never taken while already holding it.
type matchConns struct {
	match *game.Match

	mu      sync.Mutex
	clients map[int8]*client
}

// client is one seated WebSocket connection.
type client struct {
	conn *websocket.Conn
	send chan game.MatchEvent
	log  *logrus.Entry
}

// NewServer creates a server that seats players into matches with the
// given rules. The session secret signs the tokens that let a dropped
// connection resume its seat.
func NewServer(rules engine.GameRules, turnDuration time.Duration, sessionSecret []byte) *Server {
	return &Server{
		Rules:         rules,
		TurnDuration:  turnDuration,
		SessionSecret: sessionSecret,
		matches:       make(map[uuid.UUID]*matchConns),
	}
}

// ServeHTTP upgrades the connection and seats the player. A "token"
// query parameter resumes an existing seat; otherwise the "name" query
// parameter seats the player into the pending match, starting it once
// full, and a session token for later reconnection goes back privately.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("ws: accept failed")
		return
	}

	var (
		mc   *matchConns
		seat int8
		c    *client
	)
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := auth.ParseSessionToken(s.SessionSecret, token)
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, "invalid session token")
			return
		}
		mc, seat, c, err = s.seatReturning(claims.MatchID, claims.UserID, claims.Name, conn)
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}
	} else {
		name := r.URL.Query().Get("name")
		if name == "" {
			conn.Close(websocket.StatusPolicyViolation, "name query parameter required")
			return
		}
		userID, _ := uuid.NewRandom()
		mc, seat, c, err = s.seatPlayer(userID, name, conn)
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}
		token, err := auth.NewSessionToken(s.SessionSecret, userID, mc.match.ID, name)
		if err != nil {
			c.log.WithError(err).Error("ws: could not issue session token")
		} else {
			c.enqueue(game.MatchEvent{Type: game.EventSessionToken, Message: token})
		}
	}

	go c.writePump(r.Context())
	s.readLoop(r.Context(), mc, seat, c)
}

// seatPlayer places the connection into the pending match, creating one
// when needed, and starts the match once every seat is filled.
func (s *Server) seatPlayer(userID uuid.UUID, name string, conn *websocket.Conn) (*matchConns, int8, *client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		m := game.NewMatch(s.Rules, s.TurnDuration)
		mc := &matchConns{match: m, clients: make(map[int8]*client)}
		m.BroadcastFn = mc.broadcast
		m.BroadcastToSeatFn = mc.sendToSeat
		m.OnMatchEnd = s.onMatchEnd
		s.pending = m
		s.matches[m.ID] = mc
	}
	m := s.pending
	mc := s.matches[m.ID]

	m.Mu.Lock()
	defer m.Mu.Unlock()
	seat, err := m.AddSeat(userID, name)
	if err != nil {
		return nil, -1, nil, err
	}
	c := &client{
		conn: conn,
		send: make(chan game.MatchEvent, sendQueueSize),
		log:  logrus.WithFields(logrus.Fields{"match": m.ID, "seat": seat}),
	}
	mc.mu.Lock()
	mc.clients[seat] = c
	mc.mu.Unlock()

	if m.Full() && !m.Started {
		s.pending = nil
		if err := m.Start(uint64(time.Now().UnixNano())); err != nil {
			return nil, -1, nil, err
		}
	}
	return mc, seat, c, nil
}

// seatReturning puts a token-bearing connection back into its seat. The
// match must still exist and the user must already hold a seat in it.
func (s *Server) seatReturning(matchID, userID uuid.UUID, name string, conn *websocket.Conn) (*matchConns, int8, *client, error) {
	s.mu.Lock()
	mc, ok := s.matches[matchID]
	s.mu.Unlock()
	if !ok {
		return nil, -1, nil, fmt.Errorf("match %s is no longer running", matchID)
	}
	m := mc.match

	m.Mu.Lock()
	defer m.Mu.Unlock()
	seat, err := m.AddSeat(userID, name)
	if err != nil {
		return nil, -1, nil, err
	}
	c := &client{
		conn: conn,
		send: make(chan game.MatchEvent, sendQueueSize),
		log:  logrus.WithFields(logrus.Fields{"match": m.ID, "seat": seat}),
	}
	mc.mu.Lock()
	mc.clients[seat] = c
	mc.mu.Unlock()

	if m.Started {
		m.HandleReconnect(seat)
	}
	return mc, seat, c, nil
}

// readLoop parses and applies client actions until the connection drops.
func (s *Server) readLoop(ctx context.Context, mc *matchConns, seat int8, c *client) {
	m := mc.match
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.log.WithError(err).Debug("ws: connection closed")
			break
		}
		action, err := game.DecodeAction(data)
		if err != nil {
			c.log.WithError(err).Debug("ws: bad action frame")
			mc.sendToSeat(seat, game.MatchEvent{Type: game.EventActionRejected, Message: err.Error()})
			continue
		}
		m.Mu.Lock()
		// Rejections travel back as private events; nothing more to do here.
		_ = m.HandleAction(seat, action)
		m.Mu.Unlock()
	}

	m.Mu.Lock()
	m.HandleDisconnect(seat)
	m.Mu.Unlock()

	mc.mu.Lock()
	delete(mc.clients, seat)
	mc.mu.Unlock()
	close(c.send)
}

// broadcast enqueues an event to every connected seat.
func (mc *matchConns) broadcast(ev game.MatchEvent) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, c := range mc.clients {
		c.enqueue(ev)
	}
}

// sendToSeat enqueues an event to one seat, when connected.
func (mc *matchConns) sendToSeat(seat int8, ev game.MatchEvent) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if c, ok := mc.clients[seat]; ok {
		c.enqueue(ev)
	}
}

// enqueue adds an event to the client's outbound queue, dropping it when
// the queue is full.
func (c *client) enqueue(ev game.MatchEvent) {
	select {
	case c.send <- ev:
	default:
		c.log.WithField("type", ev.Type).Warn("ws: send queue full, dropping event")
	}
}

// writePump serializes outbound writes for one connection.
func (c *client) writePump(ctx context.Context) {
	for ev := range c.send {
		writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := wsjson.Write(writeCtx, c.conn, ev)
		cancel()
		if err != nil {
			c.log.WithError(err).Debug("ws: write failed")
			return
		}
	}
	c.conn.Close(websocket.StatusNormalClosure, "match closed")
}

// onMatchEnd drops the match bookkeeping once it has finished. Runs
// asynchronously because the match lock is held at the callback site.
func (s *Server) onMatchEnd(matchID uuid.UUID, winner int8, scores map[int8]int) {
	logrus.WithFields(logrus.Fields{"match": matchID, "winner": winner}).Info("ws: match ended")
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.pending != nil && s.pending.ID == matchID {
			s.pending = nil
		}
		// Connections close themselves as their write pumps drain.
		delete(s.matches, matchID)
	}()
}
