package game

import (
	"github.com/google/uuid"

	"github.com/needon1997/settlers/engine"
)

// RoadView is one built road for state synchronization.
type RoadView struct {
	Edge  engine.Line `json:"edge"`
	Owner int8        `json:"owner"`
}

// BuildingView is one built settlement or city.
type BuildingView struct {
	Point engine.Coordinate `json:"point"`
	Owner int8              `json:"owner"`
	City  bool              `json:"city"`
}

// SeatView is one player's public standing. Hidden information stays at
// counts; the requesting seat gets details through the You field of
// MatchState instead.
type SeatView struct {
	Seat          int8      `json:"seat"`
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	Connected     bool      `json:"connected"`
	Score         int       `json:"score"`
	ResourceCount int       `json:"resourceCount"`
	CardCount     int       `json:"cardCount"`
	KnightsUsed   uint8     `json:"knightsUsed"`
	LongestRoad   bool      `json:"longestRoad"`
	LargestArmy   bool      `json:"largestArmy"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
}

// PrivateView is the requesting seat's own hidden state.
type PrivateView struct {
	Resources engine.ResourceSet        `json:"resources"`
	Cards     [engine.NumDevCards]uint8 `json:"cards"`
}

// MatchState is a full snapshot of the match tailored to one observer:
// everything public, plus the observer's own hidden state. Used for
// reconnects and on-demand resynchronization.
type MatchState struct {
	MatchID   uuid.UUID                                     `json:"matchId"`
	Phase     string                                        `json:"phase"`
	Started   bool                                          `json:"started"`
	Over      bool                                          `json:"over"`
	Winner    int8                                          `json:"winner"`
	Awaiting  int8                                          `json:"awaiting"`
	Tiles     [engine.GridRows][engine.GridCols]engine.Tile `json:"tiles"`
	Harbors   []engine.Harbor                               `json:"harbors"`
	Robber    engine.Coordinate                             `json:"robber"`
	Roads     []RoadView                                    `json:"roads"`
	Buildings []BuildingView                                `json:"buildings"`
	DeckSize  int                                           `json:"deckSize"`
	Seats     []SeatView                                    `json:"seats"`
	You       PrivateView                                   `json:"you"`
	YourSeat  int8                                          `json:"yourSeat"`
}

// StateForSeat builds the observer-specific snapshot. Other seats'
// resources and cards appear only as counts.
// Assumes lock is held by caller.
func (m *Match) StateForSeat(seat int8) MatchState {
	e := m.Engine
	state := MatchState{
		MatchID:  m.ID,
		Phase:    e.Phase().String(),
		Started:  m.Started,
		Over:     e.Over(),
		Winner:   e.Winner(),
		Awaiting: e.AwaitingPlayer(),
		Robber:   e.Board.Robber(),
		Harbors:  e.Board.Harbors(),
		DeckSize: e.DeckSize(),
		YourSeat: seat,
	}

	for x := uint8(0); x < engine.GridRows; x++ {
		for y := uint8(0); y < engine.GridCols; y++ {
			c := engine.Coordinate{X: x, Y: y}
			state.Tiles[x][y] = e.Board.Tile(c)
		}
	}

	for edge, owner := range e.Board.Roads() {
		state.Roads = append(state.Roads, RoadView{Edge: edge, Owner: owner})
	}
	for x := uint8(0); x < engine.PointRows; x++ {
		for y := uint8(0); y < engine.PointCols; y++ {
			c := engine.Coordinate{X: x, Y: y}
			pt := e.Board.Point(c)
			if pt.Owned() {
				state.Buildings = append(state.Buildings, BuildingView{Point: c, Owner: pt.Owner, City: pt.City})
			}
		}
	}

	state.Seats = make([]SeatView, len(m.Seats))
	for i, s := range m.Seats {
		p := e.Players[i]
		cardCount := 0
		for _, n := range p.Cards {
			cardCount += int(n)
		}
		state.Seats[i] = SeatView{
			Seat:          int8(i),
			UserID:        s.UserID,
			Name:          s.Name,
			Connected:     s.Connected,
			Score:         p.Score,
			ResourceCount: p.Resources.Total(),
			CardCount:     cardCount,
			KnightsUsed:   p.KnightsUsed,
			LongestRoad:   p.LongestRoad,
			LargestArmy:   p.LargestArmy,
			IsCurrentTurn: e.AwaitingPlayer() == int8(i),
		}
	}

	if int(seat) < len(e.Players) {
		you := e.Players[seat]
		state.You = PrivateView{Resources: you.Resources, Cards: you.Cards}
	}
	return state
}
