// Package engine implements the rules of a hex-grid trading-and-building
// board game. It owns board topology, ownership, resources, and turn
// sequencing, and decides whether any proposed player action is legal.
//
// The engine is synchronous and single-mutator: exactly one action is
// validated and applied to completion before the next is accepted.
// Outbound events accumulate in a broadcast queue and per-player private
// queues, drained by the caller after each rule transition.
package engine

// Phase is the coarse state of the turn machine. Dice roll and resource
// distribution are internal transitions performed when a turn begins;
// the phases here are the ones that wait on a player action.
type Phase uint8

const (
	PhaseSetup        Phase = iota // initial placements, forward then backward
	PhaseRobber                    // a 7 was rolled, awaiting SelectRobber
	PhaseMain                      // main per-turn action loop
	PhaseTradeRespond              // negotiation: awaiting Accept/Reject from responders
	PhaseTradeConfirm              // negotiation: awaiting ConfirmTrade from the proposer
	PhaseDone                      // terminal
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseRobber:
		return "robber"
	case PhaseMain:
		return "main"
	case PhaseTradeRespond:
		return "trade_respond"
	case PhaseTradeConfirm:
		return "trade_confirm"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Game is one match: the board, the players, the development deck, the
// turn machine, and the outbound event queues. Exactly one player action
// is processed to completion at a time.
type Game struct {
	Rules   GameRules
	Board   *Board
	Players []*Player

	rng  rng
	deck []DevCard

	phase       Phase
	current     int8
	initialized bool // both setup passes complete

	// Setup progress: placement counter over both passes, and the
	// settlement just placed when its road is still owed.
	setupStep       int
	setupSettlement *Coordinate

	// Per-turn counters.
	devUsedThisTurn uint8
	tradesThisTurn  uint8

	// Active player-to-player negotiation.
	activeTrade       *TradeRequest
	tradeResponses    map[int8]bool
	pendingResponders []int8

	longestRoadHolder int8
	largestArmyHolder int8
	winner            int8

	broadcast []Event
	private   [][]Event
}

// NewGame generates a board from the seed and seats the named players.
// The game starts in the setup phase with player 0 placing first;
// GameStart and PlayerInit events are queued immediately.
func NewGame(seed uint64, rules GameRules, names []string) *Game {
	r := newRNG(seed)
	setup := generateSetup(&r)

	g := &Game{
		Rules:             rules,
		Board:             NewBoard(setup.Tiles, setup.Harbors, setup.Robber),
		rng:               r,
		deck:              setup.Deck,
		phase:             PhaseSetup,
		longestRoadHolder: -1,
		largestArmyHolder: -1,
		winner:            -1,
		tradeResponses:    make(map[int8]bool),
		private:           make([][]Event, rules.NumPlayers),
	}
	for i := uint8(0); i < rules.NumPlayers; i++ {
		g.Players = append(g.Players, NewPlayer(int8(i), rules))
	}

	for i := range g.Players {
		info := &GameStartInfo{
			Tiles:     setup.Tiles,
			Harbors:   setup.Harbors,
			Robber:    setup.Robber,
			DiceIndex: g.Board.diceIndex,
			Players:   names,
			YourIndex: int8(i),
		}
		g.emitTo(int8(i), Event{Type: EventGameStart, Player: -1, Start: info})
	}
	for i := range g.Players {
		g.emit(Event{Type: EventPlayerInit, Player: int8(i)})
	}
	return g
}

// Phase returns the current machine phase.
func (g *Game) Phase() Phase { return g.phase }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.phase == PhaseDone }

// Winner returns the winning player index, or -1 while the game runs.
func (g *Game) Winner() int8 { return g.winner }

// Initialized reports whether both setup passes have completed. Builds
// after initialization enforce full resource cost and road adjacency.
func (g *Game) Initialized() bool { return g.initialized }

// DeckSize returns the number of development cards left to buy.
func (g *Game) DeckSize() int { return len(g.deck) }

// AwaitingPlayer returns the index of the player whose action the engine
// is waiting for, or -1 when the game is over.
func (g *Game) AwaitingPlayer() int8 {
	switch g.phase {
	case PhaseSetup:
		return g.setupPlayer()
	case PhaseTradeRespond:
		return g.pendingResponders[0]
	case PhaseDone:
		return -1
	default:
		return g.current
	}
}

// setupPlayer maps the placement counter onto the forward/backward order.
func (g *Game) setupPlayer() int8 {
	n := int(g.Rules.NumPlayers)
	if g.setupStep < n {
		return int8(g.setupStep)
	}
	return int8(2*n - 1 - g.setupStep)
}

// ---------------------------------------------------------------------------
// Event queues
// ---------------------------------------------------------------------------

// emit queues a broadcast event.
func (g *Game) emit(ev Event) { g.broadcast = append(g.broadcast, ev) }

// emitTo queues a private event for one player.
func (g *Game) emitTo(player int8, ev Event) {
	g.private[player] = append(g.private[player], ev)
}

// DrainEvents returns and clears the broadcast queue and every private
// queue. The caller flushes these to the player collaborators after each
// rule transition, so observers see changes in application order.
func (g *Game) DrainEvents() (broadcast []Event, private [][]Event) {
	broadcast = g.broadcast
	g.broadcast = nil
	private = make([][]Event, len(g.private))
	copy(private, g.private)
	for i := range g.private {
		g.private[i] = nil
	}
	return broadcast, private
}

// ---------------------------------------------------------------------------
// Turn lifecycle
// ---------------------------------------------------------------------------

// beginTurn announces the turn, rolls the dice, and either distributes
// resources or hands the robber to the active player on a 7.
func (g *Game) beginTurn() {
	g.devUsedThisTurn = 0
	g.tradesThisTurn = 0
	g.emit(Event{Type: EventPlayerTurn, Player: g.current})

	d1, d2 := g.rng.d6(), g.rng.d6()
	g.emit(Event{Type: EventPlayerRollDice, Player: g.current, Dice: &DicePair{First: d1, Second: d2}})

	if d1+d2 == 7 {
		g.phase = PhaseRobber
		return
	}
	g.distribute(d1 + d2)
	g.phase = PhaseMain
}

// distribute hands out resources for a rolled sum: one per adjacent
// settlement, two per adjacent city, skipping the robber's tile, with
// each grant clamped to the per-kind cap.
func (g *Game) distribute(sum uint8) {
	for _, tc := range g.Board.TilesForRoll(sum) {
		if tc == g.Board.Robber() {
			continue
		}
		res, ok := g.Board.Tile(tc).Kind.Resource()
		if !ok {
			continue
		}
		for _, corner := range TileCorners(tc) {
			pt := g.Board.Point(corner)
			if !pt.Owned() {
				continue
			}
			amount := uint8(1)
			if pt.City {
				amount = 2
			}
			g.grant(pt.Owner, res, amount)
		}
	}
}

// grant credits a player through the per-kind distribution clamp and
// queues the matching resource event.
func (g *Game) grant(player int8, r Resource, count uint8) {
	granted := g.Players[player].Gain(r, count, g.Rules.MaxResource)
	if granted == 0 {
		return
	}
	g.emit(Event{Type: EventOfferResources, Player: player, Offer: &ResourceDelta{Kind: r, Count: int8(granted)}})
}

// credit adds resources without the distribution clamp and queues the
// matching event. The clamp applies to dice distribution only; trades,
// steals, and card effects deliver in full.
func (g *Game) credit(player int8, r Resource, count uint8) {
	if count == 0 {
		return
	}
	g.Players[player].Resources[r] += count
	g.emit(Event{Type: EventOfferResources, Player: player, Offer: &ResourceDelta{Kind: r, Count: int8(count)}})
}

// take debits a player and queues the matching resource events.
func (g *Game) take(player int8, cost ResourceSet) {
	g.Players[player].Pay(cost)
	for r := Resource(0); r < NumResources; r++ {
		if cost[r] > 0 {
			g.emit(Event{Type: EventOfferResources, Player: player, Offer: &ResourceDelta{Kind: r, Count: -int8(cost[r])}})
		}
	}
}

// endTurn re-evaluates longest road for the player who just acted,
// checks the win condition, and advances to the next player.
func (g *Game) endTurn() {
	g.reevaluateLongestRoad(g.Players[g.current])
	g.emit(Event{Type: EventPlayerEndTurn, Player: g.current})
	if g.checkWin() {
		return
	}
	g.current = (g.current + 1) % int8(g.Rules.NumPlayers)
	g.beginTurn()
}

// checkWin ends the game when a score strictly exceeds the win score.
func (g *Game) checkWin() bool {
	for _, p := range g.Players {
		if p.Score > g.Rules.WinScore {
			g.winner = p.Index
			g.phase = PhaseDone
			w := p.Index
			g.emit(Event{Type: EventGameOver, Player: -1, Winner: &w})
			return true
		}
	}
	return false
}

// HandleAction validates and applies one action from a player. A non-nil
// error is a rejection: no state changed and no event was queued. Actions
// out of phase or out of turn reject with ErrProtocol; the match stays
// alive.
func (g *Game) HandleAction(player int8, action Action) error {
	if g.phase == PhaseDone {
		return errProtocol("game is over")
	}
	if player < 0 || int(player) >= len(g.Players) {
		return errProtocol("unknown player")
	}
	if player != g.AwaitingPlayer() {
		return errProtocol("not your turn")
	}

	switch g.phase {
	case PhaseSetup:
		return g.handleSetupAction(player, action)
	case PhaseRobber:
		sel, ok := action.(SelectRobber)
		if !ok {
			return errProtocol("expected a robber selection")
		}
		if err := g.moveRobber(player, sel.Tile, sel.Target); err != nil {
			return err
		}
		g.phase = PhaseMain
		return nil
	case PhaseTradeRespond:
		resp, ok := action.(RespondTrade)
		if !ok {
			return errProtocol("expected a trade response")
		}
		return g.handleTradeResponse(player, resp)
	case PhaseTradeConfirm:
		conf, ok := action.(ConfirmTrade)
		if !ok {
			return errProtocol("expected a trade confirmation")
		}
		return g.handleTradeConfirm(player, conf)
	case PhaseMain:
		return g.handleMainAction(player, action)
	}
	return errProtocol("unhandled phase")
}
