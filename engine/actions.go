package engine

// Per-action validation and mutation. Every handler rejects first (error
// return, no state change) or applies the full resource/ownership/score
// delta and queues the outbound events.

// handleSetupAction processes the free initial placements: each player
// places one settlement followed by one adjacent road, in player order
// and then again in reverse. Setup builds skip resource cost and
// road-adjacency checks; the second settlement additionally grants one
// resource per adjacent producing tile.
func (g *Game) handleSetupAction(player int8, action Action) error {
	switch a := action.(type) {
	case BuildSettlement:
		if g.setupSettlement != nil {
			return errProtocol("place the settlement's road first")
		}
		if err := g.checkSettlementSite(player, a.Point, false); err != nil {
			return err
		}
		g.placeSettlement(player, a.Point)
		if g.setupStep >= int(g.Rules.NumPlayers) {
			// Backward pass: grant one resource per adjacent producing tile.
			for _, tc := range AdjacentTiles(a.Point) {
				if res, ok := g.Board.Tile(tc).Kind.Resource(); ok {
					g.grant(player, res, 1)
				}
			}
		}
		c := a.Point
		g.setupSettlement = &c
		return nil

	case BuildRoad:
		if g.setupSettlement == nil {
			return errProtocol("place a settlement first")
		}
		if !a.Edge.Touches(*g.setupSettlement) {
			return errNotConnected("setup road must touch the settlement just placed")
		}
		if !g.Board.CheckValidBuildableRoad(a.Edge) {
			return errInvalidPosition("edge cannot carry a road")
		}
		g.placeRoad(player, a.Edge)
		g.setupSettlement = nil
		g.setupStep++
		if g.setupStep == 2*int(g.Rules.NumPlayers) {
			g.initialized = true
			g.current = 0
			g.beginTurn()
		}
		return nil

	default:
		return errProtocol("only settlement and road placements during setup")
	}
}

// handleMainAction routes the per-turn action loop.
func (g *Game) handleMainAction(player int8, action Action) error {
	switch a := action.(type) {
	case BuildRoad:
		return g.buildRoad(player, a.Edge)
	case BuildSettlement:
		return g.buildSettlement(player, a.Point)
	case BuildCity:
		return g.buildCity(player, a.Point)
	case BuyDevelopmentCard:
		return g.buyDevelopmentCard(player)
	case UseDevelopmentCard:
		return g.useDevelopmentCard(player, a)
	case ProposeTrade:
		return g.proposeTrade(player, a.Trade)
	case EndTurn:
		g.endTurn()
		return nil
	default:
		return errProtocol("action not valid during the main phase")
	}
}

// ---------------------------------------------------------------------------
// Builds
// ---------------------------------------------------------------------------

// checkRoadSite validates edge placement shared by paid and free roads.
func (g *Game) checkRoadSite(player int8, edge Line) error {
	p := g.Players[player]
	if uint8(len(p.Roads)) >= g.Rules.MaxRoads {
		return errLimitReached("no roads left to build")
	}
	if g.Board.RoadOwner(edge) >= 0 {
		return errInvalidPosition("duplicate build: edge already has a road")
	}
	if !g.Board.CheckValidBuildableRoad(edge) {
		return errInvalidPosition("edge cannot carry a road")
	}
	if !p.OwnsRoadTouching(edge.Start) && !p.OwnsRoadTouching(edge.End) {
		return errNotConnected("road must extend your own road network")
	}
	return nil
}

// buildRoad is the paid road build in the main phase. The road stock
// check happens in checkRoadSite, so a failing CanBuildRoad here means
// resources.
func (g *Game) buildRoad(player int8, edge Line) error {
	if err := g.checkRoadSite(player, edge); err != nil {
		return err
	}
	if !g.Players[player].CanBuildRoad(g.Rules) {
		return errNoResource("a road costs 1 brick and 1 wood")
	}
	g.take(player, CostRoad)
	g.placeRoad(player, edge)
	return nil
}

// freeRoad builds a road without cost, for the RoadBuilding card. The
// placement rules still apply.
func (g *Game) freeRoad(player int8, edge Line) error {
	if err := g.checkRoadSite(player, edge); err != nil {
		return err
	}
	g.placeRoad(player, edge)
	return nil
}

// unplaceRoad unwinds the most recent free road when the second grant of
// a RoadBuilding card fails validation.
func (g *Game) unplaceRoad(player int8, edge Line) {
	g.Board.RemoveRoad(player, edge)
	p := g.Players[player]
	for i, r := range p.Roads {
		if r == edge {
			p.Roads = append(p.Roads[:i], p.Roads[i+1:]...)
			break
		}
	}
	if len(g.broadcast) > 0 {
		g.broadcast = g.broadcast[:len(g.broadcast)-1]
	}
}

// placeRoad applies a validated road and queues the event.
func (g *Game) placeRoad(player int8, edge Line) {
	g.Board.AddRoad(player, edge)
	g.Players[player].Roads = append(g.Players[player].Roads, edge)
	e := edge
	g.emit(Event{Type: EventBuildRoad, Player: player, Edge: &e})
}

// checkSettlementSite validates a settlement vertex. Connectivity to the
// player's road network applies only after setup.
func (g *Game) checkSettlementSite(player int8, c Coordinate, requireRoad bool) error {
	p := g.Players[player]
	if p.SettlementsLeft == 0 {
		return errLimitReached("no settlements left to build")
	}
	if !g.Board.PointValidSettlement(c) {
		return errInvalidPosition("vertex is not on the playable board")
	}
	if g.Board.Point(c).Owned() {
		return errInvalidPosition("duplicate build: vertex already owned")
	}
	for _, n := range AdjacentPoints(c) {
		if g.Board.Point(n).Owned() {
			return errInvalidPosition("adjacent vertex already owned")
		}
	}
	if requireRoad && !p.OwnsRoadTouching(c) {
		return errNotConnected("settlement must connect to your own road")
	}
	return nil
}

// buildSettlement is the paid settlement build in the main phase. The
// stock check happens in checkSettlementSite.
func (g *Game) buildSettlement(player int8, c Coordinate) error {
	if err := g.checkSettlementSite(player, c, true); err != nil {
		return err
	}
	if !g.Players[player].CanBuildSettlement() {
		return errNoResource("a settlement costs 1 brick, 1 wood, 1 grain, 1 wool")
	}
	g.take(player, CostSettlement)
	g.placeSettlement(player, c)
	g.checkWin()
	return nil
}

// placeSettlement applies a validated settlement and queues the event.
func (g *Game) placeSettlement(player int8, c Coordinate) {
	g.Board.AddSettlement(player, c)
	p := g.Players[player]
	p.SettlementsLeft--
	p.Score++
	pt := c
	g.emit(Event{Type: EventBuildSettlement, Player: player, Point: &pt})
}

// buildCity upgrades the player's own settlement. The settlement slot is
// freed for reuse.
func (g *Game) buildCity(player int8, c Coordinate) error {
	p := g.Players[player]
	if p.CitiesLeft == 0 {
		return errLimitReached("no cities left to build")
	}
	pt := g.Board.Point(c)
	if pt.Owner != player {
		return errInvalidPosition("city must upgrade your own settlement")
	}
	if pt.City {
		return errInvalidPosition("duplicate build: vertex is already a city")
	}
	if !p.CanBuildCity() {
		return errNoResource("a city costs 3 stone and 2 grain")
	}

	g.take(player, CostCity)
	g.Board.AddCity(player, c)
	p.CitiesLeft--
	p.SettlementsLeft++
	p.Score++
	loc := c
	g.emit(Event{Type: EventBuildCity, Player: player, Point: &loc})
	g.checkWin()
	return nil
}

// ---------------------------------------------------------------------------
// Development cards
// ---------------------------------------------------------------------------

// buyDevelopmentCard draws the top card of the shared deck. An empty
// deck is an explicit rejection before any resources move.
func (g *Game) buyDevelopmentCard(player int8) error {
	p := g.Players[player]
	if len(g.deck) == 0 {
		return errLimitReached("development card deck is empty")
	}
	if !p.CanBuyDevelopmentCard() {
		return errNoResource("a development card costs 1 grain, 1 wool, 1 stone")
	}

	g.take(player, CostDevCard)
	card := g.deck[len(g.deck)-1]
	g.deck = g.deck[:len(g.deck)-1]
	p.Cards[card]++

	// The drawn card is revealed only to the buyer.
	g.emit(Event{Type: EventBuyDevCard, Player: player})
	drawn := card
	g.emitTo(player, Event{Type: EventBuyDevCard, Player: player, Card: &drawn})
	return nil
}

// ---------------------------------------------------------------------------
// Robber
// ---------------------------------------------------------------------------

// moveRobber validates and applies a robber move with an optional steal.
// Shared by the rolled-7 path and the Knight card.
func (g *Game) moveRobber(player int8, tile Coordinate, target *int8) error {
	if tile == g.Board.Robber() {
		return errInvalidRobber("robber must move to a different tile")
	}
	kind := g.Board.Tile(tile).Kind
	if !kind.Producing() && kind != TileDesert && kind != TileGold {
		return errInvalidRobber("robber must sit on a resource or desert tile")
	}
	var victim *Player
	if target != nil {
		if *target == player || int(*target) >= len(g.Players) || *target < 0 {
			return errInvalidSteal("cannot steal from that player")
		}
		v := g.Players[*target]
		if !g.playerAdjacentToTile(*target, tile) {
			return errInvalidSteal("target has no building adjacent to the robber")
		}
		victim = v
	}

	g.Board.SetRobber(tile)
	move := &RobberMove{Tile: tile, Target: target}
	g.emit(Event{Type: EventSelectRobber, Player: player, Robber: move})

	if victim != nil {
		g.steal(player, victim)
	}
	return nil
}

// playerAdjacentToTile reports whether the player owns a settlement or
// city on one of the tile's corners.
func (g *Game) playerAdjacentToTile(player int8, tile Coordinate) bool {
	for _, corner := range TileCorners(tile) {
		if g.Board.Point(corner).Owner == player {
			return true
		}
	}
	return false
}

// steal moves one random resource-bearing kind from victim to thief. A
// victim with nothing to steal yields nothing.
func (g *Game) steal(thief int8, victim *Player) {
	var held []Resource
	for r := Resource(0); r < NumResources; r++ {
		if victim.Resources[r] > 0 {
			held = append(held, r)
		}
	}
	if len(held) == 0 {
		return
	}
	r := held[g.rng.intn(len(held))]
	victim.Resources[r]--
	g.emit(Event{Type: EventOfferResources, Player: victim.Index, Offer: &ResourceDelta{Kind: r, Count: -1}})
	g.credit(thief, r, 1)
}

// ---------------------------------------------------------------------------
// Trading
// ---------------------------------------------------------------------------

// proposeTrade opens a trade request. Bank and harbor targets resolve
// synchronously through the board's local-trade check; a player target
// starts the negotiation sub-machine.
func (g *Game) proposeTrade(player int8, trade *TradeRequest) error {
	if trade == nil {
		return errInvalidTrade("empty trade request")
	}
	if g.tradesThisTurn >= g.Rules.TradesPerTurn {
		return errLimitReached("trade requests exhausted for this turn")
	}
	p := g.Players[player]

	if trade.Target == TradePlayer {
		if !p.CanTrade(trade) {
			return errNoResource("not enough resources for the offered side")
		}
		if trade.fromSet().Total() == 0 && trade.toSet().Total() == 0 {
			return errInvalidTrade("nothing offered")
		}
		g.tradesThisTurn++
		g.activeTrade = trade
		g.tradeResponses = make(map[int8]bool)
		g.pendingResponders = g.pendingResponders[:0]
		for i := range g.Players {
			if int8(i) != player {
				g.pendingResponders = append(g.pendingResponders, int8(i))
			}
		}
		g.phase = PhaseTradeRespond
		g.emit(Event{Type: EventTradeRequest, Player: player, Trade: trade})
		return nil
	}

	if err := g.Board.CheckValidLocalTrade(trade, p); err != nil {
		return err
	}
	g.tradesThisTurn++
	g.emit(Event{Type: EventTradeRequest, Player: player, Trade: trade})
	g.take(player, trade.fromSet())
	for r := Resource(0); r < NumResources; r++ {
		if n := trade.toSet()[r]; n > 0 {
			g.credit(player, r, n)
		}
	}
	return nil
}

// handleTradeResponse records one responder's Accept/Reject and moves to
// the confirmation state once every other player has answered.
func (g *Game) handleTradeResponse(player int8, resp RespondTrade) error {
	g.tradeResponses[player] = resp.Accept
	g.pendingResponders = g.pendingResponders[1:]
	accept := resp.Accept
	g.emit(Event{Type: EventTradeResponse, Player: player, Accept: &accept})
	if len(g.pendingResponders) == 0 {
		g.phase = PhaseTradeConfirm
	}
	return nil
}

// handleTradeConfirm settles the negotiation: transfer both sides of the
// request with the chosen accepting responder, or broadcast a no-op
// trade when the proposer confirms with nobody.
func (g *Game) handleTradeConfirm(player int8, conf ConfirmTrade) error {
	trade := g.activeTrade

	if conf.With == nil {
		g.closeTrade()
		g.emit(Event{Type: EventTrade, Player: player})
		return nil
	}

	other := *conf.With
	if other == player || other < 0 || int(other) >= len(g.Players) {
		return errInvalidTrade("cannot confirm a trade with that player")
	}
	if !g.tradeResponses[other] {
		return errInvalidTrade("that player did not accept the trade")
	}
	proposer := g.Players[player]
	responder := g.Players[other]
	if !proposer.Resources.Contains(trade.fromSet()) {
		return errNoResource("not enough resources for the offered side")
	}
	if !responder.Resources.Contains(trade.toSet()) {
		return errNoResource("responder cannot cover the requested side")
	}

	g.closeTrade()
	with := other
	g.emit(Event{Type: EventTrade, Player: player, With: &with, Trade: trade})
	// Both directions of the request, between the two named players.
	g.take(player, trade.fromSet())
	g.take(other, trade.toSet())
	for r := Resource(0); r < NumResources; r++ {
		if n := trade.fromSet()[r]; n > 0 {
			g.credit(other, r, n)
		}
		if n := trade.toSet()[r]; n > 0 {
			g.credit(player, r, n)
		}
	}
	return nil
}

// closeTrade clears the negotiation state and returns to the main loop.
func (g *Game) closeTrade() {
	g.activeTrade = nil
	g.pendingResponders = nil
	g.phase = PhaseMain
}
