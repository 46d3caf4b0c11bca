package engine

import (
	"errors"
	"testing"
)

// setupPlacements is a fixed, legal placement script for four players:
// settlement plus adjacent road, forward order then reverse.
var setupPlacements = []struct {
	point Coordinate
	road  Line
}{
	{Coordinate{1, 1}, NewLine(Coordinate{1, 1}, Coordinate{1, 2})},
	{Coordinate{1, 4}, NewLine(Coordinate{1, 4}, Coordinate{1, 5})},
	{Coordinate{1, 7}, NewLine(Coordinate{1, 7}, Coordinate{1, 8})},
	{Coordinate{3, 1}, NewLine(Coordinate{3, 1}, Coordinate{3, 2})},
	{Coordinate{3, 4}, NewLine(Coordinate{3, 4}, Coordinate{3, 5})},
	{Coordinate{3, 7}, NewLine(Coordinate{3, 7}, Coordinate{3, 8})},
	{Coordinate{5, 3}, NewLine(Coordinate{5, 3}, Coordinate{5, 4})},
	{Coordinate{5, 6}, NewLine(Coordinate{5, 6}, Coordinate{5, 5})},
}

// newTestGame constructs a four-player game from a fixed seed.
func newTestGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	return NewGame(seed, DefaultGameRules(), []string{"ann", "ben", "cat", "dan"})
}

// completeSetup runs both setup passes with the fixed placement script.
func completeSetup(t *testing.T, g *Game) {
	t.Helper()
	for _, pl := range setupPlacements {
		actor := g.AwaitingPlayer()
		if err := g.HandleAction(actor, BuildSettlement{Point: pl.point}); err != nil {
			t.Fatalf("setup settlement %v by %d: %v", pl.point, actor, err)
		}
		if err := g.HandleAction(actor, BuildRoad{Edge: pl.road}); err != nil {
			t.Fatalf("setup road %v by %d: %v", pl.road, actor, err)
		}
	}
	if !g.Initialized() {
		t.Fatal("setup script finished but game not initialized")
	}
	resolveRobber(t, g)
}

// resolveRobber clears a robber phase (a rolled 7) by moving the robber
// to some producing tile without stealing.
func resolveRobber(t *testing.T, g *Game) {
	t.Helper()
	for g.Phase() == PhaseRobber {
		actor := g.AwaitingPlayer()
		tile := findRobberTile(g)
		if err := g.HandleAction(actor, SelectRobber{Tile: tile}); err != nil {
			t.Fatalf("robber move to %v: %v", tile, err)
		}
	}
}

// findRobberTile returns a producing tile the robber is not on.
func findRobberTile(g *Game) Coordinate {
	for x := uint8(0); x < GridRows; x++ {
		for y := uint8(0); y < GridCols; y++ {
			c := Coordinate{X: x, Y: y}
			if c != g.Board.Robber() && g.Board.Tile(c).Kind.Producing() {
				return c
			}
		}
	}
	return Coordinate{}
}

// endTurnUntil passes the turn until the given player is active, clearing
// robber phases along the way.
func endTurnUntil(t *testing.T, g *Game, player int8) {
	t.Helper()
	for g.AwaitingPlayer() != player {
		if err := g.HandleAction(g.AwaitingPlayer(), EndTurn{}); err != nil {
			t.Fatalf("end turn: %v", err)
		}
		resolveRobber(t, g)
	}
}

// TestSetupOrder verifies the forward-then-backward placement order.
func TestSetupOrder(t *testing.T) {
	g := newTestGame(t, 11)
	wantOrder := []int8{0, 1, 2, 3, 3, 2, 1, 0}
	for i, pl := range setupPlacements {
		if got := g.AwaitingPlayer(); got != wantOrder[i] {
			t.Fatalf("placement %d: awaiting player %d, want %d", i, got, wantOrder[i])
		}
		if err := g.HandleAction(g.AwaitingPlayer(), BuildSettlement{Point: pl.point}); err != nil {
			t.Fatal(err)
		}
		if err := g.HandleAction(g.AwaitingPlayer(), BuildRoad{Edge: pl.road}); err != nil {
			t.Fatal(err)
		}
	}
	if !g.Initialized() {
		t.Error("not initialized after both passes")
	}
	for _, p := range g.Players {
		if p.Score != 2 {
			t.Errorf("player %d score = %d after setup, want 2", p.Index, p.Score)
		}
		if p.SettlementsLeft != 3 {
			t.Errorf("player %d settlements left = %d, want 3", p.Index, p.SettlementsLeft)
		}
	}
}

// TestSetupSkipsCostAndConnectivity verifies setup builds are free.
func TestSetupSkipsCostAndConnectivity(t *testing.T) {
	g := newTestGame(t, 11)
	if err := g.HandleAction(0, BuildSettlement{Point: Coordinate{1, 1}}); err != nil {
		t.Fatalf("free setup settlement rejected: %v", err)
	}
	// The road may not dangle: it must touch the settlement just placed.
	err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{3, 3}, Coordinate{3, 4})})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("dangling setup road: err = %v, want ErrNotConnected", err)
	}
	if err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{1, 1}, Coordinate{1, 2})}); err != nil {
		t.Fatalf("adjacent setup road rejected: %v", err)
	}
}

// TestSetupOutOfTurn verifies protocol rejection without state damage.
func TestSetupOutOfTurn(t *testing.T) {
	g := newTestGame(t, 11)
	err := g.HandleAction(2, BuildSettlement{Point: Coordinate{1, 1}})
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("out-of-turn action: err = %v, want ErrProtocol", err)
	}
	if g.Board.Point(Coordinate{1, 1}).Owned() {
		t.Error("rejected action mutated the board")
	}
}

// TestScenarioDuplicateAndAdjacentSettles covers duplicate and
// distance-rule rejections during placement: player 0 settles (1,1);
// player 1 may neither resettle it nor settle next to it, but (1,3)
// is fine.
func TestScenarioDuplicateAndAdjacentSettles(t *testing.T) {
	g := newTestGame(t, 11)
	if err := g.HandleAction(0, BuildSettlement{Point: Coordinate{1, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{1, 1}, Coordinate{1, 2})}); err != nil {
		t.Fatal(err)
	}

	err := g.HandleAction(1, BuildSettlement{Point: Coordinate{1, 1}})
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("duplicate settle: err = %v, want ErrInvalidPosition", err)
	}
	err = g.HandleAction(1, BuildSettlement{Point: Coordinate{1, 2}})
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("adjacent settle: err = %v, want ErrInvalidPosition", err)
	}
	if err := g.HandleAction(1, BuildSettlement{Point: Coordinate{1, 3}}); err != nil {
		t.Errorf("non-adjacent settle rejected: %v", err)
	}
}

// TestScenarioRoadCostAfterSetup verifies a main-phase road requires
// brick and wood, and succeeds once they are credited.
func TestScenarioRoadCostAfterSetup(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	p := g.Players[0]
	p.Resources = ResourceSet{}
	edge := NewLine(Coordinate{1, 2}, Coordinate{1, 3})

	err := g.HandleAction(0, BuildRoad{Edge: edge})
	if !errors.Is(err, ErrNoResource) {
		t.Fatalf("penniless road: err = %v, want ErrNoResource", err)
	}
	if g.Board.RoadOwner(edge) != -1 {
		t.Fatal("rejected road mutated the board")
	}

	p.Resources = ResourceSet{Brick: 1, Wood: 1}
	if err := g.HandleAction(0, BuildRoad{Edge: edge}); err != nil {
		t.Fatalf("funded road rejected: %v", err)
	}
	if g.Board.RoadOwner(edge) != 0 {
		t.Error("road not recorded")
	}
	if p.Resources.Total() != 0 {
		t.Errorf("road cost not deducted, resources = %v", p.Resources)
	}
}

// TestRoadConnectivityEnforced verifies a post-setup road must extend
// the player's own network.
func TestRoadConnectivityEnforced(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	p := g.Players[0]
	p.Resources = ResourceSet{Brick: 1, Wood: 1}
	// (3,3)-(3,4) touches player 3's network, not player 0's.
	err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{3, 3}, Coordinate{3, 4})})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected road: err = %v, want ErrNotConnected", err)
	}
}

// TestScenarioCityUpgrades verifies the city cost, score deltas, and the
// freed settlement slot over three settlement+city pairs.
func TestScenarioCityUpgrades(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	p := g.Players[0]
	if p.Score != 2 {
		t.Fatalf("score after setup = %d, want 2", p.Score)
	}

	// Upgrade the first setup settlement.
	p.Resources = ResourceSet{Stone: 3, Grain: 2}
	slotsBefore := p.SettlementsLeft
	if err := g.HandleAction(0, BuildCity{Point: Coordinate{1, 1}}); err != nil {
		t.Fatalf("city on own settlement rejected: %v", err)
	}
	if p.Score != 3 {
		t.Errorf("score = %d after first city, want 3", p.Score)
	}
	if p.SettlementsLeft != slotsBefore+1 {
		t.Errorf("settlement slot not freed: %d -> %d", slotsBefore, p.SettlementsLeft)
	}
	if p.CitiesLeft != 3 {
		t.Errorf("cities left = %d, want 3", p.CitiesLeft)
	}

	// Repeating on the second settlement and a duplicate upgrade.
	p.Resources = ResourceSet{Stone: 3, Grain: 2}
	if err := g.HandleAction(0, BuildCity{Point: Coordinate{5, 6}}); err != nil {
		t.Fatalf("second city rejected: %v", err)
	}
	if p.Score != 4 {
		t.Errorf("score = %d after second city, want 4", p.Score)
	}
	p.Resources = ResourceSet{Stone: 3, Grain: 2}
	err := g.HandleAction(0, BuildCity{Point: Coordinate{1, 1}})
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("double upgrade: err = %v, want ErrInvalidPosition", err)
	}

	// A city on another player's settlement is rejected.
	err = g.HandleAction(0, BuildCity{Point: Coordinate{1, 4}})
	if !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("city on foreign settlement: err = %v, want ErrInvalidPosition", err)
	}
}

// TestSettlementNeedsRoadAfterSetup verifies main-phase settlements
// require connectivity to the builder's roads.
func TestSettlementNeedsRoadAfterSetup(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	p := g.Players[0]
	p.Resources = ResourceSet{Brick: 1, Wood: 1, Grain: 1, Wool: 1}
	// (4,9) is free and non-adjacent to any settlement, but player 0 has
	// no road touching it.
	err := g.HandleAction(0, BuildSettlement{Point: Coordinate{4, 9}})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("unconnected settlement: err = %v, want ErrNotConnected", err)
	}

	// Extend the network two edges from (1,2) and settle the far end.
	p.Resources = ResourceSet{Brick: 3, Wood: 3, Grain: 1, Wool: 1}
	if err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{1, 2}, Coordinate{1, 3})}); err != nil {
		t.Fatal(err)
	}
	if err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{1, 3}, Coordinate{2, 3})}); err != nil {
		t.Fatal(err)
	}
	if err := g.HandleAction(0, BuildSettlement{Point: Coordinate{2, 3}}); err != nil {
		t.Errorf("connected settlement rejected: %v", err)
	}
}

// TestScenarioBuyDevCard verifies deck interaction and the private
// reveal: the card kind goes only to the buyer.
func TestScenarioBuyDevCard(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)
	g.DrainEvents()

	p := g.Players[0]
	p.Resources = ResourceSet{}
	err := g.HandleAction(0, BuyDevelopmentCard{})
	if !errors.Is(err, ErrNoResource) {
		t.Fatalf("penniless buy: err = %v, want ErrNoResource", err)
	}

	deckBefore := g.DeckSize()
	p.Resources = ResourceSet{Grain: 1, Wool: 1, Stone: 1}
	if err := g.HandleAction(0, BuyDevelopmentCard{}); err != nil {
		t.Fatalf("funded buy rejected: %v", err)
	}
	if g.DeckSize() != deckBefore-1 {
		t.Errorf("deck size = %d, want %d", g.DeckSize(), deckBefore-1)
	}

	broadcast, private := g.DrainEvents()
	var publicBuy *Event
	for i := range broadcast {
		if broadcast[i].Type == EventBuyDevCard {
			publicBuy = &broadcast[i]
		}
	}
	if publicBuy == nil {
		t.Fatal("no public buy event")
	}
	if publicBuy.Card != nil {
		t.Error("public buy event reveals the card")
	}
	var privateBuy *Event
	for i := range private[0] {
		if private[0][i].Type == EventBuyDevCard {
			privateBuy = &private[0][i]
		}
	}
	if privateBuy == nil || privateBuy.Card == nil {
		t.Fatal("buyer did not receive the drawn card")
	}
	for idx, q := range private[1:] {
		for _, ev := range q {
			if ev.Type == EventBuyDevCard {
				t.Errorf("player %d privately saw the buy", idx+1)
			}
		}
	}
}

// TestBuyDevCardEmptyDeck verifies the empty deck rejects before any
// resources move.
func TestBuyDevCardEmptyDeck(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	g.deck = nil
	p := g.Players[0]
	p.Resources = ResourceSet{Grain: 1, Wool: 1, Stone: 1}
	err := g.HandleAction(0, BuyDevelopmentCard{})
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("empty deck: err = %v, want ErrLimitReached", err)
	}
	if p.Resources.Total() != 3 {
		t.Error("empty-deck rejection consumed resources")
	}
}

// TestRobberRules verifies the robber must move and must land on a
// resource or desert tile.
func TestRobberRules(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	err := g.moveRobber(0, g.Board.Robber(), nil)
	if !errors.Is(err, ErrInvalidRobber) {
		t.Errorf("robber staying put: err = %v, want ErrInvalidRobber", err)
	}

	// (0,0) is outside the diamond mask: an empty tile.
	err = g.moveRobber(0, Coordinate{0, 0}, nil)
	if !errors.Is(err, ErrInvalidRobber) {
		t.Errorf("robber on empty tile: err = %v, want ErrInvalidRobber", err)
	}

	target := findRobberTile(g)
	if err := g.moveRobber(0, target, nil); err != nil {
		t.Fatalf("legal robber move rejected: %v", err)
	}
	if g.Board.Robber() != target {
		t.Error("robber did not move")
	}
}

// TestRobberSteal verifies stealing requires an adjacent building and
// transfers exactly one resource.
func TestRobberSteal(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	// Player 1's settlement (1,4) touches tiles (1,1), (0,2) and (0,1).
	tile := Coordinate{1, 1}
	if g.Board.Robber() == tile {
		tile = Coordinate{0, 2}
	}
	victim := int8(1)
	g.Players[1].Resources = ResourceSet{Wool: 2}
	g.Players[0].Resources = ResourceSet{}

	// Player 3 has no building next to that tile.
	wrong := int8(3)
	err := g.moveRobber(0, tile, &wrong)
	if !errors.Is(err, ErrInvalidSteal) {
		t.Fatalf("steal from non-adjacent player: err = %v, want ErrInvalidSteal", err)
	}

	if err := g.moveRobber(0, tile, &victim); err != nil {
		t.Fatalf("legal steal rejected: %v", err)
	}
	if g.Players[1].Resources[Wool] != 1 {
		t.Errorf("victim wool = %d, want 1", g.Players[1].Resources[Wool])
	}
	if g.Players[0].Resources[Wool] != 1 {
		t.Errorf("thief wool = %d, want 1", g.Players[0].Resources[Wool])
	}
}

// TestPlayerTradeNegotiation runs the full negotiation protocol:
// request, one response per other player, confirmation, transfer.
func TestPlayerTradeNegotiation(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	g.Players[0].Resources = ResourceSet{Wood: 2}
	g.Players[2].Resources = ResourceSet{Brick: 1}

	trade := &TradeRequest{
		From:   []TradeEntry{{Kind: Wood, Count: 2}},
		To:     []TradeEntry{{Kind: Brick, Count: 1}},
		Target: TradePlayer,
	}
	if err := g.HandleAction(0, ProposeTrade{Trade: trade}); err != nil {
		t.Fatalf("propose: %v", err)
	}
	if g.Phase() != PhaseTradeRespond {
		t.Fatalf("phase = %v, want PhaseTradeRespond", g.Phase())
	}

	// Responses are collected from every other player in order.
	if err := g.HandleAction(g.AwaitingPlayer(), RespondTrade{Accept: false}); err != nil {
		t.Fatal(err)
	}
	if err := g.HandleAction(g.AwaitingPlayer(), RespondTrade{Accept: true}); err != nil {
		t.Fatal(err)
	}
	if err := g.HandleAction(g.AwaitingPlayer(), RespondTrade{Accept: false}); err != nil {
		t.Fatal(err)
	}
	if g.Phase() != PhaseTradeConfirm {
		t.Fatalf("phase = %v, want PhaseTradeConfirm", g.Phase())
	}

	// Confirming with a rejecting player fails.
	rejecting := int8(1)
	if err := g.HandleAction(0, ConfirmTrade{With: &rejecting}); !errors.Is(err, ErrInvalidTrade) {
		t.Fatalf("confirm with rejector: err = %v, want ErrInvalidTrade", err)
	}

	accepting := int8(2)
	if err := g.HandleAction(0, ConfirmTrade{With: &accepting}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if g.Phase() != PhaseMain {
		t.Errorf("phase = %v after confirm, want PhaseMain", g.Phase())
	}
	if g.Players[0].Resources[Brick] != 1 || g.Players[0].Resources[Wood] != 0 {
		t.Errorf("proposer resources = %v", g.Players[0].Resources)
	}
	if g.Players[2].Resources[Wood] != 2 || g.Players[2].Resources[Brick] != 0 {
		t.Errorf("responder resources = %v", g.Players[2].Resources)
	}
}

// TestPlayerTradeCancel verifies confirming with nobody is a broadcast
// no-op.
func TestPlayerTradeCancel(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	g.Players[0].Resources = ResourceSet{Wood: 2}
	trade := &TradeRequest{
		From:   []TradeEntry{{Kind: Wood, Count: 2}},
		To:     []TradeEntry{{Kind: Brick, Count: 1}},
		Target: TradePlayer,
	}
	if err := g.HandleAction(0, ProposeTrade{Trade: trade}); err != nil {
		t.Fatal(err)
	}
	for g.Phase() == PhaseTradeRespond {
		if err := g.HandleAction(g.AwaitingPlayer(), RespondTrade{Accept: true}); err != nil {
			t.Fatal(err)
		}
	}
	g.DrainEvents()
	if err := g.HandleAction(0, ConfirmTrade{}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if g.Players[0].Resources[Wood] != 2 {
		t.Error("cancelled trade moved resources")
	}
	broadcast, _ := g.DrainEvents()
	found := false
	for _, ev := range broadcast {
		if ev.Type == EventTrade && ev.With == nil {
			found = true
		}
	}
	if !found {
		t.Error("no-op trade event not broadcast")
	}
}

// TestTradeLimitPerTurn verifies the three-request cap.
func TestTradeLimitPerTurn(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	g.Players[0].Resources = ResourceSet{Wood: 20}
	bank := &TradeRequest{
		From:   []TradeEntry{{Kind: Wood, Count: 4}},
		To:     []TradeEntry{{Kind: Brick, Count: 1}},
		Target: TradeBank,
	}
	for i := 0; i < 3; i++ {
		if err := g.HandleAction(0, ProposeTrade{Trade: bank}); err != nil {
			t.Fatalf("bank trade %d: %v", i, err)
		}
	}
	err := g.HandleAction(0, ProposeTrade{Trade: bank})
	if !errors.Is(err, ErrLimitReached) {
		t.Errorf("fourth trade: err = %v, want ErrLimitReached", err)
	}
}

// TestWinByScore verifies the strictly-greater win threshold at end of
// turn bookkeeping.
func TestWinByScore(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	g.Players[0].Score = g.Rules.WinScore // not enough: must exceed
	if g.checkWin() {
		t.Fatal("win at exactly WinScore")
	}
	g.Players[0].Score = g.Rules.WinScore + 1
	if !g.checkWin() {
		t.Fatal("no win above WinScore")
	}
	if !g.Over() || g.Winner() != 0 {
		t.Errorf("Over=%v Winner=%d", g.Over(), g.Winner())
	}
	err := g.HandleAction(0, EndTurn{})
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("action after game over: err = %v, want ErrProtocol", err)
	}
}

// TestDistributeAmountsAndRobberSkip builds a fixed one-tile board and
// verifies dice distribution: one resource per settlement, two per city,
// nothing while the robber sits on the tile, and the per-kind clamp.
func TestDistributeAmountsAndRobberSkip(t *testing.T) {
	var tiles [GridRows][GridCols]Tile
	tiles[1][1] = Tile{Kind: TileWood, Number: 5}
	tiles[2][2] = Tile{Kind: TileDesert}

	rules := DefaultGameRules()
	g := &Game{
		Rules:   rules,
		Board:   NewBoard(tiles, nil, Coordinate{2, 2}),
		Players: []*Player{NewPlayer(0, rules), NewPlayer(1, rules)},
	}
	// Corners of tile (1,1): a settlement for player 0, a city for player 1.
	g.Board.AddSettlement(0, Coordinate{1, 3})
	g.Board.AddSettlement(1, Coordinate{2, 5})
	g.Board.AddCity(1, Coordinate{2, 5})

	g.distribute(5)
	if got := g.Players[0].Resources[Wood]; got != 1 {
		t.Errorf("settlement owner wood = %d, want 1", got)
	}
	if got := g.Players[1].Resources[Wood]; got != 2 {
		t.Errorf("city owner wood = %d, want 2", got)
	}

	// The robbed tile produces nothing.
	g.Board.SetRobber(Coordinate{1, 1})
	g.distribute(5)
	if got := g.Players[0].Resources[Wood]; got != 1 {
		t.Errorf("robbed tile produced: wood = %d, want 1", got)
	}

	// Distribution clamps at the per-kind cap; other players still collect.
	g.Board.SetRobber(Coordinate{2, 2})
	g.Players[0].Resources[Wood] = rules.MaxResource
	g.distribute(5)
	if got := g.Players[0].Resources[Wood]; got != rules.MaxResource {
		t.Errorf("capped player wood = %d, want %d", got, rules.MaxResource)
	}
	if got := g.Players[1].Resources[Wood]; got != 4 {
		t.Errorf("city owner wood = %d, want 4", got)
	}
}

// TestBuildGatesMatchCapabilityPredicates verifies the action handlers
// accept exactly when the matching Can* predicate holds, given a valid
// site.
func TestBuildGatesMatchCapabilityPredicates(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)
	p := g.Players[0]

	edge := NewLine(Coordinate{1, 2}, Coordinate{1, 3})
	p.Resources = ResourceSet{Brick: 1}
	if p.CanBuildRoad(g.Rules) {
		t.Fatal("CanBuildRoad true without wood")
	}
	if err := g.HandleAction(0, BuildRoad{Edge: edge}); !errors.Is(err, ErrNoResource) {
		t.Fatalf("road without wood: err = %v, want ErrNoResource", err)
	}
	p.Resources = ResourceSet{Brick: 1, Wood: 1}
	if !p.CanBuildRoad(g.Rules) {
		t.Fatal("CanBuildRoad false with exact cost")
	}
	if err := g.HandleAction(0, BuildRoad{Edge: edge}); err != nil {
		t.Fatalf("road with exact cost rejected: %v", err)
	}

	p.Resources = ResourceSet{Stone: 3, Grain: 1}
	if p.CanBuildCity() {
		t.Fatal("CanBuildCity true without enough grain")
	}
	if err := g.HandleAction(0, BuildCity{Point: Coordinate{1, 1}}); !errors.Is(err, ErrNoResource) {
		t.Fatalf("underfunded city: err = %v, want ErrNoResource", err)
	}
	p.Resources = ResourceSet{Stone: 3, Grain: 2}
	if !p.CanBuildCity() {
		t.Fatal("CanBuildCity false with exact cost")
	}
	if err := g.HandleAction(0, BuildCity{Point: Coordinate{1, 1}}); err != nil {
		t.Fatalf("city with exact cost rejected: %v", err)
	}

	p.Resources = ResourceSet{Grain: 1, Wool: 1}
	if p.CanBuyDevelopmentCard() {
		t.Fatal("CanBuyDevelopmentCard true without stone")
	}
	if err := g.HandleAction(0, BuyDevelopmentCard{}); !errors.Is(err, ErrNoResource) {
		t.Fatalf("underfunded buy: err = %v, want ErrNoResource", err)
	}
}

// TestTradeConfirmKeepsResourcesAtCap verifies a confirmed trade moves
// every unit even when the recipient already sits at the distribution
// cap: exchanged resources are conserved, never clipped.
func TestTradeConfirmKeepsResourcesAtCap(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)

	g.Players[0].Resources = ResourceSet{Wood: 2}
	g.Players[2].Resources = ResourceSet{Brick: 1, Wood: g.Rules.MaxResource}

	trade := &TradeRequest{
		From:   []TradeEntry{{Kind: Wood, Count: 2}},
		To:     []TradeEntry{{Kind: Brick, Count: 1}},
		Target: TradePlayer,
	}
	if err := g.HandleAction(0, ProposeTrade{Trade: trade}); err != nil {
		t.Fatal(err)
	}
	for g.Phase() == PhaseTradeRespond {
		if err := g.HandleAction(g.AwaitingPlayer(), RespondTrade{Accept: true}); err != nil {
			t.Fatal(err)
		}
	}
	accepting := int8(2)
	if err := g.HandleAction(0, ConfirmTrade{With: &accepting}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := g.Players[2].Resources[Wood]; got != g.Rules.MaxResource+2 {
		t.Errorf("responder wood = %d, want %d", got, g.Rules.MaxResource+2)
	}
	if g.Players[0].Resources[Brick] != 1 || g.Players[0].Resources[Wood] != 0 {
		t.Errorf("proposer resources = %v", g.Players[0].Resources)
	}
}

// TestEventOrderOnBuild verifies events drain in application order.
func TestEventOrderOnBuild(t *testing.T) {
	g := newTestGame(t, 11)
	completeSetup(t, g)
	endTurnUntil(t, g, 0)
	g.DrainEvents()

	p := g.Players[0]
	p.Resources = ResourceSet{Brick: 1, Wood: 1}
	if err := g.HandleAction(0, BuildRoad{Edge: NewLine(Coordinate{1, 2}, Coordinate{1, 3})}); err != nil {
		t.Fatal(err)
	}
	broadcast, _ := g.DrainEvents()
	if len(broadcast) < 3 {
		t.Fatalf("got %d events, want cost deltas then the build", len(broadcast))
	}
	last := broadcast[len(broadcast)-1]
	if last.Type != EventBuildRoad {
		t.Errorf("last event = %s, want %s", last.Type, EventBuildRoad)
	}
	for _, ev := range broadcast[:len(broadcast)-1] {
		if ev.Type != EventOfferResources || ev.Offer == nil || ev.Offer.Count >= 0 {
			t.Errorf("expected negative resource delta before build, got %+v", ev)
		}
	}
	again, _ := g.DrainEvents()
	if len(again) != 0 {
		t.Errorf("drain did not clear the broadcast queue: %d left", len(again))
	}
}
