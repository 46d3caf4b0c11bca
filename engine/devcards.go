package engine

// Development card dispatch. One card use per turn; the supplied payload
// must be tagged with the card being spent, and a mismatch is a
// rejection, never a panic.

// useDevelopmentCard validates the spend and routes to the card effect.
// The card count is decremented only after the effect applied cleanly.
func (g *Game) useDevelopmentCard(player int8, action UseDevelopmentCard) error {
	p := g.Players[player]
	if g.devUsedThisTurn >= g.Rules.DevUsesPerTurn {
		return errLimitReached("development card already used this turn")
	}
	if !p.CanUseDevelopmentCard(action.Card) {
		return errInvalidCard("card not held")
	}
	if action.Use == nil || action.Use.Card() != action.Card {
		return errInvalidCard("payload does not match the card being used")
	}

	var err error
	switch use := action.Use.(type) {
	case KnightUse:
		err = g.useKnight(player, use)
	case RoadBuildingUse:
		err = g.useRoadBuilding(player, use)
	case MonopolyUse:
		g.useMonopoly(player, use)
	case YearOfPlentyUse:
		g.useYearOfPlenty(player, use)
	case VictoryPointUse:
		g.useVictoryPoint(player)
	default:
		err = errInvalidCard("unknown card payload")
	}
	if err != nil {
		return err
	}

	p.Cards[action.Card]--
	g.devUsedThisTurn++
	card := action.Card
	ev := Event{Type: EventUseDevCard, Player: player, Card: &card}
	if use, ok := action.Use.(RoadBuildingUse); ok {
		first, second := use.First, use.Second
		ev.Edge, ev.Edge2 = &first, &second
	}
	g.emit(ev)
	g.checkWin()
	return nil
}

// useKnight performs a robber move with optional steal, counts the
// knight, and re-evaluates largest army immediately.
func (g *Game) useKnight(player int8, use KnightUse) error {
	if err := g.moveRobber(player, use.Tile, use.Target); err != nil {
		return err
	}
	p := g.Players[player]
	p.KnightsUsed++
	g.reevaluateLargestArmy(p)
	return nil
}

// useRoadBuilding grants two free roads. The resources are refunded
// conceptually by skipping the cost; normal placement validation still
// applies, and a failed second road unwinds the first so the whole use
// either applies or rejects.
func (g *Game) useRoadBuilding(player int8, use RoadBuildingUse) error {
	if err := g.freeRoad(player, use.First); err != nil {
		return err
	}
	if err := g.freeRoad(player, use.Second); err != nil {
		g.unplaceRoad(player, use.First)
		return err
	}
	return nil
}

// useMonopoly zeroes the chosen kind across all other players and
// credits the total to the user.
func (g *Game) useMonopoly(player int8, use MonopolyUse) {
	total := uint8(0)
	for _, other := range g.Players {
		if other.Index == player {
			continue
		}
		n := other.Resources[use.Kind]
		if n == 0 {
			continue
		}
		other.Resources[use.Kind] = 0
		total += n
		g.emit(Event{Type: EventOfferResources, Player: other.Index, Offer: &ResourceDelta{Kind: use.Kind, Count: -int8(n)}})
	}
	if total > 0 {
		g.credit(player, use.Kind, total)
	}
}

// useYearOfPlenty grants one unit each of two chosen kinds.
func (g *Game) useYearOfPlenty(player int8, use YearOfPlentyUse) {
	if use.First == use.Second {
		g.credit(player, use.First, 2)
		return
	}
	g.credit(player, use.First, 1)
	g.credit(player, use.Second, 1)
}

// useVictoryPoint reveals a victory point card for one point.
func (g *Game) useVictoryPoint(player int8) {
	g.Players[player].Score++
}
