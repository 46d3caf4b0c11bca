package game

import (
	"encoding/json"
	"fmt"

	"github.com/needon1997/settlers/engine"
)

// ClientAction is the wire form of a player action. Type selects the
// action; the remaining fields carry its payload and are ignored when
// not relevant.
type ClientAction struct {
	Type   string             `json:"type"`
	Edge   *engine.Line       `json:"edge,omitempty"`
	Edge2  *engine.Line       `json:"edge2,omitempty"`
	Point  *engine.Coordinate `json:"point,omitempty"`
	Tile   *engine.Coordinate `json:"tile,omitempty"`
	Card   string             `json:"card,omitempty"`
	Kind   string             `json:"kind,omitempty"`
	First  string             `json:"first,omitempty"`
	Second string             `json:"second,omitempty"`
	Target *int8              `json:"target,omitempty"`
	Accept *bool              `json:"accept,omitempty"`
	With   *int8              `json:"with,omitempty"`
	Trade  *TradeWire         `json:"trade,omitempty"`
}

// TradeWire is the wire form of a trade request, with resource kinds and
// the counterparty spelled out by name.
type TradeWire struct {
	From   []TradeEntryWire `json:"from"`
	To     []TradeEntryWire `json:"to"`
	Target string           `json:"target"` // "bank", "harbor", or "player"
}

// TradeEntryWire is one (kind, count) line of a wire trade.
type TradeEntryWire struct {
	Kind  string `json:"kind"`
	Count uint8  `json:"count"`
}

// DecodeAction parses a raw client message into an engine action. Only
// framing and vocabulary are validated here; legality is the engine's
// call.
func DecodeAction(data []byte) (engine.Action, error) {
	var msg ClientAction
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("malformed action: %w", err)
	}
	return msg.ToEngine()
}

// ToEngine converts the wire action to its engine form.
func (msg *ClientAction) ToEngine() (engine.Action, error) {
	switch msg.Type {
	case "build_road":
		if msg.Edge == nil {
			return nil, fmt.Errorf("build_road requires an edge")
		}
		return engine.BuildRoad{Edge: engine.NewLine(msg.Edge.Start, msg.Edge.End)}, nil

	case "build_settlement":
		if msg.Point == nil {
			return nil, fmt.Errorf("build_settlement requires a point")
		}
		return engine.BuildSettlement{Point: *msg.Point}, nil

	case "build_city":
		if msg.Point == nil {
			return nil, fmt.Errorf("build_city requires a point")
		}
		return engine.BuildCity{Point: *msg.Point}, nil

	case "buy_development_card":
		return engine.BuyDevelopmentCard{}, nil

	case "use_development_card":
		return msg.decodeCardUse()

	case "propose_trade":
		if msg.Trade == nil {
			return nil, fmt.Errorf("propose_trade requires a trade")
		}
		trade, err := msg.Trade.toEngine()
		if err != nil {
			return nil, err
		}
		return engine.ProposeTrade{Trade: trade}, nil

	case "respond_trade":
		if msg.Accept == nil {
			return nil, fmt.Errorf("respond_trade requires accept")
		}
		return engine.RespondTrade{Accept: *msg.Accept}, nil

	case "confirm_trade":
		return engine.ConfirmTrade{With: msg.With}, nil

	case "select_robber":
		if msg.Tile == nil {
			return nil, fmt.Errorf("select_robber requires a tile")
		}
		return engine.SelectRobber{Tile: *msg.Tile, Target: msg.Target}, nil

	case "end_turn":
		return engine.EndTurn{}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", msg.Type)
}

// decodeCardUse builds the card-specific payload for a dev card spend.
func (msg *ClientAction) decodeCardUse() (engine.Action, error) {
	card, err := ParseDevCard(msg.Card)
	if err != nil {
		return nil, err
	}
	var use engine.CardUse
	switch card {
	case engine.CardKnight:
		if msg.Tile == nil {
			return nil, fmt.Errorf("knight requires a tile")
		}
		use = engine.KnightUse{Tile: *msg.Tile, Target: msg.Target}
	case engine.CardRoadBuilding:
		if msg.Edge == nil || msg.Edge2 == nil {
			return nil, fmt.Errorf("road_building requires two edges")
		}
		use = engine.RoadBuildingUse{
			First:  engine.NewLine(msg.Edge.Start, msg.Edge.End),
			Second: engine.NewLine(msg.Edge2.Start, msg.Edge2.End),
		}
	case engine.CardMonopoly:
		kind, err := ParseResource(msg.Kind)
		if err != nil {
			return nil, err
		}
		use = engine.MonopolyUse{Kind: kind}
	case engine.CardYearOfPlenty:
		first, err := ParseResource(msg.First)
		if err != nil {
			return nil, err
		}
		second, err := ParseResource(msg.Second)
		if err != nil {
			return nil, err
		}
		use = engine.YearOfPlentyUse{First: first, Second: second}
	case engine.CardVictoryPoint:
		use = engine.VictoryPointUse{}
	}
	return engine.UseDevelopmentCard{Card: card, Use: use}, nil
}

// toEngine converts a wire trade to the engine's request form.
func (t *TradeWire) toEngine() (*engine.TradeRequest, error) {
	target, err := parseTradeTarget(t.Target)
	if err != nil {
		return nil, err
	}
	req := &engine.TradeRequest{Target: target}
	for _, e := range t.From {
		kind, err := ParseResource(e.Kind)
		if err != nil {
			return nil, err
		}
		req.From = append(req.From, engine.TradeEntry{Kind: kind, Count: e.Count})
	}
	for _, e := range t.To {
		kind, err := ParseResource(e.Kind)
		if err != nil {
			return nil, err
		}
		req.To = append(req.To, engine.TradeEntry{Kind: kind, Count: e.Count})
	}
	return req, nil
}

// ParseResource maps a resource name to its engine kind.
func ParseResource(name string) (engine.Resource, error) {
	switch name {
	case "brick":
		return engine.Brick, nil
	case "wood":
		return engine.Wood, nil
	case "grain":
		return engine.Grain, nil
	case "wool":
		return engine.Wool, nil
	case "stone":
		return engine.Stone, nil
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// ParseDevCard maps a card name to its engine kind.
func ParseDevCard(name string) (engine.DevCard, error) {
	switch name {
	case "knight":
		return engine.CardKnight, nil
	case "victory_point":
		return engine.CardVictoryPoint, nil
	case "road_building":
		return engine.CardRoadBuilding, nil
	case "monopoly":
		return engine.CardMonopoly, nil
	case "year_of_plenty":
		return engine.CardYearOfPlenty, nil
	}
	return 0, fmt.Errorf("unknown development card %q", name)
}

// parseTradeTarget maps a counterparty name to its engine kind.
func parseTradeTarget(name string) (engine.TradeTarget, error) {
	switch name {
	case "bank":
		return engine.TradeBank, nil
	case "harbor":
		return engine.TradeHarbor, nil
	case "player":
		return engine.TradePlayer, nil
	}
	return 0, fmt.Errorf("unknown trade target %q", name)
}
