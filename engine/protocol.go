package engine

// Inbound action and outbound event vocabularies. Actions arrive from a
// player collaborator already shaped (the transport validates framing at
// the edge); events go out through the broadcast and per-player queues.

// Action is a player's proposed move. The engine decides legality.
type Action interface{ isAction() }

// BuildRoad proposes a road on an edge.
type BuildRoad struct{ Edge Line }

// BuildSettlement proposes a settlement on a vertex.
type BuildSettlement struct{ Point Coordinate }

// BuildCity proposes upgrading an owned settlement.
type BuildCity struct{ Point Coordinate }

// BuyDevelopmentCard draws from the shared deck.
type BuyDevelopmentCard struct{}

// UseDevelopmentCard spends a held card. Use must match the card kind.
type UseDevelopmentCard struct {
	Card DevCard
	Use  CardUse
}

// ProposeTrade opens a trade: bank and harbor targets resolve
// synchronously, player targets start the negotiation protocol.
type ProposeTrade struct{ Trade *TradeRequest }

// RespondTrade is one responder's Accept/Reject during negotiation.
type RespondTrade struct{ Accept bool }

// ConfirmTrade closes negotiation with a chosen responder, or nil to
// cancel.
type ConfirmTrade struct{ With *int8 }

// SelectRobber moves the robber after a 7, optionally stealing from a
// player adjacent to the chosen tile.
type SelectRobber struct {
	Target *int8
	Tile   Coordinate
}

// EndTurn passes the turn.
type EndTurn struct{}

func (BuildRoad) isAction()          {}
func (BuildSettlement) isAction()    {}
func (BuildCity) isAction()          {}
func (BuyDevelopmentCard) isAction() {}
func (UseDevelopmentCard) isAction() {}
func (ProposeTrade) isAction()       {}
func (RespondTrade) isAction()       {}
func (ConfirmTrade) isAction()       {}
func (SelectRobber) isAction()       {}
func (EndTurn) isAction()            {}

// CardUse is the card-specific usage payload, tagged by the card it
// belongs to. A payload whose Card does not match the spent card is a
// rejection, not a panic.
type CardUse interface {
	Card() DevCard
}

// KnightUse moves the robber and optionally steals, like a rolled 7.
type KnightUse struct {
	Target *int8
	Tile   Coordinate
}

// RoadBuildingUse grants two free roads.
type RoadBuildingUse struct {
	First  Line
	Second Line
}

// MonopolyUse drains one resource kind from every other player.
type MonopolyUse struct{ Kind Resource }

// YearOfPlentyUse grants one unit each of two chosen kinds, which may be
// the same kind twice.
type YearOfPlentyUse struct {
	First  Resource
	Second Resource
}

// VictoryPointUse reveals a victory point card.
type VictoryPointUse struct{}

func (KnightUse) Card() DevCard       { return CardKnight }
func (RoadBuildingUse) Card() DevCard { return CardRoadBuilding }
func (MonopolyUse) Card() DevCard     { return CardMonopoly }
func (YearOfPlentyUse) Card() DevCard { return CardYearOfPlenty }
func (VictoryPointUse) Card() DevCard { return CardVictoryPoint }

// ---------------------------------------------------------------------------
// Outbound events
// ---------------------------------------------------------------------------

// EventType tags an outbound event.
type EventType string

const (
	EventGameStart       EventType = "game_start"
	EventPlayerInit      EventType = "player_init"
	EventPlayerTurn      EventType = "player_turn"
	EventPlayerRollDice  EventType = "player_roll_dice"
	EventBuildRoad       EventType = "player_build_road"
	EventBuildSettlement EventType = "player_build_settlement"
	EventBuildCity       EventType = "player_build_city"
	EventBuyDevCard      EventType = "player_buy_development_card"
	EventUseDevCard      EventType = "player_use_development_card"
	EventSelectRobber    EventType = "player_select_robber"
	EventTradeRequest    EventType = "player_trade_request"
	EventTradeResponse   EventType = "player_trade_response"
	EventTrade           EventType = "player_trade"
	EventOfferResources  EventType = "player_offer_resources"
	EventPlayerEndTurn   EventType = "player_end_turn"
	EventGameOver        EventType = "game_over"
)

// GameStartInfo is the one-time board snapshot sent to each player.
// YourIndex differs per recipient, so GameStart goes out privately.
type GameStartInfo struct {
	Tiles     [GridRows][GridCols]Tile `json:"tiles"`
	Harbors   []Harbor                 `json:"harbors"`
	Robber    Coordinate               `json:"robber"`
	DiceIndex map[uint8][]Coordinate   `json:"diceIndex"`
	Players   []string                 `json:"players"`
	YourIndex int8                     `json:"yourIndex"`
}

// ResourceDelta is a signed resource movement for one player.
type ResourceDelta struct {
	Kind  Resource `json:"kind"`
	Count int8     `json:"count"`
}

// RobberMove describes a robber placement and the optional steal victim.
type RobberMove struct {
	Tile   Coordinate `json:"tile"`
	Target *int8      `json:"target,omitempty"`
}

// DicePair is one roll of two independent dice.
type DicePair struct {
	First  uint8 `json:"first"`
	Second uint8 `json:"second"`
}

// Event is one outbound message. Player is the acting player, or -1 for
// game-level events. Optional payload fields are nil when not relevant;
// Card is set only on the private copy sent to a development-card buyer.
type Event struct {
	Type   EventType      `json:"type"`
	Player int8           `json:"player"`
	Start  *GameStartInfo `json:"start,omitempty"`
	Dice   *DicePair      `json:"dice,omitempty"`
	Edge   *Line          `json:"edge,omitempty"`
	Edge2  *Line          `json:"edge2,omitempty"`
	Point  *Coordinate    `json:"point,omitempty"`
	Card   *DevCard       `json:"card,omitempty"`
	Robber *RobberMove    `json:"robber,omitempty"`
	Trade  *TradeRequest  `json:"trade,omitempty"`
	Accept *bool          `json:"accept,omitempty"`
	With   *int8          `json:"with,omitempty"`
	Offer  *ResourceDelta `json:"offer,omitempty"`
	Winner *int8          `json:"winner,omitempty"`
}
