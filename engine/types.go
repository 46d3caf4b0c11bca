package engine

// Board extents. The tile grid is GridRows x GridCols with a diamond
// playability mask; the point (vertex) grid is one row taller and
// 2*GridCols+1 columns wide.
const (
	GridRows = 5
	GridCols = 5

	PointRows = GridRows + 1
	PointCols = 2*GridCols + 1
)

// Coordinate addresses a cell in either the tile grid or the point grid.
// X is the row index, Y the column index.
type Coordinate struct {
	X uint8
	Y uint8
}

// Less orders coordinates row-major.
func (c Coordinate) Less(o Coordinate) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// Line is an unordered pair of point coordinates, canonicalized so that
// Start <= End. Used as a map key for roads and harbors.
type Line struct {
	Start Coordinate
	End   Coordinate
}

// NewLine builds a canonical Line from two endpoints in either order.
func NewLine(a, b Coordinate) Line {
	if b.Less(a) {
		a, b = b, a
	}
	return Line{Start: a, End: b}
}

// Touches reports whether p is one of the line's endpoints.
func (l Line) Touches(p Coordinate) bool {
	return l.Start == p || l.End == p
}

// SharesEndpoint reports whether two lines have a common endpoint.
func (l Line) SharesEndpoint(o Line) bool {
	return l.Touches(o.Start) || l.Touches(o.End)
}

// TileKind identifies what a tile produces, if anything.
type TileKind uint8

const (
	TileEmpty TileKind = iota // padding, not part of the playable board
	TileDesert
	TileWood
	TileBrick
	TileGrain
	TileWool
	TileStone
	TileOcean // extended variant only
	TileGold  // extended variant only
)

// Resource reports the resource kind produced by this tile kind and
// whether it produces one at all.
func (k TileKind) Resource() (Resource, bool) {
	switch k {
	case TileWood:
		return Wood, true
	case TileBrick:
		return Brick, true
	case TileGrain:
		return Grain, true
	case TileWool:
		return Wool, true
	case TileStone:
		return Stone, true
	}
	return 0, false
}

// Producing reports whether the tile kind yields a resource on a dice hit.
func (k TileKind) Producing() bool {
	_, ok := k.Resource()
	return ok
}

// Tile is one hex cell. Number is the dice value that makes it produce,
// 2..12, or 0 for tiles without a number (desert, empty, ocean).
// Immutable after setup; the robber marker lives on the Board.
type Tile struct {
	Kind   TileKind
	Number uint8
}

// Point is one board vertex. Owner is the player index, or -1 when
// unowned. City upgrades a settlement in place; ownership never reverts.
type Point struct {
	Owner int8
	City  bool
}

// Owned reports whether any player has built on this vertex.
func (p Point) Owned() bool { return p.Owner >= 0 }

// Resource indexes the five tradable resource kinds.
type Resource uint8

const (
	Brick Resource = iota
	Wood
	Grain
	Wool
	Stone

	NumResources = 5
)

// String returns the lowercase resource name.
func (r Resource) String() string {
	switch r {
	case Brick:
		return "brick"
	case Wood:
		return "wood"
	case Grain:
		return "grain"
	case Wool:
		return "wool"
	case Stone:
		return "stone"
	}
	return "unknown"
}

// ResourceSet is a fixed multiset of resources indexed by Resource.
type ResourceSet [NumResources]uint8

// Contains reports whether the set holds at least the given counts.
func (s ResourceSet) Contains(cost ResourceSet) bool {
	for i := 0; i < NumResources; i++ {
		if s[i] < cost[i] {
			return false
		}
	}
	return true
}

// Total returns the number of resource units in the set.
func (s ResourceSet) Total() int {
	t := 0
	for i := 0; i < NumResources; i++ {
		t += int(s[i])
	}
	return t
}

// Build costs.
var (
	CostRoad       = ResourceSet{Brick: 1, Wood: 1}
	CostSettlement = ResourceSet{Brick: 1, Wood: 1, Grain: 1, Wool: 1}
	CostCity       = ResourceSet{Stone: 3, Grain: 2}
	CostDevCard    = ResourceSet{Grain: 1, Wool: 1, Stone: 1}
)

// DevCard identifies a development card kind.
type DevCard uint8

const (
	CardKnight DevCard = iota
	CardVictoryPoint
	CardRoadBuilding
	CardMonopoly
	CardYearOfPlenty

	NumDevCards = 5
)

// String returns the card name.
func (c DevCard) String() string {
	switch c {
	case CardKnight:
		return "knight"
	case CardVictoryPoint:
		return "victory_point"
	case CardRoadBuilding:
		return "road_building"
	case CardMonopoly:
		return "monopoly"
	case CardYearOfPlenty:
		return "year_of_plenty"
	}
	return "unknown"
}

// deckComposition is the fixed development deck make-up, indexed by DevCard.
var deckComposition = [NumDevCards]uint8{
	CardKnight:       14,
	CardVictoryPoint: 5,
	CardRoadBuilding: 2,
	CardMonopoly:     2,
	CardYearOfPlenty: 2,
}

// HarborKind is the trade ratio a harbor grants: a specific resource at
// 2:1, or any resource at 3:1.
type HarborKind struct {
	Any      bool
	Resource Resource
}

// Harbor is a board edge granting a favorable bank-trade ratio to
// whichever player has a settlement or city on either endpoint.
type Harbor struct {
	Edge Line
	Kind HarborKind
}

// GameRules holds the configurable game constants.
type GameRules struct {
	NumPlayers     uint8
	WinScore       int   // game ends when a score exceeds this (strictly greater)
	MaxRoads       uint8 // per player; also bounds the longest-path search
	MaxSettlements uint8
	MaxCities      uint8
	MaxResource    uint8 // per player per kind, distribution clamp
	TradesPerTurn  uint8
	DevUsesPerTurn uint8
}

// DefaultGameRules returns the standard rule set.
func DefaultGameRules() GameRules {
	return GameRules{
		NumPlayers:     4,
		WinScore:       10,
		MaxRoads:       15,
		MaxSettlements: 5,
		MaxCities:      4,
		MaxResource:    20,
		TradesPerTurn:  3,
		DevUsesPerTurn: 1,
	}
}
