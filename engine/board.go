package engine

// Board holds the shared board state: the tile grid, the point grid, the
// road map, harbors, the robber, and the dice-value index built at setup.
// Mutation goes through the Add* methods; the Game is the only caller
// that mutates Board and Player state together.
type Board struct {
	tiles   [GridRows][GridCols]Tile
	points  [PointRows][PointCols]Point
	roads   map[Line]int8
	harbors []Harbor
	robber  Coordinate

	// diceIndex maps a rolled sum (2..12) to the producing tiles.
	diceIndex map[uint8][]Coordinate
}

// NewBoard builds a Board from generated setup: tiles, harbors, and the
// initial robber position (the desert).
func NewBoard(tiles [GridRows][GridCols]Tile, harbors []Harbor, robber Coordinate) *Board {
	b := &Board{
		tiles:     tiles,
		harbors:   harbors,
		robber:    robber,
		roads:     make(map[Line]int8),
		diceIndex: make(map[uint8][]Coordinate),
	}
	for x := uint8(0); x < GridRows; x++ {
		for y := uint8(0); y < GridCols; y++ {
			t := tiles[x][y]
			if t.Number >= 2 && t.Number <= 12 {
				b.diceIndex[t.Number] = append(b.diceIndex[t.Number], Coordinate{X: x, Y: y})
			}
		}
	}
	for x := range b.points {
		for y := range b.points[x] {
			b.points[x][y].Owner = -1
		}
	}
	return b
}

// Tile returns the tile at the given coordinate, or a zero (empty) tile
// when the coordinate is out of range.
func (b *Board) Tile(c Coordinate) Tile {
	if !tileInGrid(c) {
		return Tile{}
	}
	return b.tiles[c.X][c.Y]
}

// Point returns the vertex at the given coordinate. Out-of-range
// coordinates read as unowned.
func (b *Board) Point(c Coordinate) Point {
	if !pointInGrid(c) {
		return Point{Owner: -1}
	}
	return b.points[c.X][c.Y]
}

// Robber returns the robber's current tile.
func (b *Board) Robber() Coordinate { return b.robber }

// SetRobber moves the robber.
func (b *Board) SetRobber(c Coordinate) { b.robber = c }

// Roads returns the road ownership map. Callers must not mutate it.
func (b *Board) Roads() map[Line]int8 { return b.roads }

// Harbors returns the harbor list.
func (b *Board) Harbors() []Harbor { return b.harbors }

// TilesForRoll returns the tiles producing on the given dice sum.
func (b *Board) TilesForRoll(sum uint8) []Coordinate { return b.diceIndex[sum] }

// RoadOwner returns the owner of an edge, or -1 if unowned.
func (b *Board) RoadOwner(edge Line) int8 {
	if owner, ok := b.roads[edge]; ok {
		return owner
	}
	return -1
}

// AddRoad records an edge owner. If the edge is already owned the previous
// owner is returned and the map is left unchanged: an edge is never
// overwritten.
func (b *Board) AddRoad(player int8, edge Line) (prev int8, taken bool) {
	if owner, ok := b.roads[edge]; ok {
		return owner, true
	}
	b.roads[edge] = player
	return -1, false
}

// RemoveRoad deletes an edge owned by player. Used only to unwind a
// partially applied free-road grant.
func (b *Board) RemoveRoad(player int8, edge Line) {
	if owner, ok := b.roads[edge]; ok && owner == player {
		delete(b.roads, edge)
	}
}

// AddSettlement marks a vertex as owned by player.
func (b *Board) AddSettlement(player int8, c Coordinate) {
	if pointInGrid(c) {
		b.points[c.X][c.Y] = Point{Owner: player, City: false}
	}
}

// AddCity upgrades the vertex to a city, keeping the owner.
func (b *Board) AddCity(player int8, c Coordinate) {
	if pointInGrid(c) && b.points[c.X][c.Y].Owner == player {
		b.points[c.X][c.Y].City = true
	}
}

// PointValid reports whether the vertex touches the playable board: at
// least one adjacent tile is non-empty.
func (b *Board) PointValid(c Coordinate) bool {
	if !pointInGrid(c) {
		return false
	}
	for _, t := range AdjacentTiles(c) {
		if b.Tile(t).Kind != TileEmpty {
			return true
		}
	}
	return false
}

// PointValidSettlement is the stricter form used for settlements: at
// least one adjacent tile must be non-empty and non-ocean.
func (b *Board) PointValidSettlement(c Coordinate) bool {
	if !pointInGrid(c) {
		return false
	}
	for _, t := range AdjacentTiles(c) {
		k := b.Tile(t).Kind
		if k != TileEmpty && k != TileOcean {
			return true
		}
	}
	return false
}

// edgeTiles returns the tiles that share edge's two endpoints — the hexes
// the edge borders.
func (b *Board) edgeTiles(edge Line) []Coordinate {
	var out []Coordinate
	for _, t := range AdjacentTiles(edge.Start) {
		for _, u := range AdjacentTiles(edge.End) {
			if t == u {
				out = append(out, t)
			}
		}
	}
	return out
}

// CheckValidBuildableRoad reports whether an edge can carry a road at all:
// both endpoints on-board, the edge borders a producing or desert tile,
// and no road occupies it yet.
func (b *Board) CheckValidBuildableRoad(edge Line) bool {
	return b.checkBuildableEdge(edge, false)
}

// CheckValidBuildableBoat is the boat variant for the ocean extension:
// the edge must border an ocean tile instead.
func (b *Board) CheckValidBuildableBoat(edge Line) bool {
	return b.checkBuildableEdge(edge, true)
}

func (b *Board) checkBuildableEdge(edge Line, boat bool) bool {
	if !pointInGrid(edge.Start) || !pointInGrid(edge.End) {
		return false
	}
	if !adjacentPointPair(edge) {
		return false
	}
	if _, taken := b.roads[edge]; taken {
		return false
	}
	for _, t := range b.edgeTiles(edge) {
		k := b.Tile(t).Kind
		if boat {
			if k == TileOcean {
				return true
			}
		} else if k.Producing() || k == TileDesert || k == TileGold {
			return true
		}
	}
	return false
}

// adjacentPointPair reports whether the line's endpoints are graph-adjacent.
func adjacentPointPair(edge Line) bool {
	for _, n := range AdjacentPoints(edge.Start) {
		if n == edge.End {
			return true
		}
	}
	return false
}

// HarborRatio resolves the best trade ratio the player holds for the
// given resource: 2 with a matching specific harbor, 3 with an "any"
// harbor, 4 (bank rate) otherwise. A harbor is held when either endpoint
// of its edge carries the player's settlement or city.
func (b *Board) HarborRatio(player int8, r Resource) uint8 {
	ratio := uint8(4)
	for _, h := range b.harbors {
		startOwned := b.Point(h.Edge.Start).Owner == player
		endOwned := b.Point(h.Edge.End).Owner == player
		if !startOwned && !endOwned {
			continue
		}
		if h.Kind.Any {
			if ratio > 3 {
				ratio = 3
			}
		} else if h.Kind.Resource == r {
			ratio = 2
		}
	}
	return ratio
}
