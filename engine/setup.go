package engine

// Shuffle-based setup generation: tile kinds, dice numbers, harbors, and
// the development deck, all drawn from one seeded RNG so a seed fully
// determines the board.

// rng is an inline xorshift64 generator, no interface.
type rng struct {
	state uint64
}

// newRNG seeds the generator. xorshift can't start at 0.
func newRNG(seed uint64) rng {
	if seed == 0 {
		seed = 1
	}
	return rng{state: seed}
}

func (r *rng) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// intn returns a random int in [0, n).
func (r *rng) intn(n int) int {
	return int(r.next() % uint64(n))
}

// d6 returns one die roll, 1..6.
func (r *rng) d6() uint8 {
	return uint8(r.intn(6)) + 1
}

func shuffle[T any](r *rng, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// playableCols gives the diamond playability mask: the inclusive column
// range of playable tiles per row. 3+4+5+4+3 = 19 tiles.
var playableCols = [GridRows][2]uint8{
	{1, 3},
	{0, 3},
	{0, 4},
	{0, 3},
	{1, 3},
}

// tilePool is the resource tile distribution: 1 desert, 4 each of
// wool/wood/grain, 3 each of stone/brick.
var tilePool = []TileKind{
	TileDesert,
	TileWool, TileWool, TileWool, TileWool,
	TileWood, TileWood, TileWood, TileWood,
	TileGrain, TileGrain, TileGrain, TileGrain,
	TileStone, TileStone, TileStone,
	TileBrick, TileBrick, TileBrick,
}

// numberPool is the dice-number frequency table: 18 placements, one per
// non-desert tile, excluding 7.
var numberPool = []uint8{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

// harborKindPool is the harbor ratio distribution: 5 specific-resource
// harbors and 4 generic ones.
var harborKindPool = []HarborKind{
	{Resource: Brick},
	{Resource: Wood},
	{Resource: Grain},
	{Resource: Wool},
	{Resource: Stone},
	{Any: true},
	{Any: true},
	{Any: true},
	{Any: true},
}

const numHarbors = 9

// Setup is a generated initial board: the tile grid, harbor placement,
// the robber's starting tile (the desert), and the shuffled development
// deck.
type Setup struct {
	Tiles   [GridRows][GridCols]Tile
	Harbors []Harbor
	Robber  Coordinate
	Deck    []DevCard
}

// GenerateSetup produces a randomized initial board satisfying the
// frequency constraints. The same seed always yields the same board.
func GenerateSetup(seed uint64) Setup {
	r := newRNG(seed)
	return generateSetup(&r)
}

func generateSetup(r *rng) Setup {
	var s Setup

	kinds := make([]TileKind, len(tilePool))
	copy(kinds, tilePool)
	shuffle(r, kinds)

	numbers := make([]uint8, len(numberPool))
	copy(numbers, numberPool)
	shuffle(r, numbers)

	// Lay shuffled kinds over the diamond mask in row-major order, then
	// hand out dice numbers to every non-desert tile.
	ki, ni := 0, 0
	for x := uint8(0); x < GridRows; x++ {
		for y := playableCols[x][0]; y <= playableCols[x][1]; y++ {
			kind := kinds[ki]
			ki++
			tile := Tile{Kind: kind}
			if kind == TileDesert {
				s.Robber = Coordinate{X: x, Y: y}
			} else {
				tile.Number = numbers[ni]
				ni++
			}
			s.Tiles[x][y] = tile
		}
	}

	s.Harbors = placeHarbors(r, s.Tiles)
	s.Deck = buildDeck(r)
	return s
}

// placeHarbors picks numHarbors distinct coastal edges and deals the
// harbor kinds over them. A coastal edge borders exactly one playable tile.
func placeHarbors(r *rng, tiles [GridRows][GridCols]Tile) []Harbor {
	seen := make(map[Line]bool)
	var coast []Line
	for x := uint8(0); x < GridRows; x++ {
		for y := uint8(0); y < GridCols; y++ {
			if tiles[x][y].Kind == TileEmpty {
				continue
			}
			for _, e := range tileEdges(Coordinate{X: x, Y: y}) {
				if seen[e] {
					continue
				}
				seen[e] = true
				if countPlayableAround(e, tiles) == 1 {
					coast = append(coast, e)
				}
			}
		}
	}
	shuffle(r, coast)

	kinds := make([]HarborKind, len(harborKindPool))
	copy(kinds, harborKindPool)
	shuffle(r, kinds)

	harbors := make([]Harbor, 0, numHarbors)
	for i := 0; i < numHarbors && i < len(coast); i++ {
		harbors = append(harbors, Harbor{Edge: coast[i], Kind: kinds[i]})
	}
	return harbors
}

// tileEdges returns the six edges of a tile, derived from its corners.
func tileEdges(t Coordinate) [6]Line {
	c := TileCorners(t)
	return [6]Line{
		NewLine(c[0], c[1]),
		NewLine(c[1], c[2]),
		NewLine(c[3], c[4]),
		NewLine(c[4], c[5]),
		NewLine(c[0], c[3]),
		NewLine(c[2], c[5]),
	}
}

// countPlayableAround counts the playable tiles bordering an edge.
func countPlayableAround(e Line, tiles [GridRows][GridCols]Tile) int {
	n := 0
	for _, t := range AdjacentTiles(e.Start) {
		for _, u := range AdjacentTiles(e.End) {
			if t == u && tiles[t.X][t.Y].Kind != TileEmpty {
				n++
			}
		}
	}
	return n
}

// buildDeck builds and shuffles the development deck with the fixed
// composition from deckComposition.
func buildDeck(r *rng) []DevCard {
	var deck []DevCard
	for card := DevCard(0); card < NumDevCards; card++ {
		for i := uint8(0); i < deckComposition[card]; i++ {
			deck = append(deck, card)
		}
	}
	shuffle(r, deck)
	return deck
}
