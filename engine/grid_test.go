package engine

import "testing"

// TestTileCornersShared verifies that horizontally adjacent tiles share
// exactly two corners, as do tiles in adjacent rows.
func TestTileCornersShared(t *testing.T) {
	shared := func(a, b Coordinate) int {
		ca, cb := TileCorners(a), TileCorners(b)
		n := 0
		for _, p := range ca {
			for _, q := range cb {
				if p == q {
					n++
				}
			}
		}
		return n
	}

	if n := shared(Coordinate{0, 0}, Coordinate{0, 1}); n != 2 {
		t.Errorf("tiles (0,0),(0,1) share %d corners, want 2", n)
	}
	if n := shared(Coordinate{0, 0}, Coordinate{1, 0}); n != 2 {
		t.Errorf("tiles (0,0),(1,0) share %d corners, want 2", n)
	}
	if n := shared(Coordinate{1, 0}, Coordinate{0, 1}); n != 2 {
		t.Errorf("tiles (1,0),(0,1) share %d corners, want 2", n)
	}
	if n := shared(Coordinate{0, 0}, Coordinate{0, 2}); n != 0 {
		t.Errorf("tiles (0,0),(0,2) share %d corners, want 0", n)
	}
}

// TestAdjacentPointsSymmetric verifies that point adjacency is symmetric
// across the whole point grid.
func TestAdjacentPointsSymmetric(t *testing.T) {
	for x := uint8(0); x < PointRows; x++ {
		for y := uint8(0); y < PointCols; y++ {
			p := Coordinate{X: x, Y: y}
			for _, n := range AdjacentPoints(p) {
				back := AdjacentPoints(n)
				found := false
				for _, q := range back {
					if q == p {
						found = true
					}
				}
				if !found {
					t.Errorf("adjacency not symmetric: %v -> %v but not back", p, n)
				}
			}
		}
	}
}

// TestAdjacentPointsCount verifies every point has at most 3 neighbors
// and interior points have exactly 3.
func TestAdjacentPointsCount(t *testing.T) {
	for x := uint8(0); x < PointRows; x++ {
		for y := uint8(0); y < PointCols; y++ {
			p := Coordinate{X: x, Y: y}
			n := len(AdjacentPoints(p))
			if n > 3 {
				t.Errorf("point %v has %d neighbors, want <= 3", p, n)
			}
			interior := x > 0 && x < PointRows-1 && y > 0 && y < PointCols-1
			if interior && n != 3 {
				t.Errorf("interior point %v has %d neighbors, want 3", p, n)
			}
		}
	}
}

// TestCornerTileInverse verifies TileCorners and AdjacentTiles agree:
// every tile lists each of its corners, and each corner lists the tile.
func TestCornerTileInverse(t *testing.T) {
	for x := uint8(0); x < GridRows; x++ {
		for y := uint8(0); y < GridCols; y++ {
			tile := Coordinate{X: x, Y: y}
			for _, corner := range TileCorners(tile) {
				tiles := AdjacentTiles(corner)
				found := false
				for _, tc := range tiles {
					if tc == tile {
						found = true
					}
				}
				if !found {
					t.Errorf("tile %v has corner %v, but AdjacentTiles(%v) = %v omits it",
						tile, corner, corner, tiles)
				}
			}
		}
	}
}

// TestAdjacentTilesBounded verifies the tile list never exceeds three
// and never contains out-of-grid coordinates.
func TestAdjacentTilesBounded(t *testing.T) {
	for x := uint8(0); x < PointRows; x++ {
		for y := uint8(0); y < PointCols; y++ {
			tiles := AdjacentTiles(Coordinate{X: x, Y: y})
			if len(tiles) > 3 {
				t.Errorf("point (%d,%d) touches %d tiles, want <= 3", x, y, len(tiles))
			}
			for _, tc := range tiles {
				if !tileInGrid(tc) {
					t.Errorf("point (%d,%d) lists out-of-grid tile %v", x, y, tc)
				}
			}
		}
	}
}

// TestAdjacentEdgesAreHexEdges verifies that two adjacent points always
// share at least one tile: board edges lie on hex boundaries.
func TestAdjacentEdgesAreHexEdges(t *testing.T) {
	for x := uint8(0); x < PointRows; x++ {
		for y := uint8(0); y < PointCols; y++ {
			p := Coordinate{X: x, Y: y}
			for _, n := range AdjacentPoints(p) {
				common := 0
				for _, a := range AdjacentTiles(p) {
					for _, b := range AdjacentTiles(n) {
						if a == b {
							common++
						}
					}
				}
				if common == 0 && len(AdjacentTiles(p)) > 0 && len(AdjacentTiles(n)) > 0 {
					t.Errorf("edge %v-%v borders no tile", p, n)
				}
			}
		}
	}
}

// TestNewLineCanonical verifies Line canonicalization is order-insensitive.
func TestNewLineCanonical(t *testing.T) {
	a := Coordinate{X: 1, Y: 4}
	b := Coordinate{X: 1, Y: 5}
	if NewLine(a, b) != NewLine(b, a) {
		t.Error("NewLine is not canonical for swapped endpoints")
	}
	l := NewLine(b, a)
	if l.End.Less(l.Start) {
		t.Errorf("canonical line has end < start: %v", l)
	}
}
