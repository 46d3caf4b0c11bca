package engine

// Grid topology for the offset hex grid.
//
// Tiles live in a GridRows x GridCols grid where odd rows are shifted half
// a hex to the right. Points (vertices) live in a PointRows x PointCols
// grid: every tile row r contributes its top corners to point row r and
// its bottom corners to point row r+1, three corners each, starting at
// point column 2*y + (r % 2).
//
// These functions are total: out-of-range neighbors are simply absent
// from the returned slice. All higher components call through here
// rather than re-deriving offsets.

// tileInGrid reports whether a tile coordinate is inside the tile grid.
func tileInGrid(t Coordinate) bool {
	return t.X < GridRows && t.Y < GridCols
}

// pointInGrid reports whether a point coordinate is inside the point grid.
func pointInGrid(p Coordinate) bool {
	return p.X < PointRows && p.Y < PointCols
}

// TileCorners returns the six point coordinates at the corners of a tile,
// top row first, left to right.
func TileCorners(t Coordinate) [6]Coordinate {
	base := 2*t.Y + t.X%2
	return [6]Coordinate{
		{X: t.X, Y: base},
		{X: t.X, Y: base + 1},
		{X: t.X, Y: base + 2},
		{X: t.X + 1, Y: base},
		{X: t.X + 1, Y: base + 1},
		{X: t.X + 1, Y: base + 2},
	}
}

// AdjacentPoints returns the up-to-three points connected to p by a board
// edge. Every point connects to its left and right neighbors in the same
// zigzag row; the vertical neighbor goes down when the row and column
// parities match and up otherwise.
func AdjacentPoints(p Coordinate) []Coordinate {
	out := make([]Coordinate, 0, 3)
	if p.Y > 0 {
		out = append(out, Coordinate{X: p.X, Y: p.Y - 1})
	}
	if p.Y+1 < PointCols {
		out = append(out, Coordinate{X: p.X, Y: p.Y + 1})
	}
	if p.X%2 == p.Y%2 {
		if p.X+1 < PointRows {
			out = append(out, Coordinate{X: p.X + 1, Y: p.Y})
		}
	} else if p.X > 0 {
		out = append(out, Coordinate{X: p.X - 1, Y: p.Y})
	}
	return out
}

// AdjacentTiles returns the up-to-three tiles sharing the vertex p.
// Keyed on (row parity, column parity), the inverse of TileCorners.
func AdjacentTiles(p Coordinate) []Coordinate {
	out := make([]Coordinate, 0, 3)
	h := p.Y / 2

	appendTile := func(x, y int) {
		if x < 0 || y < 0 {
			return
		}
		t := Coordinate{X: uint8(x), Y: uint8(y)}
		if tileInGrid(t) {
			out = append(out, t)
		}
	}

	row := int(p.X)
	col := int(h)
	switch {
	case p.X%2 == 0 && p.Y%2 == 0:
		appendTile(row, col)
		appendTile(row, col-1)
		appendTile(row-1, col-1)
	case p.X%2 == 0 && p.Y%2 == 1:
		appendTile(row, col)
		appendTile(row-1, col)
		appendTile(row-1, col-1)
	case p.X%2 == 1 && p.Y%2 == 0:
		appendTile(row, col-1)
		appendTile(row-1, col)
		appendTile(row-1, col-1)
	default: // odd row, odd column
		appendTile(row, col)
		appendTile(row, col-1)
		appendTile(row-1, col)
	}
	return out
}
