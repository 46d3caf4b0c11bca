package engine

import "testing"

// TestCapabilityThresholds verifies the documented build costs.
func TestCapabilityThresholds(t *testing.T) {
	rules := DefaultGameRules()
	p := NewPlayer(0, rules)

	if p.CanBuildRoad(rules) || p.CanBuildSettlement() || p.CanBuildCity() || p.CanBuyDevelopmentCard() {
		t.Fatal("penniless player can build")
	}

	p.Resources = ResourceSet{Brick: 1, Wood: 1}
	if !p.CanBuildRoad(rules) {
		t.Error("1 brick + 1 wood cannot build a road")
	}
	if p.CanBuildSettlement() {
		t.Error("road resources suffice for a settlement")
	}

	p.Resources = ResourceSet{Brick: 1, Wood: 1, Grain: 1, Wool: 1}
	if !p.CanBuildSettlement() {
		t.Error("settlement cost not accepted")
	}

	p.Resources = ResourceSet{Stone: 3, Grain: 2}
	if !p.CanBuildCity() {
		t.Error("city cost not accepted")
	}
	p.Resources = ResourceSet{Stone: 2, Grain: 2}
	if p.CanBuildCity() {
		t.Error("city built with 2 stone")
	}

	p.Resources = ResourceSet{Grain: 1, Wool: 1, Stone: 1}
	if !p.CanBuyDevelopmentCard() {
		t.Error("dev card cost not accepted")
	}
}

// TestRoadLimitBlocksBuild verifies the per-player road cap.
func TestRoadLimitBlocksBuild(t *testing.T) {
	rules := DefaultGameRules()
	p := NewPlayer(0, rules)
	p.Resources = ResourceSet{Brick: 9, Wood: 9}
	for i := uint8(0); i < rules.MaxRoads; i++ {
		p.Roads = append(p.Roads, NewLine(Coordinate{0, i}, Coordinate{0, i + 1}))
	}
	if p.CanBuildRoad(rules) {
		t.Error("road built beyond MaxRoads")
	}
}

// TestGainClamps verifies the per-kind resource cap.
func TestGainClamps(t *testing.T) {
	p := NewPlayer(0, DefaultGameRules())
	p.Resources[Wood] = 19
	if got := p.Gain(Wood, 5, 20); got != 1 {
		t.Errorf("granted %d, want 1", got)
	}
	if p.Resources[Wood] != 20 {
		t.Errorf("wood = %d, want 20", p.Resources[Wood])
	}
	if got := p.Gain(Wood, 1, 20); got != 0 {
		t.Errorf("granted %d at cap, want 0", got)
	}
}

// TestLongestPathChain verifies a simple chain counts its edges.
func TestLongestPathChain(t *testing.T) {
	p := NewPlayer(0, DefaultGameRules())
	// Chain along point row 1: (1,0)-(1,1)-...-(1,5).
	for y := uint8(0); y < 5; y++ {
		p.Roads = append(p.Roads, NewLine(Coordinate{1, y}, Coordinate{1, y + 1}))
	}
	if got := p.LongestPath(); got != 5 {
		t.Errorf("LongestPath = %d, want 5", got)
	}
}

// TestLongestPathBranch verifies branches don't add, only the longest
// trail counts.
func TestLongestPathBranch(t *testing.T) {
	p := NewPlayer(0, DefaultGameRules())
	// Main chain of 4 plus a single-edge branch off the middle.
	p.Roads = []Line{
		NewLine(Coordinate{1, 0}, Coordinate{1, 1}),
		NewLine(Coordinate{1, 1}, Coordinate{1, 2}),
		NewLine(Coordinate{1, 2}, Coordinate{1, 3}),
		NewLine(Coordinate{1, 3}, Coordinate{1, 4}),
		NewLine(Coordinate{1, 2}, Coordinate{2, 2}),
	}
	if got := p.LongestPath(); got != 4 {
		t.Errorf("LongestPath = %d, want 4", got)
	}
}

// TestLongestPathDisconnected verifies disjoint segments don't join.
func TestLongestPathDisconnected(t *testing.T) {
	p := NewPlayer(0, DefaultGameRules())
	p.Roads = []Line{
		NewLine(Coordinate{1, 0}, Coordinate{1, 1}),
		NewLine(Coordinate{1, 1}, Coordinate{1, 2}),
		NewLine(Coordinate{3, 5}, Coordinate{3, 6}),
	}
	if got := p.LongestPath(); got != 2 {
		t.Errorf("LongestPath = %d, want 2", got)
	}
}

// TestLongestPathCycle verifies a loop counts every edge once.
func TestLongestPathCycle(t *testing.T) {
	p := NewPlayer(0, DefaultGameRules())
	// The six edges of tile (0,1)'s hex form a closed loop.
	edges := tileEdges(Coordinate{0, 1})
	p.Roads = edges[:]
	if got := p.LongestPath(); got != 6 {
		t.Errorf("LongestPath = %d around a hex, want 6", got)
	}
}

// TestLongestPathEmpty verifies a player with no roads scores zero.
func TestLongestPathEmpty(t *testing.T) {
	p := NewPlayer(0, DefaultGameRules())
	if got := p.LongestPath(); got != 0 {
		t.Errorf("LongestPath = %d, want 0", got)
	}
}
