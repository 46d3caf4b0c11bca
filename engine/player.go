package engine

// Player holds one player's private state: resources, development cards,
// built roads, remaining building stock, and score.
type Player struct {
	Index     int8
	Resources ResourceSet
	Cards     [NumDevCards]uint8
	Roads     []Line

	SettlementsLeft uint8
	CitiesLeft      uint8

	Score       int
	KnightsUsed uint8
	LongestRoad bool // currently holds the longest-road bonus
	LargestArmy bool // currently holds the largest-army bonus
}

// NewPlayer returns a player with full building stock and no resources.
func NewPlayer(index int8, rules GameRules) *Player {
	return &Player{
		Index:           index,
		SettlementsLeft: rules.MaxSettlements,
		CitiesLeft:      rules.MaxCities,
	}
}

// ---------------------------------------------------------------------------
// Capability predicates — resource and stock threshold checks
// ---------------------------------------------------------------------------

// CanBuildRoad reports whether the player can afford and stock a road.
func (p *Player) CanBuildRoad(rules GameRules) bool {
	return p.Resources.Contains(CostRoad) && uint8(len(p.Roads)) < rules.MaxRoads
}

// CanBuildSettlement reports whether the player can afford and stock a settlement.
func (p *Player) CanBuildSettlement() bool {
	return p.Resources.Contains(CostSettlement) && p.SettlementsLeft > 0
}

// CanBuildCity reports whether the player can afford and stock a city.
func (p *Player) CanBuildCity() bool {
	return p.Resources.Contains(CostCity) && p.CitiesLeft > 0
}

// CanBuyDevelopmentCard reports whether the player can afford a card.
func (p *Player) CanBuyDevelopmentCard() bool {
	return p.Resources.Contains(CostDevCard)
}

// CanUseDevelopmentCard reports whether the player holds the given card.
func (p *Player) CanUseDevelopmentCard(card DevCard) bool {
	return p.Cards[card] > 0
}

// CanTrade reports whether the player holds everything the trade offers.
func (p *Player) CanTrade(trade *TradeRequest) bool {
	return p.Resources.Contains(trade.fromSet())
}

// ---------------------------------------------------------------------------
// Resource mutation
// ---------------------------------------------------------------------------

// Pay deducts a cost from the player's resources. The caller must have
// checked Contains first; Pay saturates at zero as a final guard.
func (p *Player) Pay(cost ResourceSet) {
	for i := 0; i < NumResources; i++ {
		if p.Resources[i] < cost[i] {
			p.Resources[i] = 0
			continue
		}
		p.Resources[i] -= cost[i]
	}
}

// Gain credits count units of a resource, clamped to the per-kind limit.
// It returns the amount actually granted.
func (p *Player) Gain(r Resource, count, limit uint8) uint8 {
	if p.Resources[r] >= limit {
		return 0
	}
	granted := count
	if p.Resources[r]+granted > limit {
		granted = limit - p.Resources[r]
	}
	p.Resources[r] += granted
	return granted
}

// OwnsRoadTouching reports whether any of the player's roads touches the
// given vertex.
func (p *Player) OwnsRoadTouching(c Coordinate) bool {
	for _, r := range p.Roads {
		if r.Touches(c) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Longest path search
// ---------------------------------------------------------------------------

// LongestPath returns the maximum length (in edges) of a trail through
// the player's road network: every edge is tried as a root and the walk
// extends through edges sharing an endpoint, never reusing an edge.
// The search is exponential in road count, which is acceptable only
// because roads are capped at MaxRoads (15).
func (p *Player) LongestPath() int {
	n := len(p.Roads)
	if n == 0 {
		return 0
	}
	used := make([]bool, n)
	best := 0
	for i := 0; i < n; i++ {
		used[i] = true
		// A road can be walked starting from either endpoint.
		for _, start := range [2]Coordinate{p.Roads[i].End, p.Roads[i].Start} {
			if l := p.extendPath(used, start, 1); l > best {
				best = l
			}
		}
		used[i] = false
	}
	return best
}

// extendPath continues the trail from the open endpoint at.
func (p *Player) extendPath(used []bool, at Coordinate, length int) int {
	best := length
	for i, r := range p.Roads {
		if used[i] || !r.Touches(at) {
			continue
		}
		next := r.Start
		if next == at {
			next = r.End
		}
		used[i] = true
		if l := p.extendPath(used, next, length+1); l > best {
			best = l
		}
		used[i] = false
	}
	return best
}
