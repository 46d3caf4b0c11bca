package engine

// Bonus awards: longest road and largest army, each worth two points and
// held by at most one player at a time. The bonus transfers only to a
// strictly better challenger; equal claims never move it.

const (
	bonusScore        = 2
	longestRoadMinLen = 5
	largestArmyMinUse = 3
)

// reevaluateLongestRoad re-checks the longest-road award for a player
// whose road network just changed. Called once per turn, at end of turn.
func (g *Game) reevaluateLongestRoad(challenger *Player) {
	length := challenger.LongestPath()
	if length < longestRoadMinLen {
		return
	}
	if g.longestRoadHolder == challenger.Index {
		return
	}
	if g.longestRoadHolder >= 0 {
		holder := g.Players[g.longestRoadHolder]
		if length <= holder.LongestPath() {
			return
		}
		holder.LongestRoad = false
		holder.Score -= bonusScore
	}
	g.longestRoadHolder = challenger.Index
	challenger.LongestRoad = true
	challenger.Score += bonusScore
}

// reevaluateLargestArmy re-checks the largest-army award immediately
// after a Knight card is used.
func (g *Game) reevaluateLargestArmy(challenger *Player) {
	if challenger.KnightsUsed < largestArmyMinUse {
		return
	}
	if g.largestArmyHolder == challenger.Index {
		return
	}
	if g.largestArmyHolder >= 0 {
		holder := g.Players[g.largestArmyHolder]
		if challenger.KnightsUsed <= holder.KnightsUsed {
			return
		}
		holder.LargestArmy = false
		holder.Score -= bonusScore
	}
	g.largestArmyHolder = challenger.Index
	challenger.LargestArmy = true
	challenger.Score += bonusScore
}
