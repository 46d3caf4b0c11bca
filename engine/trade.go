package engine

// TradeTarget names the counterparty of a trade request.
type TradeTarget uint8

const (
	TradeBank TradeTarget = iota
	TradeHarbor
	TradePlayer
)

// TradeEntry is one (kind, count) line of a trade request.
type TradeEntry struct {
	Kind  Resource
	Count uint8
}

// TradeRequest is an immutable trade proposal. From lists what the
// proposer gives up, To what they receive. The value is shared by
// broadcast to every recipient, so nothing may mutate it after creation.
type TradeRequest struct {
	From   []TradeEntry
	To     []TradeEntry
	Target TradeTarget
}

// fromSet folds the offered entries into a ResourceSet.
func (t *TradeRequest) fromSet() ResourceSet {
	var s ResourceSet
	for _, e := range t.From {
		s[e.Kind] += e.Count
	}
	return s
}

// toSet folds the requested entries into a ResourceSet.
func (t *TradeRequest) toSet() ResourceSet {
	var s ResourceSet
	for _, e := range t.To {
		s[e.Kind] += e.Count
	}
	return s
}

// CheckValidLocalTrade validates a bank or harbor trade for the given
// player. Player-to-player targets are rejected here; those resolve
// through the negotiation protocol instead.
//
// Bank: every offered kind must be a multiple of 4 and held in full.
// Harbor: each offered kind trades at the best ratio the player's
// harbors grant for it (2 for a matching specific harbor, 3 for an
// "any" harbor); a kind with no applicable harbor is rejected.
// In both cases the requested total must exactly equal the sum of
// offered/ratio across all offered kinds.
func (b *Board) CheckValidLocalTrade(trade *TradeRequest, player *Player) error {
	if trade.Target == TradePlayer {
		return errInvalidTrade("player-to-player trades use the negotiation protocol")
	}
	offered := trade.fromSet()
	if offered.Total() == 0 {
		return errInvalidTrade("nothing offered")
	}
	if !player.Resources.Contains(offered) {
		return errNoResource("not enough resources for the offered side")
	}

	earned := 0
	for r := Resource(0); r < NumResources; r++ {
		count := offered[r]
		if count == 0 {
			continue
		}
		ratio := uint8(4)
		if trade.Target == TradeHarbor {
			ratio = b.HarborRatio(player.Index, r)
			if ratio >= 4 {
				return errInvalidTrade("no harbor held for offered resource " + r.String())
			}
		}
		if count%ratio != 0 {
			return errInvalidTrade("offered count is not a multiple of the trade ratio")
		}
		earned += int(count / ratio)
	}

	if requested := trade.toSet().Total(); requested != earned {
		return errInvalidTrade("requested resources do not match the trade ratio")
	}
	return nil
}
