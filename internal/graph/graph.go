// Package graph groups discovered markets into a pivot-keyed market
// graph and applies the pre-sync and liquidity filters.
package graph

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"marketGraph/internal/market"
)

// MarketGraph maps every non-pivot asset to the markets trading it
// against the pivot.
type MarketGraph map[common.Address][]market.Market

// GroupByNonPivot buckets markets by whichever of their two tokens is
// not the pivot. A market containing the pivot zero or two times is
// malformed.
func GroupByNonPivot(pivot common.Address, markets []market.Market) (MarketGraph, error) {
	grouped := make(MarketGraph)
	for _, m := range markets {
		token, err := nonPivotToken(pivot, m)
		if err != nil {
			return nil, err
		}
		grouped[token] = append(grouped[token], m)
	}
	return grouped, nil
}

// SyncCandidates flattens the graph, dropping every single-market
// bucket: an asset reachable through one pool offers no cross-pool
// spread, so refreshing its reserves is wasted work.
func (g MarketGraph) SyncCandidates() []market.Market {
	candidates := make([]market.Market, 0)
	for _, markets := range g {
		if len(markets) < 2 {
			continue
		}
		candidates = append(candidates, markets...)
	}
	return candidates
}

// Markets flattens the graph into one market list.
func (g MarketGraph) Markets() []market.Market {
	all := make([]market.Market, 0)
	for _, markets := range g {
		all = append(all, markets...)
	}
	return all
}

// FilterByLiquidity keeps markets whose pivot-side reserve exceeds
// floor and regroups them by non-pivot asset. Singleton buckets are
// kept here; the pre-sync drop already happened.
func FilterByLiquidity(pivot common.Address, markets []market.Market, floor *big.Int) (MarketGraph, error) {
	kept := make([]market.Market, 0, len(markets))
	for _, m := range markets {
		reserve, ok := m.Reserve(pivot)
		if !ok {
			return nil, fmt.Errorf("%w: pool %s has no pivot reserve", market.ErrMalformedMarket, m.Address().Hex())
		}
		if reserve.Cmp(floor) > 0 {
			kept = append(kept, m)
		}
	}
	return GroupByNonPivot(pivot, kept)
}

func nonPivotToken(pivot common.Address, m market.Market) (common.Address, error) {
	tokens := m.Tokens()
	switch {
	case tokens[0] == pivot && tokens[1] != pivot:
		return tokens[1], nil
	case tokens[1] == pivot && tokens[0] != pivot:
		return tokens[0], nil
	default:
		return common.Address{}, fmt.Errorf("%w: pool %s tokens %s/%s", market.ErrMalformedMarket,
			m.Address().Hex(), tokens[0].Hex(), tokens[1].Hex())
	}
}
