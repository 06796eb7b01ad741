// Package reserve refreshes market reserves from the batch query
// contract.
package reserve

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"marketGraph/internal/market"
)

// ErrSyncUnavailable is returned when the batched reserve query fails.
var ErrSyncUnavailable = errors.New("reserve sync unavailable")

// Query is the batched reserve lookup. The response must be ordered
// identically to the request.
type Query interface {
	ReservesByPairs(ctx context.Context, pairs []common.Address) ([][2]*big.Int, error)
}

// Sync issues one batched reserve query and applies the balances back
// onto each market positionally. On failure no market is mutated.
func Sync(ctx context.Context, query Query, markets []market.Market) error {
	if len(markets) == 0 {
		return nil
	}

	pairs := make([]common.Address, len(markets))
	for i, m := range markets {
		pairs[i] = m.Address()
	}

	balances, err := query.ReservesByPairs(ctx, pairs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncUnavailable, err)
	}
	if len(balances) != len(markets) {
		return fmt.Errorf("%w: got %d reserve rows for %d pairs", ErrSyncUnavailable, len(balances), len(markets))
	}

	for i, m := range markets {
		m.SetReserves(balances[i])
	}
	return nil
}
