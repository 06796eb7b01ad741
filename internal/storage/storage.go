package storage

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"marketGraph/internal/model"
)

// PairStore persists discovered pair records so re-runs skip pairs
// already seen.
type PairStore interface {
	Exists(ctx context.Context, pair common.Address) (bool, error)
	Save(ctx context.Context, record model.PairRecord) error
}
