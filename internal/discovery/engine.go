// Package discovery pages factory pair registries and assembles the
// market graph handed to the arbitrage search.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketGraph/internal/graph"
	"marketGraph/internal/market"
	"marketGraph/internal/model"
	"marketGraph/internal/reserve"
	"marketGraph/internal/storage"
)

// ErrLookupUnavailable is returned when the pair registry query fails.
var ErrLookupUnavailable = errors.New("pair lookup unavailable")

// PairLookup is the paginated pair registry query. Indexes are
// half-open: [start, stop).
type PairLookup interface {
	PairsByIndexRange(ctx context.Context, factory common.Address, start, stop uint64) ([]model.RawPair, error)
}

// Config holds discovery settings.
type Config struct {
	// Pivot is the asset every pool must trade against.
	Pivot common.Address

	// BatchSize is the number of registry entries requested per page.
	BatchSize uint64

	// MaxBatches bounds the pages fetched per factory so startup
	// terminates against very large registries.
	MaxBatches int

	// LiquidityFloor is the minimum pivot-side reserve, exclusive.
	LiquidityFloor *big.Int

	// Denylist holds tokens whose pools are never discovered.
	Denylist []common.Address

	// Protocol tags constructed markets, bookkeeping only.
	Protocol string
}

// Engine discovers constant-product pools factory by factory.
type Engine struct {
	cfg      Config
	lookup   PairLookup
	query    reserve.Query
	store    storage.PairStore
	encoder  market.SwapEncoder
	logger   *zap.Logger
	denylist map[common.Address]struct{}
}

func NewEngine(cfg Config, lookup PairLookup, query reserve.Query, store storage.PairStore, encoder market.SwapEncoder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	denylist := make(map[common.Address]struct{}, len(cfg.Denylist))
	for _, token := range cfg.Denylist {
		denylist[token] = struct{}{}
	}
	return &Engine{
		cfg:      cfg,
		lookup:   lookup,
		query:    query,
		store:    store,
		encoder:  encoder,
		logger:   logger,
		denylist: denylist,
	}
}

// DiscoverMarkets pages one factory's registry and returns the pools
// that trade the pivot, skipping denylisted tokens and pairs already
// recorded in the pair store. A lookup failure aborts the whole call.
func (e *Engine) DiscoverMarkets(ctx context.Context, factory common.Address) ([]market.Market, error) {
	if e.cfg.BatchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}

	markets := make([]market.Market, 0)
	seen := make(map[common.Address]struct{})

	for batch := 0; batch < e.cfg.MaxBatches; batch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := uint64(batch) * e.cfg.BatchSize
		stop := start + e.cfg.BatchSize

		pairs, err := e.lookup.PairsByIndexRange(ctx, factory, start, stop)
		if err != nil {
			return nil, fmt.Errorf("%w: factory %s range [%d,%d): %v", ErrLookupUnavailable, factory.Hex(), start, stop, err)
		}

		for _, pair := range pairs {
			keep, err := e.admitPair(ctx, factory, pair, seen)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
			markets = append(markets, market.NewPairPool(pair.Pair, pair.Token0, pair.Token1, e.cfg.Protocol, e.encoder))
		}

		// A short page means the registry is exhausted.
		if uint64(len(pairs)) < e.cfg.BatchSize {
			break
		}
	}

	e.logger.Info("factory discovered", zap.String("factory", factory.Hex()), zap.Int("markets", len(markets)))
	return markets, nil
}

func (e *Engine) admitPair(ctx context.Context, factory common.Address, pair model.RawPair, seen map[common.Address]struct{}) (bool, error) {
	pivot0 := pair.Token0 == e.cfg.Pivot
	pivot1 := pair.Token1 == e.cfg.Pivot
	if pivot0 == pivot1 {
		return false, nil
	}

	other := pair.Token0
	if pivot0 {
		other = pair.Token1
	}
	if _, banned := e.denylist[other]; banned {
		e.logger.Debug("denylisted token skipped", zap.String("token", other.Hex()), zap.String("pair", pair.Pair.Hex()))
		return false, nil
	}

	if _, dup := seen[pair.Pair]; dup {
		return false, nil
	}
	seen[pair.Pair] = struct{}{}

	exists, err := e.store.Exists(ctx, pair.Pair)
	if err != nil {
		return false, fmt.Errorf("pair store lookup %s: %w", pair.Pair.Hex(), err)
	}
	if exists {
		return false, nil
	}

	record := model.PairRecord{
		PairAddress:    strings.ToLower(pair.Pair.Hex()),
		Token0:         strings.ToLower(pair.Token0.Hex()),
		Token1:         strings.ToLower(pair.Token1.Hex()),
		FactoryAddress: strings.ToLower(factory.Hex()),
	}
	if err := e.store.Save(ctx, record); err != nil {
		return false, fmt.Errorf("pair store save %s: %w", pair.Pair.Hex(), err)
	}
	return true, nil
}

// DiscoverAllMarkets fans discovery out across factories, then builds
// the market graph: group by non-pivot asset, drop single-pool assets,
// sync reserves in one batch, and apply the liquidity floor. A single
// factory failure fails the whole bootstrap; callers wanting per-factory
// isolation run factories through separate calls.
func (e *Engine) DiscoverAllMarkets(ctx context.Context, factories []common.Address) (graph.MarketGraph, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([][]market.Market, len(factories))

	for i, factory := range factories {
		i, factory := i, factory
		g.Go(func() error {
			markets, err := e.DiscoverMarkets(ctx, factory)
			if err != nil {
				return err
			}
			results[i] = markets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]market.Market, 0)
	for _, markets := range results {
		all = append(all, markets...)
	}

	grouped, err := graph.GroupByNonPivot(e.cfg.Pivot, all)
	if err != nil {
		return nil, err
	}
	candidates := grouped.SyncCandidates()

	if err := reserve.Sync(ctx, e.query, candidates); err != nil {
		return nil, err
	}

	final, err := graph.FilterByLiquidity(e.cfg.Pivot, candidates, e.cfg.LiquidityFloor)
	if err != nil {
		return nil, err
	}

	e.logger.Info("market graph built",
		zap.Int("discovered", len(all)),
		zap.Int("candidates", len(candidates)),
		zap.Int("tokens", len(final)),
		zap.Int("markets", len(final.Markets())),
	)
	return final, nil
}
