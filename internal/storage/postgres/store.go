package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketGraph/internal/model"
)

// Store provides Postgres persistence for discovered pairs.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Exists reports whether a record for the pair address is present.
func (s *Store) Exists(ctx context.Context, pair common.Address) (bool, error) {
	var one int
	row := s.pool.QueryRow(ctx, `SELECT 1 FROM pairs WHERE pair_address=$1`, strings.ToLower(pair.Hex()))
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Save upserts a pair record keyed by pair address.
func (s *Store) Save(ctx context.Context, record model.PairRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pairs (pair_address, token0, token1, factory_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (pair_address) DO UPDATE
		SET updated_at = now()
	`,
		record.PairAddress,
		record.Token0,
		record.Token1,
		record.FactoryAddress,
	)
	return err
}
