package model

import "github.com/ethereum/go-ethereum/common"

// RawPair is one registry entry returned by the batch pair query:
// the pair's two tokens in canonical order plus the pair address.
type RawPair struct {
	Token0 common.Address
	Token1 common.Address
	Pair   common.Address
}

// PairRecord is a discovered pair persisted for idempotent re-runs.
// Addresses are stored as lowercase hex.
type PairRecord struct {
	PairAddress    string `json:"pair_address"`
	Token0         string `json:"token0"`
	Token1         string `json:"token1"`
	FactoryAddress string `json:"factory_address"`
}
