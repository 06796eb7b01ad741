package market

import "errors"

var (
	// ErrInvalidReserve is returned when a pricing formula would divide
	// by a zero reserve.
	ErrInvalidReserve = errors.New("invalid reserve")

	// ErrInsufficientLiquidity is returned when a requested output
	// meets or exceeds the pool's output-side reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrUnsupportedToken is returned when a token is not one of the
	// pool's two tokens.
	ErrUnsupportedToken = errors.New("unsupported token")

	// ErrInvalidAmount is returned for non-positive swap amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMalformedMarket is returned when a market's token pair does
	// not contain the pivot asset exactly once.
	ErrMalformedMarket = errors.New("malformed market")
)
