package market

import (
	"fmt"
	"math/big"
)

// Constant-product fee, 0.3% taken on the input side.
const (
	feeNumerator   = 997
	feeDenominator = 1000
)

// GetAmountOut prices an exact-input swap against a constant-product
// pool: floor(amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997)).
func GetAmountOut(reserveIn, reserveOut, amountIn *big.Int) (*big.Int, error) {
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reserves must be positive", ErrInvalidReserve)
	}
	if amountIn == nil || amountIn.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount in must be non-negative", ErrInvalidAmount)
	}

	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(feeNumerator))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, big.NewInt(feeDenominator))
	denominator.Add(denominator, amountInWithFee)

	return numerator.Div(numerator, denominator), nil
}

// GetAmountIn prices an exact-output swap. The +1 rounds in the caller's
// favor, matching the pair contract's rounding so the computed input
// never under-delivers the requested output.
func GetAmountIn(reserveIn, reserveOut, amountOut *big.Int) (*big.Int, error) {
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reserves must be positive", ErrInvalidReserve)
	}
	if amountOut == nil || amountOut.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount out must be non-negative", ErrInvalidAmount)
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, fmt.Errorf("%w: amount out %s >= reserve %s", ErrInsufficientLiquidity, amountOut, reserveOut)
	}

	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, big.NewInt(feeDenominator))
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, big.NewInt(feeNumerator))

	amountIn := numerator.Div(numerator, denominator)
	return amountIn.Add(amountIn, big.NewInt(1)), nil
}
