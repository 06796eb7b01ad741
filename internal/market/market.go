package market

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call is one low-level call to be executed on-chain.
type Call struct {
	Target common.Address
	Data   []byte
}

// Market is one two-asset pool that can price swaps and build the call
// data to execute them. PairPool is the constant-product variant; other
// AMM dialects slot in as additional implementations.
type Market interface {
	Address() common.Address
	Tokens() [2]common.Address
	Protocol() string

	// ReceiveDirectly reports whether funds in token can be sent
	// straight to the pool by an upstream hop.
	ReceiveDirectly(token common.Address) bool

	// PrepareReceive returns the calls a hop must execute before
	// transferring amountIn of token to the pool.
	PrepareReceive(token common.Address, amountIn *big.Int) ([]Call, error)

	GetTokensOut(tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error)
	GetTokensIn(tokenIn, tokenOut common.Address, amountOut *big.Int) (*big.Int, error)

	// SetReserves replaces both balances in token order and reports
	// whether the stored values changed.
	SetReserves(balances [2]*big.Int) bool

	// Reserve returns the pool's balance of token.
	Reserve(token common.Address) (*big.Int, bool)

	SwapCallData(tokenIn common.Address, amountIn *big.Int, recipient common.Address) ([]byte, error)
	HopCallData(tokenIn common.Address, amountIn *big.Int, next Market) (Call, error)
}

// SwapEncoder turns a structured swap intent into opaque call bytes.
type SwapEncoder interface {
	EncodeSwap(amount0Out, amount1Out *big.Int, to common.Address, data []byte) ([]byte, error)
}

// PairPool is a constant-product pool. Reserves are held as an ordered
// pair matching the token order, so the two-balances invariant holds by
// construction. SetReserves is the only mutator and must not be called
// concurrently for the same pool.
type PairPool struct {
	address  common.Address
	tokens   [2]common.Address
	protocol string
	reserves [2]*big.Int
	encoder  SwapEncoder
}

// NewPairPool creates a pool with zero reserves in the token order
// reported by the registry.
func NewPairPool(address, token0, token1 common.Address, protocol string, encoder SwapEncoder) *PairPool {
	return &PairPool{
		address:  address,
		tokens:   [2]common.Address{token0, token1},
		protocol: protocol,
		reserves: [2]*big.Int{new(big.Int), new(big.Int)},
		encoder:  encoder,
	}
}

func (p *PairPool) Address() common.Address   { return p.address }
func (p *PairPool) Tokens() [2]common.Address { return p.tokens }
func (p *PairPool) Protocol() string          { return p.protocol }

func (p *PairPool) ReceiveDirectly(token common.Address) bool {
	return token == p.tokens[0] || token == p.tokens[1]
}

// PrepareReceive validates the transfer; a constant-product pool needs
// no setup calls before receiving tokens.
func (p *PairPool) PrepareReceive(token common.Address, amountIn *big.Int) ([]Call, error) {
	if !p.ReceiveDirectly(token) {
		return nil, fmt.Errorf("%w: %s not traded by pool %s", ErrUnsupportedToken, token.Hex(), p.address.Hex())
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount in must be positive", ErrInvalidAmount)
	}
	return []Call{}, nil
}

func (p *PairPool) reserveOf(token common.Address) (*big.Int, bool) {
	switch token {
	case p.tokens[0]:
		return p.reserves[0], true
	case p.tokens[1]:
		return p.reserves[1], true
	default:
		return nil, false
	}
}

// Reserve returns the pool's current balance of token.
func (p *PairPool) Reserve(token common.Address) (*big.Int, bool) {
	r, ok := p.reserveOf(token)
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(r), true
}

func (p *PairPool) GetTokensOut(tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	reserveIn, ok := p.reserveOf(tokenIn)
	if !ok {
		return nil, fmt.Errorf("%w: token in %s", ErrUnsupportedToken, tokenIn.Hex())
	}
	reserveOut, ok := p.reserveOf(tokenOut)
	if !ok {
		return nil, fmt.Errorf("%w: token out %s", ErrUnsupportedToken, tokenOut.Hex())
	}
	return GetAmountOut(reserveIn, reserveOut, amountIn)
}

func (p *PairPool) GetTokensIn(tokenIn, tokenOut common.Address, amountOut *big.Int) (*big.Int, error) {
	reserveIn, ok := p.reserveOf(tokenIn)
	if !ok {
		return nil, fmt.Errorf("%w: token in %s", ErrUnsupportedToken, tokenIn.Hex())
	}
	reserveOut, ok := p.reserveOf(tokenOut)
	if !ok {
		return nil, fmt.Errorf("%w: token out %s", ErrUnsupportedToken, tokenOut.Hex())
	}
	return GetAmountIn(reserveIn, reserveOut, amountOut)
}

// SetReserves replaces both balances in token order. Equal values are a
// no-op and report no change.
func (p *PairPool) SetReserves(balances [2]*big.Int) bool {
	changed := false
	for i, balance := range balances {
		if balance == nil {
			balance = new(big.Int)
		}
		if p.reserves[i].Cmp(balance) != 0 {
			p.reserves[i] = new(big.Int).Set(balance)
			changed = true
		}
	}
	return changed
}

// SwapCallData builds the pool's swap call. The computed output fills
// the slot opposite tokenIn in the pool's canonical token order.
func (p *PairPool) SwapCallData(tokenIn common.Address, amountIn *big.Int, recipient common.Address) ([]byte, error) {
	amount0Out := new(big.Int)
	amount1Out := new(big.Int)

	switch tokenIn {
	case p.tokens[0]:
		out, err := p.GetTokensOut(tokenIn, p.tokens[1], amountIn)
		if err != nil {
			return nil, err
		}
		amount1Out = out
	case p.tokens[1]:
		out, err := p.GetTokensOut(tokenIn, p.tokens[0], amountIn)
		if err != nil {
			return nil, err
		}
		amount0Out = out
	default:
		return nil, fmt.Errorf("%w: token in %s", ErrUnsupportedToken, tokenIn.Hex())
	}

	return p.encoder.EncodeSwap(amount0Out, amount1Out, recipient, nil)
}

// HopCallData builds the call for one leg of a multi-pool route. Output
// is always routed straight to the next pool's address; the next pool's
// receive policy does not change the route today.
func (p *PairPool) HopCallData(tokenIn common.Address, amountIn *big.Int, next Market) (Call, error) {
	data, err := p.SwapCallData(tokenIn, amountIn, next.Address())
	if err != nil {
		return Call{}, err
	}
	return Call{Target: p.address, Data: data}, nil
}
