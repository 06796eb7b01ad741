package market

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var _ Market = (*PairPool)(nil)

var (
	testWETH  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testToken = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testOther = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testPool  = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testNext  = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

// fakeEncoder records the swap intent it was asked to encode.
type fakeEncoder struct {
	amount0Out *big.Int
	amount1Out *big.Int
	to         common.Address
	calls      int
}

func (f *fakeEncoder) EncodeSwap(amount0Out, amount1Out *big.Int, to common.Address, data []byte) ([]byte, error) {
	f.amount0Out = amount0Out
	f.amount1Out = amount1Out
	f.to = to
	f.calls++
	return []byte{0x01}, nil
}

func newTestPool(encoder SwapEncoder) *PairPool {
	pool := NewPairPool(testPool, testWETH, testToken, "uniswap-v2", encoder)
	pool.SetReserves([2]*big.Int{big.NewInt(10), big.NewInt(5000)})
	return pool
}

func TestSetReservesIdempotent(t *testing.T) {
	pool := NewPairPool(testPool, testWETH, testToken, "uniswap-v2", nil)

	if changed := pool.SetReserves([2]*big.Int{big.NewInt(100), big.NewInt(200)}); !changed {
		t.Fatalf("first SetReserves reported no change")
	}
	if changed := pool.SetReserves([2]*big.Int{big.NewInt(100), big.NewInt(200)}); changed {
		t.Fatalf("identical SetReserves reported a change")
	}

	reserve, ok := pool.Reserve(testWETH)
	if !ok || reserve.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("pivot reserve = %v, want 100", reserve)
	}
	reserve, ok = pool.Reserve(testToken)
	if !ok || reserve.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("token reserve = %v, want 200", reserve)
	}
}

func TestGetTokensOut(t *testing.T) {
	pool := newTestPool(nil)

	out, err := pool.GetTokensOut(testWETH, testToken, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Cmp(big.NewInt(453)) != 0 {
		t.Fatalf("tokens out = %s, want 453", out)
	}

	if _, err := pool.GetTokensOut(testOther, testToken, big.NewInt(1)); !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("expected ErrUnsupportedToken, got %v", err)
	}
	if _, err := pool.GetTokensOut(testWETH, testOther, big.NewInt(1)); !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("expected ErrUnsupportedToken, got %v", err)
	}
}

func TestGetTokensIn(t *testing.T) {
	pool := newTestPool(nil)

	in, err := pool.GetTokensIn(testWETH, testToken, big.NewInt(453))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Cmp(big.NewInt(1)) < 0 {
		t.Fatalf("tokens in = %s, want >= 1", in)
	}

	if _, err := pool.GetTokensIn(testWETH, testToken, big.NewInt(5000)); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestReceiveDirectly(t *testing.T) {
	pool := newTestPool(nil)

	if !pool.ReceiveDirectly(testWETH) || !pool.ReceiveDirectly(testToken) {
		t.Fatalf("pool tokens should be receivable directly")
	}
	if pool.ReceiveDirectly(testOther) {
		t.Fatalf("foreign token should not be receivable directly")
	}
}

func TestPrepareReceive(t *testing.T) {
	pool := newTestPool(nil)

	calls, err := pool.PrepareReceive(testWETH, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("constant-product pool should need no pre-calls, got %d", len(calls))
	}

	if _, err := pool.PrepareReceive(testOther, big.NewInt(1)); !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("expected ErrUnsupportedToken, got %v", err)
	}
	if _, err := pool.PrepareReceive(testWETH, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSwapCallDataOutputSlot(t *testing.T) {
	encoder := &fakeEncoder{}
	pool := newTestPool(encoder)

	// Selling token0 fills the token1 output slot.
	if _, err := pool.SwapCallData(testWETH, big.NewInt(1), testNext); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoder.amount0Out.Sign() != 0 {
		t.Fatalf("amount0Out = %s, want 0", encoder.amount0Out)
	}
	if encoder.amount1Out.Cmp(big.NewInt(453)) != 0 {
		t.Fatalf("amount1Out = %s, want 453", encoder.amount1Out)
	}
	if encoder.to != testNext {
		t.Fatalf("recipient = %s, want %s", encoder.to.Hex(), testNext.Hex())
	}

	// Selling token1 fills the token0 output slot.
	if _, err := pool.SwapCallData(testToken, big.NewInt(100), testNext); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoder.amount1Out.Sign() != 0 {
		t.Fatalf("amount1Out = %s, want 0", encoder.amount1Out)
	}
	if encoder.amount0Out.Sign() == 0 {
		t.Fatalf("amount0Out should be non-zero")
	}

	if _, err := pool.SwapCallData(testOther, big.NewInt(1), testNext); !errors.Is(err, ErrUnsupportedToken) {
		t.Fatalf("expected ErrUnsupportedToken, got %v", err)
	}
}

func TestHopCallDataTargetsOwnPool(t *testing.T) {
	encoder := &fakeEncoder{}
	pool := newTestPool(encoder)

	next := NewPairPool(testNext, testWETH, testOther, "uniswap-v2", nil)

	call, err := pool.HopCallData(testWETH, big.NewInt(1), next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.Target != testPool {
		t.Fatalf("call target = %s, want the pool itself %s", call.Target.Hex(), testPool.Hex())
	}
	if encoder.to != testNext {
		t.Fatalf("swap recipient = %s, want next pool %s", encoder.to.Hex(), testNext.Hex())
	}
	if len(call.Data) == 0 {
		t.Fatalf("call data is empty")
	}
}
