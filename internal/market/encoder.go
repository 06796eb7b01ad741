package market

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const pairABIJSON = `[
  {
    "inputs": [
      {"internalType": "uint256", "name": "amount0Out", "type": "uint256"},
      {"internalType": "uint256", "name": "amount1Out", "type": "uint256"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "bytes", "name": "data", "type": "bytes"}
    ],
    "name": "swap",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	pairABI     abi.ABI
	pairABIOnce sync.Once
	pairABIErr  error
)

// PairABI returns the parsed pair contract ABI.
func PairABI() (abi.ABI, error) {
	pairABIOnce.Do(func() {
		pairABI, pairABIErr = abi.JSON(strings.NewReader(pairABIJSON))
	})
	return pairABI, pairABIErr
}

// PairSwapEncoder encodes swap(uint256,uint256,address,bytes) calls
// against a constant-product pair contract.
type PairSwapEncoder struct{}

func (PairSwapEncoder) EncodeSwap(amount0Out, amount1Out *big.Int, to common.Address, data []byte) ([]byte, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	packed, err := parsed.Pack("swap", amount0Out, amount1Out, to, data)
	if err != nil {
		return nil, fmt.Errorf("pack swap: %w", err)
	}
	return packed, nil
}
