package chain

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI of the deployed batch query contract, which reads a factory's
// pair registry and pair reserves in single calls.
const batchQueryABIJSON = `[
  {
    "inputs": [
      {"internalType": "contract UniswapV2Factory", "name": "_uniswapFactory", "type": "address"},
      {"internalType": "uint256", "name": "_start", "type": "uint256"},
      {"internalType": "uint256", "name": "_stop", "type": "uint256"}
    ],
    "name": "getPairsByIndexRange",
    "outputs": [{"internalType": "address[3][]", "name": "", "type": "address[3][]"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "contract IUniswapV2Pair[]", "name": "_pairs", "type": "address[]"}
    ],
    "name": "getReservesByPairs",
    "outputs": [{"internalType": "uint256[3][]", "name": "", "type": "uint256[3][]"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	batchQueryABI     abi.ABI
	batchQueryABIOnce sync.Once
	batchQueryABIErr  error
)

// BatchQueryABI returns the parsed batch query contract ABI.
func BatchQueryABI() (abi.ABI, error) {
	batchQueryABIOnce.Do(func() {
		batchQueryABI, batchQueryABIErr = abi.JSON(strings.NewReader(batchQueryABIJSON))
	})
	return batchQueryABI, batchQueryABIErr
}
