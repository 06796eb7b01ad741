package config

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress validates and parses one hex address.
func ParseAddress(input string) (common.Address, error) {
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %q", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAddresses validates and parses a list of hex addresses.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		address, err := ParseAddress(input)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// ParseWei parses a non-negative decimal wei amount.
func ParseWei(input string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(input, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount: %q", input)
	}
	return value, nil
}
