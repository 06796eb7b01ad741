package market

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPairSwapEncoderSelector(t *testing.T) {
	encoder := PairSwapEncoder{}

	data, err := encoder.EncodeSwap(big.NewInt(0), big.NewInt(453), testNext, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// swap(uint256,uint256,address,bytes) selector.
	selector := []byte{0x02, 0x2c, 0x0d, 0x9f}
	if !bytes.HasPrefix(data, selector) {
		t.Fatalf("call data selector = %x, want %x", data[:4], selector)
	}

	// Static head: selector + 4 words, then the empty bytes tail.
	if len(data) <= 4+4*32 {
		t.Fatalf("call data too short: %d bytes", len(data))
	}
}

func TestPairSwapEncoderRecipient(t *testing.T) {
	encoder := PairSwapEncoder{}
	recipient := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	data, err := encoder.EncodeSwap(big.NewInt(1), big.NewInt(0), recipient, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Third argument word carries the right-padded recipient address.
	word := data[4+2*32 : 4+3*32]
	if !bytes.Equal(word[12:], recipient.Bytes()) {
		t.Fatalf("recipient word = %x, want %x", word[12:], recipient.Bytes())
	}
}
