package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"marketGraph/internal/model"
)

func TestJsonlStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.jsonl")
	pair := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	store, err := NewJsonlStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	exists, err := store.Exists(context.Background(), pair)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("empty store reports pair as existing")
	}

	record := model.PairRecord{
		PairAddress:    "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Token0:         "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		Token1:         "0x1111111111111111111111111111111111111111",
		FactoryAddress: "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
	}
	if err := store.Save(context.Background(), record); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err = store.Exists(context.Background(), pair)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("saved pair not found")
	}

	// Simulate a process restart.
	reopened, err := NewJsonlStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	exists, err = reopened.Exists(context.Background(), pair)
	if err != nil {
		t.Fatalf("exists after reopen: %v", err)
	}
	if !exists {
		t.Fatalf("pair record lost across reopen")
	}

	other := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	exists, err = reopened.Exists(context.Background(), other)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("unknown pair reported as existing")
	}
}
