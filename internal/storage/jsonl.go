package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"marketGraph/internal/model"
)

// JsonlStore keeps pair records in an append-only JSONL file with an
// in-memory address set for existence checks. Dev and test path; the
// Postgres store is the production one.
type JsonlStore struct {
	path string
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewJsonlStore opens the store, loading any existing records.
func NewJsonlStore(path string) (*JsonlStore, error) {
	store := &JsonlStore{path: path, seen: make(map[string]struct{})}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("open pairs file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record model.PairRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parse pairs file: %w", err)
		}
		store.seen[strings.ToLower(record.PairAddress)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pairs file: %w", err)
	}

	return store, nil
}

func (s *JsonlStore) Exists(_ context.Context, pair common.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[strings.ToLower(pair.Hex())]
	return ok, nil
}

// Save appends the record as one JSON line.
func (s *JsonlStore) Save(_ context.Context, record model.PairRecord) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create pairs dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open pairs file: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal pair record: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write pair record: %w", err)
	}

	s.seen[strings.ToLower(record.PairAddress)] = struct{}{}
	return nil
}
