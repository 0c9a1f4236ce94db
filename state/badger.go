// Copyright 2026 Quorum Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
)

const (
	badgerStatePrefix      = "state:"
	badgerCheckpointPrefix = "checkpoint:"
)

// BadgerStoreConfig holds BadgerStore construction parameters
type BadgerStoreConfig struct {
	// DataDir is the persistent data directory. Empty uses an in-memory
	// database, useful for testing
	DataDir string
	Logger  *slog.Logger
}

// BadgerStore is a Badger-backed Store
type BadgerStore struct {
	db      *badger.DB
	logger  *slog.Logger
	dataDir string
}

// NewBadgerStore creates a BadgerStore. Uses an in-memory database if
// DataDir is empty.
func NewBadgerStore(config BadgerStoreConfig) (*BadgerStore, error) {
	s := &BadgerStore{
		dataDir: config.DataDir,
		logger:  config.Logger,
	}
	if s.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var badgerOpts badger.Options
	if config.DataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithLogger(newBadgerLogger(s.logger)).
			// The default INFO logging is a bit verbose
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true)
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(config.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		stateDir := filepath.Join(config.DataDir, "state")
		badgerOpts = badger.DefaultOptions(stateDir).
			WithLogger(newBadgerLogger(s.logger)).
			WithLoggingLevel(badger.WARNING)
	}
	stateDb, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	s.db = stateDb
	return s, nil
}

func (s *BadgerStore) LoadState(
	ctx context.Context,
	key string,
) (map[string]any, error) {
	return s.load(ctx, badgerStatePrefix+key)
}

func (s *BadgerStore) SaveState(
	ctx context.Context,
	key string,
	data map[string]any,
) error {
	return s.save(ctx, badgerStatePrefix+key, data)
}

func (s *BadgerStore) LoadCheckpoint(
	ctx context.Context,
	key string,
) (map[string]any, error) {
	return s.load(ctx, badgerCheckpointPrefix+key)
}

func (s *BadgerStore) SaveCheckpoint(
	ctx context.Context,
	key string,
	data map[string]any,
) error {
	return s.save(ctx, badgerCheckpointPrefix+key, data)
}

func (s *BadgerStore) load(
	ctx context.Context,
	key string,
) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		doc, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeDoc(doc)
}

func (s *BadgerStore) save(
	ctx context.Context,
	key string,
	data map[string]any,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), doc)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
