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
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// AgentState is one persisted state document
type AgentState struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;size:128;not null"`
	Document  []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name
func (AgentState) TableName() string {
	return "agent_state"
}

// AgentCheckpoint is one persisted run checkpoint
type AgentCheckpoint struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;size:128;not null"`
	Document  []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name
func (AgentCheckpoint) TableName() string {
	return "agent_checkpoint"
}

// SqliteStoreConfig holds SqliteStore construction parameters
type SqliteStoreConfig struct {
	// DataDir is the persistent data directory. Empty uses an in-memory
	// database, useful for testing
	DataDir string
	Logger  *slog.Logger
	// Tracing enables the gorm OpenTelemetry plugin
	Tracing bool
}

// SqliteStore is a SQLite-backed Store
type SqliteStore struct {
	db      *gorm.DB
	logger  *slog.Logger
	dataDir string
}

// NewSqliteStore creates a SqliteStore. Uses an in-memory database if
// DataDir is empty.
func NewSqliteStore(config SqliteStoreConfig) (*SqliteStore, error) {
	var stateDb *gorm.DB
	var err error
	if config.DataDir == "" {
		// cache=shared allows multiple connections to share the same
		// in-memory database
		stateDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(config.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(config.DataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		stateDbPath := filepath.Join(config.DataDir, "state.sqlite")
		// WAL journal mode, disable sync on write
		connOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)"
		stateDb, err = gorm.Open(
			sqlite.Open(fmt.Sprintf("file:%s?%s", stateDbPath, connOpts)),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	}
	if config.Tracing {
		if err := stateDb.Use(
			tracing.NewPlugin(tracing.WithoutMetrics()),
		); err != nil {
			return nil, fmt.Errorf("failed to enable gorm tracing: %w", err)
		}
	}
	s := &SqliteStore{
		db:      stateDb,
		dataDir: config.DataDir,
		logger:  config.Logger,
	}
	if s.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	for _, model := range []any{&AgentState{}, &AgentCheckpoint{}} {
		s.logger.Debug(
			fmt.Sprintf("creating table: %#v", model),
			"component", "state",
		)
		if err := s.db.AutoMigrate(model); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *SqliteStore) LoadState(
	ctx context.Context,
	key string,
) (map[string]any, error) {
	var row AgentState
	result := s.db.WithContext(ctx).Where("key = ?", key).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return decodeDoc(row.Document)
}

func (s *SqliteStore) SaveState(
	ctx context.Context,
	key string,
	data map[string]any,
) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}
	row := AgentState{
		Key:       key,
		Document:  doc,
		UpdatedAt: time.Now(),
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row)
	return result.Error
}

func (s *SqliteStore) LoadCheckpoint(
	ctx context.Context,
	key string,
) (map[string]any, error) {
	var row AgentCheckpoint
	result := s.db.WithContext(ctx).Where("key = ?", key).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return decodeDoc(row.Document)
}

func (s *SqliteStore) SaveCheckpoint(
	ctx context.Context,
	key string,
	data map[string]any,
) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}
	row := AgentCheckpoint{
		Key:       key,
		Document:  doc,
		UpdatedAt: time.Now(),
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row)
	return result.Error
}

func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
