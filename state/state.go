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

// Package state provides the agent's persistence boundary: a key-value
// store of JSON documents with separate checkpoint semantics. Three
// implementations are provided: in-memory (tests, dev mode), SQLite
// (default) and Badger.
package state

import "context"

// Store is the persistence contract consumed by the agent. State documents
// hold the rolling voting history and similar working data; checkpoints are
// run-level snapshots kept for crash recovery and audit. A missing key
// loads as (nil, nil), not an error. Serializability across concurrent
// writers is the store's concern, not the agent's: a single run performs a
// plain read-modify-write and last writer wins.
type Store interface {
	LoadState(ctx context.Context, key string) (map[string]any, error)
	SaveState(ctx context.Context, key string, data map[string]any) error
	LoadCheckpoint(ctx context.Context, key string) (map[string]any, error)
	SaveCheckpoint(ctx context.Context, key string, data map[string]any) error
	Close() error
}

// Plugin names for store selection in configuration
const (
	PluginSqlite = "sqlite"
	PluginBadger = "badger"
	PluginMemory = "memory"
)
