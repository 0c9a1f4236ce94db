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
	"sync"
)

// MemoryStore is a map-backed Store for tests and dev mode. Documents are
// round-tripped through JSON so callers see the same loosely-typed shapes
// (map[string]any, float64 numbers) the persistent stores produce.
type MemoryStore struct {
	state       map[string][]byte
	checkpoints map[string][]byte
	mu          sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state:       make(map[string][]byte),
		checkpoints: make(map[string][]byte),
	}
}

func (s *MemoryStore) LoadState(
	_ context.Context,
	key string,
) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeDoc(s.state[key])
}

func (s *MemoryStore) SaveState(
	_ context.Context,
	key string,
	data map[string]any,
) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = doc
	return nil
}

func (s *MemoryStore) LoadCheckpoint(
	_ context.Context,
	key string,
) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeDoc(s.checkpoints[key])
}

func (s *MemoryStore) SaveCheckpoint(
	_ context.Context,
	key string,
	data map[string]any,
) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[key] = doc
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func decodeDoc(doc []byte) (map[string]any, error) {
	if doc == nil {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, err
	}
	return data, nil
}
