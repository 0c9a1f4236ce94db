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

package event

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()
	_, ch := bus.Subscribe("test.event")
	bus.Publish("test.event", NewEvent("test.event", "payload"))
	select {
	case evt := <-ch:
		if evt.Data != "payload" {
			t.Fatalf("unexpected event data: %v", evt.Data)
		}
		if evt.Type != "test.event" {
			t.Fatalf("unexpected event type: %v", evt.Type)
		}
		if evt.Timestamp.IsZero() {
			t.Fatalf("expected event timestamp to be set")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()
	// Must not block or panic
	bus.Publish("test.unheard", NewEvent("test.unheard", nil))
}

func TestSubscribeFunc(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()
	var count atomic.Int64
	done := make(chan struct{})
	bus.SubscribeFunc("test.event", func(evt Event) {
		if count.Add(1) == 2 {
			close(done)
		}
	})
	bus.Publish("test.event", NewEvent("test.event", 1))
	bus.Publish("test.event", NewEvent("test.event", 2))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for handler calls, got %d", count.Load())
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()
	subId, ch := bus.Subscribe("test.event")
	bus.Unsubscribe("test.event", subId)
	if _, ok := <-ch; ok {
		t.Fatalf("expected subscriber channel to be closed")
	}
	// Publishing after unsubscribe must not block
	bus.Publish("test.event", NewEvent("test.event", nil))
}

func TestPublishAsync(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()
	received := make(chan Event, 1)
	bus.SubscribeFunc("test.async", func(evt Event) {
		received <- evt
	})
	if !bus.PublishAsync("test.async", NewEvent("test.async", "x")) {
		t.Fatalf("expected async publish to be accepted")
	}
	select {
	case evt := <-received:
		if evt.Data != "x" {
			t.Fatalf("unexpected event data: %v", evt.Data)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for async event")
	}
}

func TestPublishAsyncAfterStop(t *testing.T) {
	bus := NewEventBus(nil, nil)
	bus.Stop()
	if bus.PublishAsync("test.event", NewEvent("test.event", nil)) {
		t.Fatalf("expected async publish to be rejected after stop")
	}
}

func TestPublishConcurrentWithStop(t *testing.T) {
	// Stop and Unsubscribe close subscriber channels while publishers are
	// racing them; no send may hit a closed channel
	bus := NewEventBus(nil, nil)
	subId, ch := bus.Subscribe("test.event")
	go func() {
		for range ch {
		}
	}()
	bus.SubscribeFunc("test.event", func(Event) {})
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				bus.Publish("test.event", NewEvent("test.event", nil))
			}
		}()
	}
	bus.Unsubscribe("test.event", subId)
	bus.Stop()
	wg.Wait()
}

func TestStopIdempotent(t *testing.T) {
	bus := NewEventBus(nil, nil)
	bus.Stop()
	bus.Stop()
}
