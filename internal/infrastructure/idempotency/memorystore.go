// Package idempotency stores order-creation responses by Idempotency-Key so
// a duplicate submit replays the first response instead of creating a second order.
package idempotency

import (
	"context"
	"sync"
	"time"

	"quickpay/internal/shared/goroutine"
	"quickpay/internal/shared/logger"
)

type State string

const (
	StateProcessing State = "PROCESSING"
	StateComplete   State = "COMPLETE"
)

// Entry is a snapshot of a stored key.
type Entry struct {
	State       State
	BodyHash    string
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// MemoryStore is a process-local store. Waiters on a PROCESSING key are woken
// when it completes or is released.
type MemoryStore struct {
	mu     sync.Mutex
	cond   *sync.Cond
	data   map[string]*Entry
	ttl    time.Duration
	now    func() time.Time
	logger logger.Interface
}

func NewMemoryStore(ttl time.Duration, log logger.Interface) *MemoryStore {
	s := &MemoryStore{
		data:   make(map[string]*Entry),
		ttl:    ttl,
		now:    time.Now,
		logger: log,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Begin reserves key for a new request. It returns (nil, true) when the caller
// owns the key, otherwise a copy of the existing entry and false.
func (s *MemoryStore) Begin(key, bodyHash string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.data[key]; ok && !s.expired(existing) {
		cp := *existing
		return &cp, false
	}

	s.data[key] = &Entry{
		State:     StateProcessing,
		BodyHash:  bodyHash,
		CreatedAt: s.now(),
	}
	return nil, true
}

// Wait blocks while key is PROCESSING. It returns nil when the owner released
// the key without completing it.
func (s *MemoryStore) Wait(key string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		entry, ok := s.data[key]
		if !ok {
			return nil
		}
		if entry.State == StateComplete {
			cp := *entry
			return &cp
		}
		s.cond.Wait()
	}
}

// Complete stores the response produced for key.
func (s *MemoryStore) Complete(key string, statusCode int, contentType string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[key]
	if !ok {
		return
	}
	entry.State = StateComplete
	entry.StatusCode = statusCode
	entry.ContentType = contentType
	entry.Body = append([]byte(nil), body...)
	entry.CreatedAt = s.now()
	s.cond.Broadcast()
}

// Release forgets a PROCESSING key so the request can be retried with it.
func (s *MemoryStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.data[key]; ok && entry.State == StateProcessing {
		delete(s.data, key)
	}
	s.cond.Broadcast()
}

// StartSweeper evicts expired entries every interval until ctx is done.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	goroutine.SafeGo(s.logger, "idempotency-sweeper", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := s.sweep(); evicted > 0 {
					s.logger.Debugw("evicted expired idempotency keys", "count", evicted)
				}
			}
		}
	})
}

func (s *MemoryStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, entry := range s.data {
		// in-flight keys are never evicted, their owner still holds them
		if entry.State == StateComplete && s.expired(entry) {
			delete(s.data, key)
			evicted++
		}
	}
	return evicted
}

// expired must be called with mu held.
func (s *MemoryStore) expired(e *Entry) bool {
	return e.State == StateComplete && s.now().Sub(e.CreatedAt) > s.ttl
}
