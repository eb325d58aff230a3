package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"outbound-caller/internal/calls"

	"github.com/bytedance/sonic"
)

const (
	StorageKey = "callHistory"
	DraftKey   = "callDraft"

	// MaxEntries is the number of entries kept; older ones are dropped.
	MaxEntries = 20
)

// Store is the dashboard call history, newest first.
type Store struct {
	storage Storage
	log     *slog.Logger

	mu      sync.Mutex
	entries []calls.CallLogEntry
}

// Open loads the stored history. A value that cannot be decoded is deleted
// and the store starts empty; only storage errors are returned.
func Open(ctx context.Context, storage Storage, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{storage: storage, log: log}

	raw, ok, err := storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok {
		return s, nil
	}
	var entries []calls.CallLogEntry
	if err := sonic.UnmarshalString(raw, &entries); err != nil {
		log.Warn("discarding unreadable call history", "err", err)
		if err := storage.Delete(ctx, StorageKey); err != nil {
			return nil, fmt.Errorf("reset history: %w", err)
		}
		return s, nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries
	return s, nil
}

// Entries returns a copy of the history, newest first.
func (s *Store) Entries() []calls.CallLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calls.CallLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Append records entry as the newest item and persists the list.
func (s *Store) Append(ctx context.Context, entry calls.CallLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]calls.CallLogEntry, 0, min(len(s.entries)+1, MaxEntries))
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Clear empties the history. The saved form draft is kept.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, []calls.CallLogEntry{}); err != nil {
		return err
	}
	s.entries = nil
	return nil
}

func (s *Store) persist(ctx context.Context, entries []calls.CallLogEntry) error {
	raw, err := sonic.MarshalString(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// LoadDraft returns the last saved form values. An unreadable draft is
// dropped and reported as absent.
func (s *Store) LoadDraft(ctx context.Context) (calls.CallRequest, bool, error) {
	raw, ok, err := s.storage.Get(ctx, DraftKey)
	if err != nil {
		return calls.CallRequest{}, false, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return calls.CallRequest{}, false, nil
	}
	var req calls.CallRequest
	if err := sonic.UnmarshalString(raw, &req); err != nil {
		s.log.Warn("discarding unreadable form draft", "err", err)
		_ = s.storage.Delete(ctx, DraftKey)
		return calls.CallRequest{}, false, nil
	}
	return req, true, nil
}

func (s *Store) SaveDraft(ctx context.Context, req calls.CallRequest) error {
	raw, err := sonic.MarshalString(req)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.storage.Set(ctx, DraftKey, raw); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
