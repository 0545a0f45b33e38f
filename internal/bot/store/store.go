package store

import (
	"context"
	"fmt"
	"sync"

	"forex-signal-relay/internal/bot/dto"
	"forex-signal-relay/internal/bot/repository"
	"forex-signal-relay/internal/entity"
	"forex-signal-relay/pkg/logger"
)

// Store owns the aggregate document: live signals in insertion order, the
// per-day journal, and the owner set. Every mutating operation writes the
// whole document through the backend before returning, so an acknowledged
// operation survives a crash. One mutex serializes the inbound update loop
// against the daily journal task.
type Store struct {
	mu      sync.Mutex
	doc     *entity.Document
	backend repository.DocumentStore
	logger  *logger.Logger
}

// New creates a Store over the given persistence backend.
func New(backend repository.DocumentStore, log *logger.Logger) *Store {
	return &Store{
		doc:     entity.NewDocument(),
		backend: backend,
		logger:  log,
	}
}

// Load reads the persisted document. When the owner set is empty after
// load, it is seeded from the configured initial list and saved back, so
// documents written before owners existed keep working.
func (s *Store) Load(ctx context.Context, seedOwners []int64) error {
	doc, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	if len(s.doc.Owners) == 0 && len(seedOwners) > 0 {
		s.doc.Owners = append(s.doc.Owners, seedOwners...)
		return s.persist(ctx)
	}
	return nil
}

// persist writes the document; callers must hold the mutex.
func (s *Store) persist(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.doc); err != nil {
		s.logger.Error("Failed to persist document", logger.ErrorField(err))
		return fmt.Errorf("failed to persist document: %w", err)
	}
	return nil
}

// InsertSignal appends a signal to the live set.
func (s *Store) InsertSignal(ctx context.Context, sig entity.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Signals = append(s.doc.Signals, sig)
	return s.persist(ctx)
}

// LookupSignal returns the signal with the given id.
func (s *Store) LookupSignal(id string) (entity.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sig := range s.doc.Signals {
		if sig.ID == id {
			return sig, nil
		}
	}
	return entity.Signal{}, fmt.Errorf("signal %s: %w", id, dto.ErrNotFound)
}

// MutateSignal applies fn to the stored signal and persists the result.
// When fn returns an error the signal is left untouched and nothing is
// written.
func (s *Store) MutateSignal(ctx context.Context, id string, fn func(*entity.Signal) error) (entity.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Signals {
		if s.doc.Signals[i].ID != id {
			continue
		}
		updated := s.doc.Signals[i]
		if err := fn(&updated); err != nil {
			return entity.Signal{}, err
		}
		s.doc.Signals[i] = updated
		return updated, s.persist(ctx)
	}
	return entity.Signal{}, fmt.Errorf("signal %s: %w", id, dto.ErrNotFound)
}

// RemoveSignal erases a signal from the live set. Removing an unknown id
// is not an error; the caller has already observed the signal.
func (s *Store) RemoveSignal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Signals[:0]
	for _, sig := range s.doc.Signals {
		if sig.ID != id {
			kept = append(kept, sig)
		}
	}
	s.doc.Signals = kept
	return s.persist(ctx)
}

// ListSignals returns the live signals in insertion order.
func (s *Store) ListSignals() []entity.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Signal, len(s.doc.Signals))
	copy(out, s.doc.Signals)
	return out
}

// IsOwner reports whether the given user is on the allow-list.
func (s *Store) IsOwner(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, owner := range s.doc.Owners {
		if owner == id {
			return true
		}
	}
	return false
}

// AddOwner adds a user to the owner set. It reports false when the user
// was already present; the set is never duplicated.
func (s *Store) AddOwner(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, owner := range s.doc.Owners {
		if owner == id {
			return false, nil
		}
	}
	s.doc.Owners = append(s.doc.Owners, id)
	return true, s.persist(ctx)
}

// RemoveOwner removes a user from the owner set. It reports false when the
// user was not present.
func (s *Store) RemoveOwner(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Owners[:0]
	removed := false
	for _, owner := range s.doc.Owners {
		if owner == id {
			removed = true
			continue
		}
		kept = append(kept, owner)
	}
	s.doc.Owners = kept
	if !removed {
		return false, nil
	}
	return true, s.persist(ctx)
}

// ListOwners returns the owner set in insertion order.
func (s *Store) ListOwners() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.doc.Owners))
	copy(out, s.doc.Owners)
	return out
}

// AppendJournal appends a realized outcome to the given calendar date.
func (s *Store) AppendJournal(ctx context.Context, date string, rec entity.JournalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Journal[date] = append(s.doc.Journal[date], rec)
	return s.persist(ctx)
}

// JournalForDate returns the records for a date in append order.
func (s *Store) JournalForDate(date string) []entity.JournalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.doc.Journal[date]
	out := make([]entity.JournalRecord, len(records))
	copy(out, records)
	return out
}

// SummarizeJournal aggregates one date. An empty date yields a zero
// summary, not an error.
func (s *Store) SummarizeJournal(date string) entity.JournalSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary entity.JournalSummary
	for _, rec := range s.doc.Journal[date] {
		summary.Count++
		if rec.RiskMultiple > 0 {
			summary.Wins++
		} else {
			summary.Losses++
		}
		summary.TotalR += rec.RiskMultiple
		summary.TotalPriceDelta += rec.ProfitPrice
	}
	return summary
}
