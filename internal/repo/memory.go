package repo

import (
	"context"
	"sentinelle/internal/repo/model"
	"sort"
	"sync"
	"time"
)

// NewMemory returns a Repository kept in process memory, used when no database is configured.
func NewMemory() Repository {
	return &memory{}
}

type memory struct {
	mu       sync.Mutex
	nextID   int64
	attempts []model.LoginAttempt
}

func (m *memory) EnsureSchema(ctx context.Context) error {
	return nil
}

func (m *memory) RecordAttempt(ctx context.Context, attempt model.LoginAttempt) (model.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	attempt.ID = m.nextID
	attempt.Email = normalizeEmail(attempt.Email)
	if attempt.OccurredAt.IsZero() {
		attempt.OccurredAt = time.Now().UTC()
	}
	m.attempts = append(m.attempts, attempt)
	return attempt, nil
}

func (m *memory) FailuresSince(ctx context.Context, email string, since time.Time) ([]model.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizeEmail(email)
	results := make([]model.LoginAttempt, 0)
	for _, a := range m.attempts {
		if a.Email == email && a.Failed() && !a.OccurredAt.Before(since) {
			results = append(results, a)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].OccurredAt.After(results[j].OccurredAt)
	})
	return results, nil
}
