package repo

import (
	"context"
	"database/sql"
	"sentinelle/internal/repo/model"
	"strings"
	"time"

	"github.com/go-jet/jet/v2/postgres"
)

// Repository stores the login attempt audit trail.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	RecordAttempt(ctx context.Context, attempt model.LoginAttempt) (model.LoginAttempt, error)
	FailuresSince(ctx context.Context, email string, since time.Time) ([]model.LoginAttempt, error)
}

func New(db *sql.DB) Repository {
	return &repository{
		db: db,
	}
}

type repository struct {
	db *sql.DB
}

const createLoginAttempts = `
CREATE TABLE IF NOT EXISTS login_attempts (
	id          BIGSERIAL PRIMARY KEY,
	method      TEXT NOT NULL,
	provider    TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS login_attempts_email_occurred_at_idx
	ON login_attempts (email, occurred_at);
`

const loginAttemptColumns = `
	login_attempts.id          AS "login_attempt.id",
	login_attempts.method      AS "login_attempt.method",
	login_attempts.provider    AS "login_attempt.provider",
	login_attempts.email       AS "login_attempt.email",
	login_attempts.outcome     AS "login_attempt.outcome",
	login_attempts.occurred_at AS "login_attempt.occurred_at"`

func (r *repository) EnsureSchema(ctx context.Context) error {
	_, err := postgres.RawStatement(createLoginAttempts).ExecContext(ctx, r.db)
	return err
}

func (r *repository) RecordAttempt(ctx context.Context, attempt model.LoginAttempt) (model.LoginAttempt, error) {
	attempt.Email = normalizeEmail(attempt.Email)
	if attempt.OccurredAt.IsZero() {
		attempt.OccurredAt = time.Now().UTC()
	}

	stmt := postgres.RawStatement(`
INSERT INTO login_attempts (method, provider, email, outcome, occurred_at)
VALUES (#method, #provider, #email, #outcome, #occurredAt)
RETURNING`+loginAttemptColumns,
		postgres.RawArgs{
			"#method":     attempt.Method,
			"#provider":   attempt.Provider,
			"#email":      attempt.Email,
			"#outcome":    attempt.Outcome,
			"#occurredAt": attempt.OccurredAt,
		})

	var result model.LoginAttempt
	if err := stmt.QueryContext(ctx, r.db, &result); err != nil {
		return result, err
	}

	return result, nil
}

func (r *repository) FailuresSince(ctx context.Context, email string, since time.Time) ([]model.LoginAttempt, error) {
	stmt := postgres.RawStatement(`
SELECT`+loginAttemptColumns+`
FROM login_attempts
WHERE login_attempts.email = #email
  AND login_attempts.outcome = #outcome
  AND login_attempts.occurred_at >= #since
ORDER BY login_attempts.occurred_at DESC`,
		postgres.RawArgs{
			"#email":   normalizeEmail(email),
			"#outcome": model.OutcomeFailure,
			"#since":   since,
		})

	var results []model.LoginAttempt
	if err := stmt.QueryContext(ctx, r.db, &results); err != nil {
		return nil, err
	}

	if results == nil {
		results = make([]model.LoginAttempt, 0)
	}

	return results, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
