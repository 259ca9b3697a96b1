package repo

import (
	"context"
	"sentinelle/internal/repo/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS login_attempts").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, New(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFailuresSinceError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM login_attempts").
		WithArgs("john.doe@mail.com", model.OutcomeFailure, since).
		WillReturnError(assert.AnError)

	_, err = New(db).FailuresSince(context.Background(), "  John.Doe@mail.com ", since)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecordAttemptNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO login_attempts").
		WithArgs(model.MethodPassword, "", "john.doe@mail.com", model.OutcomeSuccess, at).
		WillReturnError(assert.AnError)

	_, err = New(db).RecordAttempt(context.Background(), model.LoginAttempt{
		Method:     model.MethodPassword,
		Email:      "John.Doe@Mail.com",
		Outcome:    model.OutcomeSuccess,
		OccurredAt: at,
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryFailuresSince(t *testing.T) {
	ctx := context.Background()
	r := NewMemory()
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	record := func(email, outcome string, at time.Time) {
		_, err := r.RecordAttempt(ctx, model.LoginAttempt{
			Method:     model.MethodPassword,
			Email:      email,
			Outcome:    outcome,
			OccurredAt: at,
		})
		require.NoError(t, err)
	}

	record("john.doe@mail.com", model.OutcomeFailure, base.Add(-time.Hour))
	record("john.doe@mail.com", model.OutcomeFailure, base.Add(time.Minute))
	record("JOHN.DOE@mail.com", model.OutcomeFailure, base.Add(2*time.Minute))
	record("john.doe@mail.com", model.OutcomeSuccess, base.Add(3*time.Minute))
	record("jane@mail.com", model.OutcomeFailure, base.Add(4*time.Minute))

	failures, err := r.FailuresSince(ctx, "john.doe@mail.com", base)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.True(t, failures[0].OccurredAt.After(failures[1].OccurredAt))
	assert.Equal(t, int64(3), failures[0].ID)

	none, err := r.FailuresSince(ctx, "nobody@mail.com", base)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
