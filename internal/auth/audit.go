package auth

import (
	"context"
	"errors"
	"sentinelle/internal/login"
	"sentinelle/internal/repo"
	"sentinelle/internal/repo/model"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

var ErrTooManyAttempts = errors.New("auth: too many failed login attempts")

// Audited records the outcome of every login submission. A failure to record is
// logged and does not change the outcome.
func Audited(next login.Submitter, r repo.Repository) login.Submitter {
	return login.SubmitterFunc(func(ctx context.Context, creds login.Credentials) error {
		err := next.Submit(ctx, creds)
		record(ctx, r, model.LoginAttempt{
			Method:  model.MethodPassword,
			Email:   creds.Email,
			Outcome: outcome(err),
		})
		return err
	})
}

// AuditedInitiator records every OAuth initiation.
func AuditedInitiator(next login.Initiator, r repo.Repository) login.Initiator {
	return login.InitiatorFunc(func(ctx context.Context, provider string) (string, error) {
		url, err := next.Initiate(ctx, provider)
		record(ctx, r, model.LoginAttempt{
			Method:   model.MethodOAuth,
			Provider: provider,
			Outcome:  outcome(err),
		})
		return url, err
	})
}

func record(ctx context.Context, r repo.Repository, attempt model.LoginAttempt) {
	if _, err := r.RecordAttempt(ctx, attempt); err != nil {
		fiberlog.Error("auth: failed to record login attempt: ", err)
	}
}

func outcome(err error) string {
	if err != nil {
		return model.OutcomeFailure
	}
	return model.OutcomeSuccess
}

// Throttle refuses submissions for an email that failed Max times within Window.
type Throttle struct {
	Next   login.Submitter
	Repo   repo.Repository
	Max    int
	Window time.Duration

	now func() time.Time
}

func (t *Throttle) Submit(ctx context.Context, creds login.Credentials) error {
	if t.Max > 0 {
		now := time.Now
		if t.now != nil {
			now = t.now
		}

		failures, err := t.Repo.FailuresSince(ctx, creds.Email, now().Add(-t.Window))
		if err != nil {
			return err
		}
		if len(failures) >= t.Max {
			fiberlog.Info("auth: throttling login for ", creds.Email)
			return ErrTooManyAttempts
		}
	}

	return t.Next.Submit(ctx, creds)
}
