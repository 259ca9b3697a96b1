package login

import (
	"context"
	"sync"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Submitter authenticates validated credentials. It is the external submission handler.
type Submitter interface {
	Submit(ctx context.Context, creds Credentials) error
}

type SubmitterFunc func(ctx context.Context, creds Credentials) error

func (f SubmitterFunc) Submit(ctx context.Context, creds Credentials) error {
	return f(ctx, creds)
}

type State int

const (
	Editing State = iota
	Submitting
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of a Flow for rendering.
type Snapshot struct {
	State  State
	Values Input
	Errors FieldErrors
}

// Flow is one login form instance: the entered values, their field errors, and
// whether a submission is currently in flight.
type Flow struct {
	submitter Submitter
	notifier  Notifier

	mu     sync.Mutex
	state  State
	values Input
	errors FieldErrors
}

func NewFlow(submitter Submitter, notifier Notifier) *Flow {
	return &Flow{
		submitter: submitter,
		notifier:  notifier,
	}
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		State:  f.state,
		Values: f.values,
		Errors: append(FieldErrors(nil), f.errors...),
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates in and, when it passes, hands the credentials to the submitter.
//
// It returns a *ValidationError without submitting when the schema rejects the input,
// ErrSubmissionInFlight while another submission has not settled, and a *SubmissionError
// when the submitter fails. The flow is back in Editing when Submit returns, and the
// entered values are kept in every case.
func (f *Flow) Submit(ctx context.Context, in Input) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}

	f.values = in
	result := Validate(in)
	creds, ok := result.Credentials()
	if !ok {
		f.errors = result.Errors()
		f.mu.Unlock()
		return &ValidationError{Fields: result.Errors()}
	}
	f.errors = nil
	f.state = Submitting
	f.mu.Unlock()

	err := safeSubmit(ctx, f.submitter, creds)

	f.mu.Lock()
	f.state = Editing
	f.mu.Unlock()

	if err != nil {
		fiberlog.Error("login: submission failed: ", err)
		f.notifier.NotifyFailure(MessageLoginFailed)
		return &SubmissionError{Err: err}
	}

	f.notifier.NotifySuccess(MessageLoggedIn)
	return nil
}

func safeSubmit(ctx context.Context, s Submitter, creds Credentials) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return s.Submit(ctx, creds)
}
