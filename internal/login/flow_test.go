package login

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) NotifySuccess(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) NotifyFailure(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

var validInput = Input{Email: "john.doe@mail.com", Password: "abc123"}

func TestFlowSubmitSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	var got Credentials
	calls := 0
	flow := NewFlow(SubmitterFunc(func(ctx context.Context, creds Credentials) error {
		calls++
		got = creds
		return nil
	}), notifier)

	require.NoError(t, flow.Submit(context.Background(), validInput))

	assert.Equal(t, 1, calls)
	assert.Equal(t, Credentials{Email: "john.doe@mail.com", Password: "abc123"}, got)
	assert.Equal(t, Editing, flow.State())
	assert.Equal(t, []string{MessageLoggedIn}, notifier.successes)
	assert.Empty(t, notifier.failures)
}

func TestFlowSubmitFailureKeepsValues(t *testing.T) {
	notifier := &recordingNotifier{}
	boom := errors.New("cognito down")
	flow := NewFlow(SubmitterFunc(func(ctx context.Context, creds Credentials) error {
		return boom
	}), notifier)

	err := flow.Submit(context.Background(), validInput)

	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Editing, flow.State())
	assert.Equal(t, []string{MessageLoginFailed}, notifier.failures)
	assert.Empty(t, notifier.successes)

	snap := flow.Snapshot()
	assert.Equal(t, validInput, snap.Values)
	assert.Empty(t, snap.Errors)
}

func TestFlowSubmitRecoversPanickingSubmitter(t *testing.T) {
	notifier := &recordingNotifier{}
	flow := NewFlow(SubmitterFunc(func(ctx context.Context, creds Credentials) error {
		panic("handler exploded")
	}), notifier)

	err := flow.Submit(context.Background(), validInput)

	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "handler exploded", panicErr.Value)
	assert.Equal(t, Editing, flow.State())
	assert.Equal(t, []string{MessageLoginFailed}, notifier.failures)
	assert.Equal(t, validInput, flow.Snapshot().Values)
}

func TestFlowSubmitInvalidDoesNotSubmit(t *testing.T) {
	notifier := &recordingNotifier{}
	flow := NewFlow(SubmitterFunc(func(ctx context.Context, creds Credentials) error {
		t.Fatal("submitter must not be called for invalid input")
		return nil
	}), notifier)

	in := Input{Email: "not-an-email", Password: "ab"}
	err := flow.Submit(context.Background(), in)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"email", "password"}, validationErr.Fields.Fields())

	snap := flow.Snapshot()
	assert.Equal(t, Editing, snap.State)
	assert.Equal(t, in, snap.Values)
	assert.Equal(t, validationErr.Fields, snap.Errors)
	assert.Empty(t, notifier.successes)
	assert.Empty(t, notifier.failures)
}

func TestFlowSubmitClearsErrorsAfterCorrection(t *testing.T) {
	flow := NewFlow(SubmitterFunc(func(ctx context.Context, creds Credentials) error {
		return nil
	}), &recordingNotifier{})

	require.Error(t, flow.Submit(context.Background(), Input{Email: "bad", Password: "abc123"}))
	require.NotEmpty(t, flow.Snapshot().Errors)

	require.NoError(t, flow.Submit(context.Background(), validInput))
	assert.Empty(t, flow.Snapshot().Errors)
}

func TestFlowRejectsDoubleSubmission(t *testing.T) {
	notifier := &recordingNotifier{}
	entered := make(chan struct{})
	release := make(chan struct{})
	flow := NewFlow(SubmitterFunc(func(ctx context.Context, creds Credentials) error {
		close(entered)
		<-release
		return nil
	}), notifier)

	done := make(chan error, 1)
	go func() {
		done <- flow.Submit(context.Background(), validInput)
	}()

	<-entered
	assert.Equal(t, Submitting, flow.State())
	assert.ErrorIs(t, flow.Submit(context.Background(), validInput), ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Editing, flow.State())
	assert.Equal(t, []string{MessageLoggedIn}, notifier.successes)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "unknown", State(9).String())
}
