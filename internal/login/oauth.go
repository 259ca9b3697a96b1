package login

import (
	"context"
	"sync"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Initiator starts a redirect-based login with an identity provider and returns the URL
// to send the visitor to. Only the initiation outcome is observed here.
type Initiator interface {
	Initiate(ctx context.Context, provider string) (string, error)
}

type InitiatorFunc func(ctx context.Context, provider string) (string, error)

func (f InitiatorFunc) Initiate(ctx context.Context, provider string) (string, error) {
	return f(ctx, provider)
}

type OAuthState int

const (
	Idle OAuthState = iota
	Pending
	Redirecting
)

func (s OAuthState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Redirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// OAuthFlow is the "Login with ..." control. It takes no input.
type OAuthFlow struct {
	initiator Initiator
	notifier  Notifier

	mu    sync.Mutex
	state OAuthState
}

func NewOAuthFlow(initiator Initiator, notifier Notifier) *OAuthFlow {
	return &OAuthFlow{
		initiator: initiator,
		notifier:  notifier,
	}
}

func (f *OAuthFlow) State() OAuthState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Start asks the initiator for the provider's redirect URL. On failure the flow
// returns to Idle and a failure notification is issued. A visitor coming back from
// the provider may start again from Redirecting.
func (f *OAuthFlow) Start(ctx context.Context, provider string) (string, error) {
	f.mu.Lock()
	if f.state == Pending {
		f.mu.Unlock()
		return "", ErrOAuthPending
	}
	f.state = Pending
	f.mu.Unlock()

	redirectURL, err := safeInitiate(ctx, f.initiator, provider)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Idle
		fiberlog.Error("login: oauth initiation failed: ", err)
		f.notifier.NotifyFailure(MessageOAuthFailed)
		return "", &SubmissionError{Err: err}
	}
	f.state = Redirecting
	return redirectURL, nil
}

func safeInitiate(ctx context.Context, i Initiator, provider string) (redirectURL string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return i.Initiate(ctx, provider)
}
