package login

import "sync"

const (
	MessageLoggedIn     = "Logged in!"
	MessageLoginFailed  = "Failed to login. Please try again."
	MessageOAuthFailed  = "Something went wrong with your login."
	MessageRegistered   = "Account created! Check your inbox to confirm your email."
	MessageRegisterFail = "Failed to create your account. Please try again."
)

// Notifier surfaces transient messages to the visitor. Calls are fire-and-forget.
type Notifier interface {
	NotifySuccess(message string)
	NotifyFailure(message string)
}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastFailure ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Message string
}

// Toasts is a Notifier that queues messages until the next page render drains them.
type Toasts struct {
	mu    sync.Mutex
	items []Toast
}

func (t *Toasts) NotifySuccess(message string) {
	t.push(Toast{Kind: ToastSuccess, Message: message})
}

func (t *Toasts) NotifyFailure(message string) {
	t.push(Toast{Kind: ToastFailure, Message: message})
}

func (t *Toasts) push(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, toast)
}

// Drain returns the queued toasts in order and empties the queue.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := t.items
	t.items = nil
	return items
}

func (t *Toasts) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
