// Package session defines the authenticated identity context consumed by the
// transaction store, and the providers that issue it.
package session

import (
	"context"
	"sync"
	"time"
)

// Session is an authenticated identity context. The access token scopes
// which ledger rows are visible and mutable.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider issues and refreshes sessions and notifies observers of changes.
type Provider interface {
	// Current returns the active session, or nil when signed out.
	Current() *Session

	// OnChange registers a callback invoked on every session transition:
	// sign-in, sign-out and refresh. The returned function unsubscribes it.
	OnChange(fn func(*Session)) (unsubscribe func())

	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

// notifier tracks the current session and fans change events out to
// subscribers. Providers embed it.
type notifier struct {
	mu      sync.Mutex
	current *Session
	nextID  int
	subs    map[int]func(*Session)
}

func (n *notifier) Current() *Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	copied := *n.current
	return &copied
}

func (n *notifier) OnChange(fn func(*Session)) func() {
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[int]func(*Session))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// set replaces the current session and notifies subscribers outside the lock.
func (n *notifier) set(s *Session) {
	n.mu.Lock()
	n.current = s
	fns := make([]func(*Session), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
