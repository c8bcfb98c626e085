// Package session tracks the signed-in identity for the lifetime of a command.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"taskhub/internal/service"
)

// State is either SignedOut or SignedIn.
type State interface {
	isState()
}

// SignedOut means no identity is active.
type SignedOut struct{}

// SignedIn carries the active identity.
type SignedIn struct {
	User service.User
}

func (SignedOut) isState() {}
func (SignedIn) isState()  {}

// Match calls signedOut or signedIn depending on s and returns its result.
// A nil State is treated as SignedOut.
func Match[T any](s State, signedOut func() T, signedIn func(service.User) T) T {
	switch s := s.(type) {
	case SignedIn:
		return signedIn(s.User)
	case SignedOut, nil:
		return signedOut()
	default:
		panic(fmt.Sprintf("session: unknown state %T", s))
	}
}

// Provider subscribes to an identity provider and exposes the current state.
// Loading is true until the first identity callback arrives.
type Provider struct {
	idp service.IdentityProvider
	log *slog.Logger

	mu          sync.RWMutex
	state       State
	loading     bool
	unsubscribe func()

	ready     chan struct{}
	readyOnce sync.Once
	startOnce sync.Once
}

// New creates a provider in the loading state. Call Start to subscribe.
func New(idp service.IdentityProvider, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{
		idp:     idp,
		log:     logger,
		state:   SignedOut{},
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Start subscribes to identity changes. Calling it more than once has no effect.
func (p *Provider) Start() {
	p.startOnce.Do(func() {
		unsub := p.idp.Subscribe(p.update)
		p.mu.Lock()
		p.unsubscribe = unsub
		p.mu.Unlock()
	})
}

// Close unsubscribes from the identity provider.
func (p *Provider) Close() {
	p.mu.Lock()
	unsub := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// State returns the current state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Loading reports whether the first identity callback is still pending.
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// User returns the signed-in user, if any.
func (p *Provider) User() (service.User, bool) {
	if in, ok := p.State().(SignedIn); ok {
		return in.User, true
	}
	return service.User{}, false
}

// Wait blocks until loading has finished and returns the state.
func (p *Provider) Wait(ctx context.Context) (State, error) {
	select {
	case <-p.ready:
		return p.State(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Provider) update(u *service.User) {
	p.mu.Lock()
	if u == nil {
		p.state = SignedOut{}
	} else {
		p.state = SignedIn{User: *u}
	}
	p.loading = false
	p.mu.Unlock()

	if u == nil {
		p.log.Debug("session signed out")
	} else {
		p.log.Debug("session signed in", "uid", u.UID)
	}
	p.readyOnce.Do(func() { close(p.ready) })
}
