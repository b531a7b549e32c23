// Package auth implements the login attempt-lockout guard and the local
// form validation that runs before any credentials reach the network.
//
// One Guard instance serves both the user and the admin login surfaces;
// the admin surface passes a role predicate that only admits admins.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/carelink/carelink/internal/models"
)

// Defaults for the lockout policy.
const (
	// DefaultMaxAttempts is the number of failed submissions allowed
	// before the guard locks.
	DefaultMaxAttempts = 5
	// DefaultCooldown is the lockout window during which submissions are
	// rejected without contacting the backend.
	DefaultCooldown = time.Minute
)

const (
	lockedNowMessage  = "Account locked for 1 minute."
	lockedWaitMessage = "Too many attempts. Please wait a while before trying again."
	emptyFieldMessage = "Please enter correct email and/or password."
)

// Authenticator performs the credential check against the backend.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

// ErrInFlight is returned when a submission arrives while another one is
// still waiting on the backend. The attempt counter is not touched.
var ErrInFlight = errors.New("a login attempt is already in progress")

// CredentialError is a rejected submission: wrong credentials, empty
// fields, or a role the surface does not admit. It consumes one attempt.
type CredentialError struct {
	// Message is the user-facing text, including the remaining-attempts hint.
	Message string
	// AttemptsLeft is the counter value after this failure.
	AttemptsLeft int
}

func (e *CredentialError) Error() string { return e.Message }

// LockedError is returned when the guard is locked, or by the submission
// whose failure tripped the lock.
type LockedError struct {
	Message string
}

func (e *LockedError) Error() string { return e.Message }

// Guard gates repeated credential submissions from a single client
// session. State is in-memory only; a restart discards it. Server-side
// throttling, if any, is independent of this guard.
type Guard struct {
	auth        Authenticator
	allow       func(models.Role) bool
	maxAttempts int
	cooldown    time.Duration
	log         *zap.Logger

	mu           sync.Mutex
	attemptsLeft int
	locked       bool
	inFlight     bool
	timer        *time.Timer
}

// Option customises a Guard.
type Option func(*Guard)

// WithRoleCheck restricts successful logins to roles accepted by allow.
// A successful credential check for a rejected role counts as a failure.
func WithRoleCheck(allow func(models.Role) bool) Option {
	return func(g *Guard) { g.allow = allow }
}

// WithCooldown overrides the lockout window.
func WithCooldown(d time.Duration) Option {
	return func(g *Guard) { g.cooldown = d }
}

// WithMaxAttempts overrides the attempt budget.
func WithMaxAttempts(n int) Option {
	return func(g *Guard) { g.maxAttempts = n }
}

// NewGuard constructs a Guard around the given authenticator.
func NewGuard(auth Authenticator, log *zap.Logger, opts ...Option) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Guard{
		auth:        auth,
		maxAttempts: DefaultMaxAttempts,
		cooldown:    DefaultCooldown,
		log:         log,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.attemptsLeft = g.maxAttempts
	return g
}

// Submit runs one login attempt through the guard.
//
// While locked it returns *LockedError immediately, without a network
// call and without touching the counter. Empty fields count as a failure
// without a network call. A backend credential rejection counts as a
// failure. Transport errors are passed through unchanged and do not
// consume an attempt. Success resets the counter and yields the session
// to persist.
func (g *Guard) Submit(ctx context.Context, email, password string) (*models.Session, error) {
	g.mu.Lock()
	if g.locked {
		g.mu.Unlock()
		return nil, &LockedError{Message: lockedWaitMessage}
	}
	if g.inFlight {
		g.mu.Unlock()
		return nil, ErrInFlight
	}
	if email == "" || password == "" {
		err := g.recordFailure(emptyFieldMessage)
		g.mu.Unlock()
		return nil, err
	}
	g.inFlight = true
	g.mu.Unlock()

	resp, err := g.auth.Login(ctx, email, password)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false

	if err != nil {
		// Infrastructure failure, not a credential rejection.
		return nil, err
	}

	// The backend reports pending accounts as failures, but they may
	// still enter with limited access.
	accepted := resp.Success || resp.Reason == models.ReasonAccountPending
	if accepted && resp.User != nil {
		role := resp.UserType
		if role == "" {
			role = resp.User.UserType
		}
		if g.allow == nil || g.allow(role) {
			g.attemptsLeft = g.maxAttempts
			user := *resp.User
			if user.UserType == "" {
				user.UserType = role
			}
			return &models.Session{Token: user.UserID, User: user}, nil
		}
	}

	msg := resp.Message
	if msg == "" {
		msg = "Login failed."
	}
	return nil, g.recordFailure(msg)
}

// recordFailure decrements the counter and locks when it reaches zero.
// Callers must hold g.mu.
func (g *Guard) recordFailure(msg string) error {
	g.attemptsLeft--
	if g.attemptsLeft <= 0 {
		g.attemptsLeft = 0
		g.lock()
		return &LockedError{Message: lockedNowMessage}
	}
	return &CredentialError{
		Message:      fmt.Sprintf("%s\nYou have %d attempts left.", msg, g.attemptsLeft),
		AttemptsLeft: g.attemptsLeft,
	}
}

// lock transitions to the locked state and schedules the unconditional
// reset. Callers must hold g.mu.
func (g *Guard) lock() {
	g.locked = true
	g.log.Info("login locked", zap.Duration("cooldown", g.cooldown))
	g.timer = time.AfterFunc(g.cooldown, g.reset)
}

// reset restores the unlocked state with a full attempt budget, even if
// the user never retried during the window.
func (g *Guard) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locked = false
	g.attemptsLeft = g.maxAttempts
	g.log.Info("login unlocked")
}

// Close cancels the pending unlock timer, if any. It must be called when
// the surface owning the guard goes away so the callback cannot fire
// against stale state.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// AttemptsLeft returns the current attempt budget.
func (g *Guard) AttemptsLeft() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attemptsLeft
}

// Locked reports whether the guard is in the lockout window.
func (g *Guard) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}
