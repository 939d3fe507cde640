package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/clientmgr/internal/logger"
)

type EventType int

const (
	SignedIn EventType = iota
	SignedUp
	SignedOut
)

func (t EventType) String() string {
	switch t {
	case SignedIn:
		return "signed-in"
	case SignedUp:
		return "signed-up"
	case SignedOut:
		return "signed-out"
	default:
		return "unknown"
	}
}

// Event describes a change of the current session. Session is nil after sign-out.
type Event struct {
	Type    EventType
	Session *Session
}

type Listener func(Event)

// Subscription detaches a listener when Unsubscribe is called.
type Subscription struct {
	p    *Provider
	id   int
	once sync.Once
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.p.mu.Lock()
		delete(s.p.listeners, s.id)
		s.p.mu.Unlock()
	})
}

type Options struct {
	Users    UserStore
	Sessions SessionStore
	Issuer   *Issuer
	// Revoker is optional. Without it, sign-out only forgets the local token.
	Revoker Revoker
	// RequireConfirmation makes sign-up withhold a session until the account is confirmed.
	RequireConfirmation bool
}

// Provider owns the current session. It starts in the loading state until
// Start has restored any persisted session.
type Provider struct {
	users               UserStore
	sessions            SessionStore
	issuer              *Issuer
	revoker             Revoker
	requireConfirmation bool

	mu        sync.RWMutex
	session   *Session
	loading   bool
	ready     chan struct{}
	startOnce sync.Once
	listeners map[int]Listener
	nextID    int
}

func NewProvider(opts Options) *Provider {
	return &Provider{
		users:               opts.Users,
		sessions:            opts.Sessions,
		issuer:              opts.Issuer,
		revoker:             opts.Revoker,
		requireConfirmation: opts.RequireConfirmation,
		loading:             true,
		ready:               make(chan struct{}),
		listeners:           make(map[int]Listener),
	}
}

// Start restores the persisted session in the background. Later calls do nothing.
func (p *Provider) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		go p.restore(ctx)
	})
}

func (p *Provider) restore(ctx context.Context) {
	session := p.loadSession(ctx)

	p.mu.Lock()
	p.session = session
	p.loading = false
	p.mu.Unlock()
	close(p.ready)
}

func (p *Provider) loadSession(ctx context.Context) *Session {
	if p.sessions == nil || p.issuer == nil {
		return nil
	}

	token, err := p.sessions.LoadToken()
	if err != nil {
		logger.Warn("Failed to read persisted session", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	session, err := p.issuer.Parse(token)
	if err != nil {
		logger.Info("Discarding persisted session", "error", err)
		p.clearToken()
		return nil
	}

	if p.revoker != nil {
		revoked, err := p.revoker.IsRevoked(ctx, session.TokenID)
		if err != nil {
			logger.Warn("Session revocation check failed", "error", err)
		} else if revoked {
			logger.Info("Discarding revoked session", "user", session.UserID)
			p.clearToken()
			return nil
		}
	}
	return session
}

func (p *Provider) clearToken() {
	if err := p.sessions.ClearToken(); err != nil {
		logger.Warn("Failed to clear persisted session", "error", err)
	}
}

// WaitReady blocks until the persisted session has been restored.
func (p *Provider) WaitReady(ctx context.Context) error {
	select {
	case <-p.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Session returns the current session, or nil when signed out or loading.
func (p *Provider) Session() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// Identity returns the signed-in user id. known is false while loading.
func (p *Provider) Identity() (id string, known bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.loading {
		return "", false
	}
	if p.session == nil {
		return "", true
	}
	return p.session.UserID, true
}

// ResolveIdentity returns the signed-in user id, an empty id when signed out,
// or ErrSessionLoading.
func (p *Provider) ResolveIdentity(context.Context) (string, error) {
	id, known := p.Identity()
	if !known {
		return "", ErrSessionLoading
	}
	return id, nil
}

// Subscribe registers fn for session changes.
func (p *Provider) Subscribe(fn Listener) *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.listeners[p.nextID] = fn
	return &Subscription{p: p, id: p.nextID}
}

func (p *Provider) emit(ev Event) {
	p.mu.RLock()
	fns := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (p *Provider) available() error {
	if p.users == nil || p.issuer == nil || p.sessions == nil {
		return fmt.Errorf("%w: no remote database configured", ErrAuthUnavailable)
	}
	return nil
}

// SignUp creates an account. When confirmation is required no session is
// issued and the returned session is nil.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	const op = "sign up"
	if err := p.available(); err != nil {
		return nil, opError(op, err)
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, opError(op, err)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, opError(op, err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, opError(op, err)
	}

	user, err := p.users.CreateUser(ctx, email, hash, !p.requireConfirmation)
	if err != nil {
		return nil, opError(op, storeError(err))
	}
	logger.Info("Account created", "user", user.ID, "confirmed", user.Confirmed())

	if !user.Confirmed() {
		return nil, nil
	}
	session, err := p.establish(user)
	if err != nil {
		return nil, opError(op, err)
	}
	p.emit(Event{Type: SignedUp, Session: session})
	return session, nil
}

// SignIn checks the credentials and makes the account the current session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	const op = "sign in"
	if err := p.available(); err != nil {
		return nil, opError(op, err)
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, opError(op, ErrInvalidCredentials)
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, opError(op, ErrInvalidCredentials)
		}
		return nil, opError(op, storeError(err))
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, opError(op, ErrInvalidCredentials)
	}
	if p.requireConfirmation && !user.Confirmed() {
		return nil, opError(op, ErrEmailNotConfirmed)
	}

	session, err := p.establish(user)
	if err != nil {
		return nil, opError(op, err)
	}
	p.emit(Event{Type: SignedIn, Session: session})
	return session, nil
}

func (p *Provider) establish(user User) (*Session, error) {
	session, err := p.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := p.sessions.SaveToken(session.Token); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	p.mu.Lock()
	p.session = session
	p.loading = false
	p.mu.Unlock()

	s := *session
	return &s, nil
}

// SignOut forgets the current session and revokes its token when a
// revoker is configured. Signing out while signed out is not an error.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.session
	p.session = nil
	p.mu.Unlock()

	if session != nil && p.revoker != nil {
		if err := p.revoker.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
			logger.Warn("Failed to revoke session", "user", session.UserID, "error", err)
		}
	}

	if p.sessions != nil {
		if err := p.sessions.ClearToken(); err != nil {
			return opError("sign out", err)
		}
	}

	if session != nil {
		p.emit(Event{Type: SignedOut})
	}
	return nil
}

// Confirm marks an account's email as confirmed.
func (p *Provider) Confirm(ctx context.Context, email string) error {
	const op = "confirm"
	if p.users == nil {
		return opError(op, fmt.Errorf("%w: no remote database configured", ErrAuthUnavailable))
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return opError(op, err)
	}
	if err := p.users.ConfirmUser(ctx, email); err != nil {
		return opError(op, storeError(err))
	}
	return nil
}

// storeError keeps the sentinels a UserStore may return and reports
// anything else as the service being unavailable.
func storeError(err error) error {
	if errors.Is(err, ErrUserExists) || errors.Is(err, ErrUserNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
}
