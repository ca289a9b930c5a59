// Package session ties each browser to its server-side state with a signed
// cookie. The cookie carries a JWT whose subject is the session id; the id
// also keys the session's result cache slot.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/submission"
)

const (
	DefaultCookieName  = "vulnscan_session"
	DefaultTTL         = 7 * 24 * time.Hour
	DefaultIdleTimeout = 24 * time.Hour

	issuer = "vulnscan-web"
)

// Config controls cookie signing and session lifetime.
type Config struct {
	// Secret signs session tokens. When empty a random per-process secret is
	// generated, so sessions do not survive a restart.
	Secret      []byte
	CookieName  string
	TTL         time.Duration
	IdleTimeout time.Duration
	Secure      bool
}

// FormFactory builds the scan form of a new session. observer must be wired
// into the form so its transitions reach the session's broker.
type FormFactory func(sessionID string, observer submission.Observer) *submission.Form

// Manager issues session cookies and owns the live session states.
type Manager struct {
	cfg     Config
	newForm FormFactory
	logger  logging.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*State
}

func NewManager(cfg Config, newForm FormFactory, logger logging.Logger) (*Manager, error) {
	if newForm == nil {
		return nil, errors.New("form factory is required")
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = make([]byte, 32)
		if _, err := rand.Read(cfg.Secret); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		cfg:      cfg,
		newForm:  newForm,
		logger:   logger.With(logging.Field{Key: "component", Value: "session"}),
		now:      time.Now,
		sessions: make(map[string]*State),
	}, nil
}

// Get returns the session of the request. A missing, invalid or expired
// cookie starts a new session and sets its cookie on w.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) (*State, error) {
	if c, err := r.Cookie(m.cfg.CookieName); err == nil {
		id, err := m.parse(c.Value)
		if err == nil {
			return m.state(id), nil
		}
		m.logger.Debug("rejecting session cookie", logging.Field{Key: "error", Value: err.Error()})
	}

	id := uuid.NewString()
	token, err := m.sign(id)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	m.logger.Debug("new session", logging.Field{Key: "session_id", Value: id})
	return m.state(id), nil
}

// Lookup returns the live state for id without creating one.
func (m *Manager) Lookup(id string) (*State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[id]
	return st, ok
}

// Sweep drops sessions idle for longer than the idle timeout and returns how
// many were dropped. Cached results are kept.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, st := range m.sessions {
		if st.idleSince(now) > m.cfg.IdleTimeout && st.Broker.Subscribers() == 0 {
			delete(m.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		m.logger.Info("swept idle sessions", logging.Field{Key: "dropped", Value: dropped}, logging.Field{Key: "live", Value: len(m.sessions)})
	}
	return dropped
}

// state returns the live state for id, creating it when needed. A valid
// cookie for a session this process has not seen (after a restart, say)
// gets fresh form state under the same id.
func (m *Manager) state(id string) *State {
	now := m.now()
	m.mu.Lock()
	st, ok := m.sessions[id]
	if !ok {
		broker := NewBroker()
		st = &State{ID: id, Broker: broker}
		st.Form = m.newForm(id, broker.Publish)
		m.sessions[id] = st
	}
	m.mu.Unlock()
	st.touch(now)
	return st
}

func (m *Manager) sign(id string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
}

func (m *Manager) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("session subject: %w", err)
	}
	return claims.Subject, nil
}
