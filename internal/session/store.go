package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/locvowork/employee_admin_console/internal/domain"
)

// Storage keys: exactly two durable entries, the opaque bearer token and the
// serialized user profile.
const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store persists the authenticated session in a state directory. It is
// constructed explicitly and injected into its consumers; there is no
// package-level instance.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore creates the state directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Login persists the session. The write completes before Login returns, so
// callers can open the notification channel immediately afterwards.
func (s *Store) Login(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(sess.Token), 0600); err != nil {
		return err
	}
	data, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userFile), data, 0600)
}

// Logout removes both keys. Storage is cleared before Logout returns; any
// redirect or teardown happens after.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	os.Remove(filepath.Join(s.dir, tokenFile))
	os.Remove(filepath.Join(s.dir, userFile))
}

// Token returns the stored bearer token, or "" when logged out. It satisfies
// gateway.TokenProvider so every request reads the current token at dispatch.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// User returns the stored profile, or nil when absent or unreadable.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

// IsAuthenticated reports token presence. Presence alone does not imply the
// token is structurally valid.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsTokenValid checks the externally defined structural shape: three
// dot-separated segments. No signature verification happens client-side.
func (s *Store) IsTokenValid() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return len(strings.Split(token, ".")) == 3
}

// RequireValid enforces the guard used by authenticated views: an invalid
// token forces a full logout rather than a partial clear, and the caller gets
// false back to redirect to login.
func (s *Store) RequireValid() bool {
	if s.IsTokenValid() {
		return true
	}
	if s.IsAuthenticated() {
		// Self-healing: a malformed token is destroyed, not retried.
		s.Logout()
	}
	return false
}
