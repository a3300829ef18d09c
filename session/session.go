// Package session holds the signed-in user's credentials and role. A
// Session is created on login, passed explicitly to the API client and the
// controllers, and cleared on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ardu.app/feed/models"
)

var ErrNoSession = errors.New("no saved session")

type Session struct {
	mu    sync.RWMutex
	state state
}

type state struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expiresAt,omitempty"`
	UserID    int64                 `json:"userId"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	AvatarURL string                `json:"imageUrl,omitempty"`
	Role      models.Role           `json:"role"`
	Approval  models.ApprovalStatus `json:"approvalStatus"`
}

// New returns an anonymous session.
func New() *Session {
	return &Session{}
}

// FromLogin builds a session out of a login response.
func FromLogin(resp models.LoginResponse) *Session {
	s := New()
	s.Set(resp)
	return s
}

func (s *Session) Set(resp models.LoginResponse) {
	st := state{
		Token:     resp.Jwt.Token,
		UserID:    resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		AvatarURL: resp.AvatarURL,
		Role:      resp.Role,
		Approval:  resp.Approval,
	}
	if !st.Role.Valid() {
		st.Role = models.RoleMember
	}
	if resp.Jwt.ExpiresInSeconds > 0 {
		st.ExpiresAt = time.Now().Add(time.Duration(resp.Jwt.ExpiresInSeconds) * time.Second)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Clear drops every credential. The session becomes anonymous.
func (s *Session) Clear() {
	s.mu.Lock()
	s.state = state{}
	s.mu.Unlock()
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.expiredLocked() {
		return ""
	}
	return s.state.Token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

func (s *Session) Name() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Name
}

func (s *Session) Role() models.Role {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role
}

// IsAdmin reports an authenticated admin.
func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.Role() == models.RoleAdmin
}

// Approved reports whether the account passed administrative approval and
// may open the dashboard. Admins are always approved.
func (s *Session) Approved() bool {
	if !s.Authenticated() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role == models.RoleAdmin || s.state.Approval == models.ApprovalApproved
}

func (s *Session) expiredLocked() bool {
	return !s.state.ExpiresAt.IsZero() && time.Now().After(s.state.ExpiresAt)
}

// Save writes the session to path with owner-only permissions.
func (s *Session) Save(path string) error {
	s.mu.RLock()
	b, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// Load reads a session saved by Save. An expired session is removed and
// reported as ErrNoSession.
func Load(path string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), ErrNoSession
		}
		return New(), fmt.Errorf("session: read: %w", err)
	}
	s := New()
	if err := json.Unmarshal(b, &s.state); err != nil {
		return New(), fmt.Errorf("session: decode: %w", err)
	}
	if s.state.Token == "" || s.expiredLocked() {
		_ = os.Remove(path)
		return New(), ErrNoSession
	}
	return s, nil
}

// Remove clears s and deletes its file. A missing file is not an error.
func (s *Session) Remove(path string) error {
	s.Clear()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove: %w", err)
	}
	return nil
}
