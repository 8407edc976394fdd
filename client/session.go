package client

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"smartlms/backend/models"
	"smartlms/backend/utils"
	"smartlms/client/localstore"
)

// Result is how business-rule outcomes (login, registration) are reported.
// Violations are values, never errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Session is the authentication state machine: anonymous until a login
// succeeds, anonymous again after logout or when the persisted pointer no
// longer resolves to a loaded user.
type Session struct {
	store   *localstore.Store
	secret  string
	current *models.User
}

// NewSession builds an anonymous session backed by the local store.
func NewSession(store *localstore.Store, secret string) *Session {
	return &Session{store: store, secret: secret}
}

// Login matches the username case-insensitively and the password against
// the stored bcrypt hash. Success persists a signed pointer to the user id.
func (s *Session) Login(ctx context.Context, users []models.User, username, password string) Result {
	for _, u := range users {
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return Result{Success: false, Message: "Invalid credentials"}
		}
		user := u
		s.current = &user
		if token, err := utils.GenerateSessionToken(user.ID, s.secret); err == nil {
			_ = s.store.SaveSessionToken(ctx, token)
		}
		return Result{Success: true, Message: "Logged in"}
	}
	return Result{Success: false, Message: "Invalid credentials"}
}

// Logout clears the session and the persisted pointer.
func (s *Session) Logout(ctx context.Context) {
	s.current = nil
	_ = s.store.ClearSessionToken(ctx)
}

// Resume re-resolves the persisted pointer against the freshly loaded user
// collection. An unreadable token or a stale id leaves the session
// anonymous.
func (s *Session) Resume(ctx context.Context, users []models.User) {
	s.current = nil
	token, ok, err := s.store.SessionToken(ctx)
	if err != nil || !ok {
		return
	}
	userID, err := utils.ParseSessionToken(token, s.secret)
	if err != nil {
		_ = s.store.ClearSessionToken(ctx)
		return
	}
	for _, u := range users {
		if u.ID == userID {
			user := u
			s.current = &user
			return
		}
	}
	_ = s.store.ClearSessionToken(ctx)
}

// Current returns the authenticated user, or nil when anonymous.
func (s *Session) Current() *models.User {
	return s.current
}

// Authenticated reports whether a user is logged in.
func (s *Session) Authenticated() bool {
	return s.current != nil
}

// refresh updates the cached copy when the canonical record changes, so the
// session subject and the user collection stay in lockstep.
func (s *Session) refresh(user models.User) {
	if s.current != nil && s.current.ID == user.ID {
		u := user
		s.current = &u
	}
}
