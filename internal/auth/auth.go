package auth

import (
	"errors"
	"fmt"
	"strings"

	"taskmaster/internal/storage"
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 5
)

var (
	ErrAlreadyExists = errors.New("user already exists")
	ErrNotFound      = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrWrongSecret   = errors.New("wrong secret word")
)

// ValidationError reports an input that failed a length or presence check.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// User is a registered account. Credentials are stored and compared as-is;
// the database is local and single-user.
type User struct {
	Password   string `json:"pass"`
	Secret     string `json:"secret"`
	FirstLogin bool   `json:"isNew"`
}

// Registry holds all registered users and persists the full set on every
// successful mutation.
type Registry struct {
	kv    *storage.KV
	users map[string]User
}

func OpenRegistry(kv *storage.KV) (*Registry, error) {
	users := map[string]User{}
	if _, err := kv.Get(storage.KeyUsers, &users); err != nil {
		return nil, err
	}
	return &Registry{kv: kv, users: users}, nil
}

func (r *Registry) Register(username, password, secret string) error {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLen {
		return &ValidationError{Field: "username", Reason: fmt.Sprintf("must be at least %d characters", MinUsernameLen)}
	}
	if len(password) < MinPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	if strings.TrimSpace(secret) == "" {
		return &ValidationError{Field: "secret word", Reason: "is required for recovery"}
	}
	if _, ok := r.users[username]; ok {
		return ErrAlreadyExists
	}
	r.users[username] = User{Password: password, Secret: secret, FirstLogin: true}
	return r.persist()
}

func (r *Registry) Authenticate(username, password string) error {
	u, ok := r.users[username]
	if !ok {
		return ErrNotFound
	}
	if u.Password != password {
		return ErrWrongPassword
	}
	return nil
}

func (r *Registry) ResetPassword(username, secret, newPassword string) error {
	u, ok := r.users[username]
	if !ok {
		return ErrNotFound
	}
	if u.Secret != secret {
		return ErrWrongSecret
	}
	if len(newPassword) < MinPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	u.Password = newPassword
	r.users[username] = u
	return r.persist()
}

// FirstLogin reports whether the user still has the onboarding flag set.
func (r *Registry) FirstLogin(username string) bool {
	u, ok := r.users[username]
	return ok && u.FirstLogin
}

// ClearFirstLogin drops the onboarding flag. No-op for unknown users.
func (r *Registry) ClearFirstLogin(username string) error {
	u, ok := r.users[username]
	if !ok || !u.FirstLogin {
		return nil
	}
	u.FirstLogin = false
	r.users[username] = u
	return r.persist()
}

func (r *Registry) Exists(username string) bool {
	_, ok := r.users[username]
	return ok
}

func (r *Registry) persist() error {
	return r.kv.Set(storage.KeyUsers, r.users)
}
