package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go-movie-api/internal/model"
)

const maxLoginBody = 64 << 10

// LocalStrategy checks a username/password pair against the credential store.
// It never writes to the store.
type LocalStrategy struct {
	users  UserFinder
	hasher PasswordHasher
	dummy  string
}

// NewLocalStrategy hashes the dummy digest up front so the first unknown
// username costs the same single compare as every later one.
func NewLocalStrategy(users UserFinder, hasher PasswordHasher) *LocalStrategy {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		slog.Warn("dummy password digest unavailable", "error", err)
	}
	return &LocalStrategy{users: users, hasher: hasher, dummy: dummy}
}

func (s *LocalStrategy) Name() string {
	return StrategyLocal
}

// Authenticate reads {username, password} from the request body.
func (s *LocalStrategy) Authenticate(r *http.Request) (model.User, error) {
	var payload model.LoginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxLoginBody)).Decode(&payload); err != nil {
		return model.User{}, fmt.Errorf("%w: invalid JSON body", model.ErrInvalidInput)
	}

	return s.Check(r.Context(), payload.Username, payload.Password)
}

func (s *LocalStrategy) Check(ctx context.Context, username string, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: missing credentials", model.ErrInvalidCredentials)
	}

	user, err := lookup(ctx, s.users, username)
	if errors.Is(err, model.ErrUserNotFound) {
		// Unknown users cost the same bcrypt round as known ones.
		_ = s.hasher.Verify(password, s.dummy)
		return model.User{}, err
	}
	if err != nil {
		return model.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.User{}, fmt.Errorf("%w: password mismatch", model.ErrInvalidCredentials)
	}

	return user, nil
}
