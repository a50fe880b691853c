package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-movie-api/internal/model"
)

// Strategy names. The set is closed; routes pick one when they are registered.
const (
	StrategyLocal = "local"
	StrategyJWT   = "jwt"
)

// TokenLifetime is fixed; tokens are never revoked, they expire.
const TokenLifetime = 7 * 24 * time.Hour

var ErrMissingSecret = errors.New("jwt signing secret is required")

// Strategy authenticates an incoming request and resolves it to a user.
type Strategy interface {
	Name() string
	Authenticate(r *http.Request) (model.User, error)
}

// UserFinder is the read side of the credential store used by both strategies.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type Option func(*options)

type options struct {
	now func() time.Time
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// AuthorizeSelf allows user to act only on the account named username.
func AuthorizeSelf(user model.User, username string) error {
	if strings.TrimSpace(username) == "" || !strings.EqualFold(user.Username, username) {
		return fmt.Errorf("%w: %s may not act on %q", model.ErrPermissionDenied, user.Username, username)
	}
	return nil
}

// lookup keeps NotFound and StoreUnavailable apart; any other store error is
// reported as unavailable.
func lookup(ctx context.Context, users UserFinder, username string) (model.User, error) {
	user, err := users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrStoreUnavailable):
		return model.User{}, err
	default:
		return model.User{}, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
}

func secretCopy(secret []byte) ([]byte, error) {
	if strings.TrimSpace(string(secret)) == "" {
		return nil, ErrMissingSecret
	}
	out := make([]byte, len(secret))
	copy(out, secret)
	return out, nil
}
