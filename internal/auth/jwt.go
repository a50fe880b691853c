package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"go-movie-api/internal/model"
)

// JWTStrategy verifies bearer tokens and resolves their subject back to a stored user.
type JWTStrategy struct {
	secret []byte
	users  UserFinder
	parser *jwt.Parser
}

func NewJWTStrategy(secret []byte, users UserFinder, opts ...Option) (*JWTStrategy, error) {
	key, err := secretCopy(secret)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(o.now),
	)

	return &JWTStrategy{secret: key, users: users, parser: parser}, nil
}

func (s *JWTStrategy) Name() string {
	return StrategyJWT
}

func (s *JWTStrategy) Authenticate(r *http.Request) (model.User, error) {
	raw, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", model.ErrMalformedToken, err)
	}

	return s.Verify(r.Context(), raw)
}

// Verify checks signature and expiry, then looks the subject up again so tokens
// of deleted users stop working before they expire.
func (s *JWTStrategy) Verify(ctx context.Context, raw string) (model.User, error) {
	subject, err := s.Subject(raw)
	if err != nil {
		return model.User{}, err
	}

	return lookup(ctx, s.users, subject)
}

// Subject validates raw without touching the store.
func (s *JWTStrategy) Subject(raw string) (string, error) {
	// Anything after the second dot belongs to the signature, so a stray dot
	// there is a bad signature rather than an extra segment.
	parts := strings.SplitN(raw, ".", 3)
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: expected 3 segments, got %d", model.ErrMalformedToken, len(parts))
	}
	for _, segment := range parts[:2] {
		if _, err := base64.RawURLEncoding.Strict().DecodeString(segment); err != nil {
			return "", fmt.Errorf("%w: segment is not base64url", model.ErrMalformedToken)
		}
	}

	// A signature segment with stray padding bits would otherwise decode to the
	// same bytes as the original.
	if _, err := base64.RawURLEncoding.Strict().DecodeString(parts[2]); err != nil {
		return "", fmt.Errorf("%w: signature segment is not base64url", model.ErrBadSignature)
	}

	claims := jwt.MapClaims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", fmt.Errorf("%w: %v", model.ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
	default:
		return "", fmt.Errorf("%w: %v", model.ErrMalformedToken, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("%w: missing subject", model.ErrMalformedToken)
	}

	return subject, nil
}
