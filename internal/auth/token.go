package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-movie-api/internal/model"
)

var reservedClaims = map[string]struct{}{
	"sub": {}, "uid": {}, "jti": {}, "iat": {}, "exp": {}, "nbf": {}, "iss": {}, "aud": {},
}

// Issuer mints HS256 bearer tokens. The secret is fixed for the life of the process.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	key, err := secretCopy(secret)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	return &Issuer{secret: key, now: o.now}, nil
}

// Issue signs a token for user. Extra claims are copied in unless they collide
// with a registered claim name.
func (i *Issuer) Issue(user model.User, extra map[string]any) (model.Token, error) {
	now := i.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(TokenLifetime)

	claims := jwt.MapClaims{}
	for key, value := range extra {
		if _, reserved := reservedClaims[key]; reserved {
			continue
		}
		claims[key] = value
	}
	claims["sub"] = user.Username
	claims["uid"] = user.ID
	claims["jti"] = uuid.NewString()
	claims["iat"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return model.Token{}, fmt.Errorf("sign token: %w", err)
	}

	return model.Token{
		Value:     signed,
		Subject:   user.Username,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}
