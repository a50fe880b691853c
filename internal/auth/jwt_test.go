package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

var testSecret = []byte("test-secret-value")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newPair(t *testing.T, clock *fakeClock, users UserFinder) (*Issuer, *JWTStrategy) {
	t.Helper()
	issuer, err := NewIssuer(testSecret, WithClock(clock.Now))
	require.NoError(t, err)
	verifier, err := NewJWTStrategy(testSecret, users, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer, verifier
}

func decodeSegment(t *testing.T, segment string) map[string]any {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestIssuer_Issue(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer, _ := newPair(t, clock, nil)

	tok, err := issuer.Issue(model.User{ID: "u-1", Username: "alice12"}, map[string]any{"role": "member", "sub": "mallory"})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)

	header := decodeSegment(t, parts[0])
	assert.Equal(t, "HS256", header["alg"])

	claims := decodeSegment(t, parts[1])
	assert.Equal(t, "alice12", claims["sub"])
	assert.Equal(t, "member", claims["role"])
	assert.Equal(t, float64(clock.t.Unix()), claims["iat"])
	assert.Equal(t, float64(clock.t.Add(7*24*time.Hour).Unix()), claims["exp"])
	assert.NotEmpty(t, claims["jti"])

	assert.Equal(t, "alice12", tok.Subject)
	assert.Equal(t, clock.t.Add(TokenLifetime), tok.ExpiresAt)
}

func TestNewIssuer_MissingSecret(t *testing.T) {
	_, err := NewIssuer(nil)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewJWTStrategy([]byte("   "), nil)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTStrategy_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	alice := model.User{ID: "u-1", Username: "alice12", FavoriteMovies: []string{}}

	users := new(repository.MockUserStore)
	users.On("FindByUsername", mock.Anything, "alice12").Return(alice, nil)
	issuer, verifier := newPair(t, clock, users)

	tok, err := issuer.Issue(alice, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := verifier.Verify(context.Background(), tok.Value)
		require.NoError(t, err)
		assert.Equal(t, alice, got)
	}
}

func TestJWTStrategy_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	issuer, verifier := newPair(t, clock, nil)

	tok, err := issuer.Issue(model.User{Username: "alice12"}, nil)
	require.NoError(t, err)

	clock.t = issuedAt.Add(7*24*time.Hour - time.Second)
	sub, err := verifier.Subject(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice12", sub)

	clock.t = issuedAt.Add(7*24*time.Hour + time.Second)
	_, err = verifier.Subject(tok.Value)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestJWTStrategy_SignatureTampering(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	issuer, verifier := newPair(t, clock, nil)

	tok, err := issuer.Issue(model.User{Username: "alice12"}, nil)
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	sig := []byte(parts[2])
	for i := range sig {
		mutated := append([]byte(nil), sig...)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		forged := parts[0] + "." + parts[1] + "." + string(mutated)

		_, err := verifier.Subject(forged)
		assert.ErrorIs(t, err, model.ErrBadSignature, "position %d", i)
	}
}

func TestJWTStrategy_SignatureAnyReplacement(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	issuer, verifier := newPair(t, clock, nil)

	tok, err := issuer.Issue(model.User{Username: "alice12"}, nil)
	require.NoError(t, err)

	parts := strings.SplitN(tok.Value, ".", 3)
	sig := []byte(parts[2])
	replacements := "ABab09-_.+/=~ "
	for i := range sig {
		for _, c := range []byte(replacements) {
			if sig[i] == c {
				continue
			}
			mutated := append([]byte(nil), sig...)
			mutated[i] = c
			forged := parts[0] + "." + parts[1] + "." + string(mutated)

			_, err := verifier.Subject(forged)
			assert.ErrorIs(t, err, model.ErrBadSignature, "position %d replaced with %q", i, c)
		}
	}
}

func TestJWTStrategy_PayloadTampering(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	issuer, verifier := newPair(t, clock, nil)

	tok, err := issuer.Issue(model.User{Username: "alice12"}, nil)
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	claims := decodeSegment(t, parts[1])
	claims["sub"] = "bob99"
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + parts[2]
	_, err = verifier.Subject(forged)
	assert.ErrorIs(t, err, model.ErrBadSignature)
}

func TestJWTStrategy_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	other, err := NewIssuer([]byte("another-secret"), WithClock(clock.Now))
	require.NoError(t, err)
	_, verifier := newPair(t, clock, nil)

	tok, err := other.Issue(model.User{Username: "alice12"}, nil)
	require.NoError(t, err)

	_, err = verifier.Subject(tok.Value)
	assert.ErrorIs(t, err, model.ErrBadSignature)
}

func TestJWTStrategy_Malformed(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	_, verifier := newPair(t, clock, nil)

	cases := map[string]string{
		"empty":         "",
		"two segments":  "abc.def",
		"four segments": "a.b.c.d",
		"garbage":       "not.a.dG9rZW4",
		"header only":   "eyJhbGciOiJIUzI1NiJ9..",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Subject(raw)
			assert.ErrorIs(t, err, model.ErrMalformedToken)
		})
	}
}

func TestJWTStrategy_Lookup(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}

	t.Run("deleted user", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").
			Return(model.User{}, fmt.Errorf("%w: alice12", model.ErrUserNotFound))
		issuer, verifier := newPair(t, clock, users)

		tok, err := issuer.Issue(model.User{Username: "alice12"}, nil)
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), tok.Value)
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("store unavailable", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").
			Return(model.User{}, repository.Unavailable("find user", context.DeadlineExceeded))
		issuer, verifier := newPair(t, clock, users)

		tok, err := issuer.Issue(model.User{Username: "alice12"}, nil)
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), tok.Value)
		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	})
}

func TestJWTStrategy_Authenticate(t *testing.T) {
	clock := &fakeClock{t: time.Now().UTC()}
	alice := model.User{ID: "u-1", Username: "alice12"}
	users := new(repository.MockUserStore)
	users.On("FindByUsername", mock.Anything, "alice12").Return(alice, nil)
	issuer, verifier := newPair(t, clock, users)
	assert.Equal(t, StrategyJWT, verifier.Name())

	tok, err := issuer.Issue(alice, nil)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "bearer "+tok.Value)
	got, err := verifier.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "alice12", got.Username)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest("GET", "/users", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		_, err := verifier.Authenticate(req)
		assert.ErrorIs(t, err, model.ErrMalformedToken, "header %q", header)
	}
}
