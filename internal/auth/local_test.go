package auth

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

func storedUser(t *testing.T, h PasswordHasher, username, password string) model.User {
	t.Helper()
	digest, err := h.Hash(password)
	require.NoError(t, err)
	return model.User{ID: "id-" + username, Username: username, PasswordHash: digest, FavoriteMovies: []string{}}
}

func TestLocalStrategy_Check(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	alice := storedUser(t, h, "alice12", "s3cret!")

	t.Run("success", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").Return(alice, nil)

		got, err := NewLocalStrategy(users, h).Check(context.Background(), "alice12", "s3cret!")
		require.NoError(t, err)
		assert.Equal(t, "alice12", got.Username)
		users.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").Return(alice, nil)

		_, err := NewLocalStrategy(users, h).Check(context.Background(), "alice12", "wrong")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "nobody1").
			Return(model.User{}, fmt.Errorf("%w: nobody1", model.ErrUserNotFound))

		_, err := NewLocalStrategy(users, h).Check(context.Background(), "nobody1", "s3cret!")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("store unavailable", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").
			Return(model.User{}, repository.Unavailable("find user", context.DeadlineExceeded))

		_, err := NewLocalStrategy(users, h).Check(context.Background(), "alice12", "s3cret!")
		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("unclassified store error is unavailable", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").
			Return(model.User{}, fmt.Errorf("connection reset"))

		_, err := NewLocalStrategy(users, h).Check(context.Background(), "alice12", "s3cret!")
		assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	})

	t.Run("empty credentials skip the store", func(t *testing.T) {
		users := new(repository.MockUserStore)

		_, err := NewLocalStrategy(users, h).Check(context.Background(), "  ", "")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestLocalStrategy_Authenticate(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	alice := storedUser(t, h, "alice12", "s3cret!")

	t.Run("reads json body", func(t *testing.T) {
		users := new(repository.MockUserStore)
		users.On("FindByUsername", mock.Anything, "alice12").Return(alice, nil)

		s := NewLocalStrategy(users, h)
		assert.Equal(t, StrategyLocal, s.Name())

		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":"alice12","password":"s3cret!"}`))
		got, err := s.Authenticate(req)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":`))
		_, err := NewLocalStrategy(new(repository.MockUserStore), h).Authenticate(req)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

type countingHasher struct {
	PasswordHasher
	hashes   int
	verifies int
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	h.hashes++
	return h.PasswordHasher.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext string, digest string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(plaintext, digest)
}

func TestLocalStrategy_UnknownUserCostsOneCompare(t *testing.T) {
	h := &countingHasher{PasswordHasher: NewBcryptHasher(bcrypt.MinCost)}
	s := NewLocalStrategy(new(repository.MockUserStore), h)
	require.Equal(t, 1, h.hashes)
	require.NotEmpty(t, s.dummy)

	users := new(repository.MockUserStore)
	users.On("FindByUsername", mock.Anything, "ghost99").Return(model.User{}, model.ErrUserNotFound)
	s.users = users

	for i := 0; i < 2; i++ {
		_, err := s.Check(context.Background(), "ghost99", "s3cret!")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	}

	assert.Equal(t, 1, h.hashes)
	assert.Equal(t, 2, h.verifies)
}
