package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-movie-api/internal/model"
)

type mockStore struct {
	users  *MockUserStore
	movies *MockMovieStore
	closed bool
	ping   func(ctx context.Context) error
}

func (s *mockStore) Users() UserStore   { return s.users }
func (s *mockStore) Movies() MovieStore { return s.movies }
func (s *mockStore) Close()             { s.closed = true }

func (s *mockStore) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func waitForDeadline(args mock.Arguments) {
	<-args.Get(0).(context.Context).Done()
}

func TestWithTimeout_SlowCallIsUnavailable(t *testing.T) {
	inner := &mockStore{users: new(MockUserStore), movies: new(MockMovieStore)}
	inner.users.On("FindByUsername", mock.Anything, "alice12").
		Run(waitForDeadline).
		Return(model.User{}, context.DeadlineExceeded)
	inner.movies.On("FindGenre", mock.Anything, "Drama").
		Run(waitForDeadline).
		Return(model.Genre{}, context.DeadlineExceeded)

	store := WithTimeout(inner, 20*time.Millisecond)

	started := time.Now()
	_, err := store.Users().FindByUsername(context.Background(), "alice12")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.Less(t, time.Since(started), 2*time.Second)

	_, err = store.Movies().FindGenre(context.Background(), "Drama")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestWithTimeout_SetsDeadline(t *testing.T) {
	inner := &mockStore{users: new(MockUserStore), movies: new(MockMovieStore)}
	var deadline time.Time
	var hasDeadline bool
	inner.users.On("Delete", mock.Anything, "alice12").
		Run(func(args mock.Arguments) {
			deadline, hasDeadline = args.Get(0).(context.Context).Deadline()
		}).
		Return(nil)

	store := WithTimeout(inner, time.Minute)
	require.NoError(t, store.Users().Delete(context.Background(), "alice12"))

	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestWithTimeout_PassesThroughOtherErrors(t *testing.T) {
	inner := &mockStore{users: new(MockUserStore), movies: new(MockMovieStore)}
	inner.users.On("FindByUsername", mock.Anything, "ghost99").Return(model.User{}, model.ErrUserNotFound)
	inner.ping = func(context.Context) error { return errors.New("ping refused") }

	store := WithTimeout(inner, time.Second)

	_, err := store.Users().FindByUsername(context.Background(), "ghost99")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.NotErrorIs(t, err, model.ErrStoreUnavailable)

	assert.EqualError(t, store.Ping(context.Background()), "ping refused")

	store.Close()
	assert.True(t, inner.closed)
}

func TestWithTimeout_NonPositiveIsNoop(t *testing.T) {
	inner := &mockStore{users: new(MockUserStore), movies: new(MockMovieStore)}
	assert.Same(t, inner, WithTimeout(inner, 0))
}
