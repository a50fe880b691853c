package repository

import (
	"context"
	"errors"
	"time"

	"go-movie-api/internal/model"
)

// WithTimeout bounds every call on store to d. A call that runs out of time
// reports ErrStoreUnavailable. A non-positive d returns store unchanged.
func WithTimeout(store Store, d time.Duration) Store {
	if d <= 0 {
		return store
	}
	return &timeoutStore{
		inner:   store,
		users:   &timeoutUserStore{inner: store.Users(), timeout: d},
		movies:  &timeoutMovieStore{inner: store.Movies(), timeout: d},
		timeout: d,
	}
}

type timeoutStore struct {
	inner   Store
	users   UserStore
	movies  MovieStore
	timeout time.Duration
}

func (s *timeoutStore) Users() UserStore   { return s.users }
func (s *timeoutStore) Movies() MovieStore { return s.movies }
func (s *timeoutStore) Close()             { s.inner.Close() }

func (s *timeoutStore) Ping(ctx context.Context) error {
	_, err := bounded(ctx, s.timeout, "ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.inner.Ping(ctx)
	})
	return err
}

func bounded[T any](ctx context.Context, d time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	v, err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return v, Unavailable(op, err)
	}
	return v, err
}

func boundedErr(ctx context.Context, d time.Duration, op string, fn func(context.Context) error) error {
	_, err := bounded(ctx, d, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

type timeoutUserStore struct {
	inner   UserStore
	timeout time.Duration
}

func (s *timeoutUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return bounded(ctx, s.timeout, "find user", func(ctx context.Context) (model.User, error) {
		return s.inner.FindByUsername(ctx, username)
	})
}

func (s *timeoutUserStore) List(ctx context.Context) ([]model.User, error) {
	return bounded(ctx, s.timeout, "list users", s.inner.List)
}

func (s *timeoutUserStore) Create(ctx context.Context, user model.User) error {
	return boundedErr(ctx, s.timeout, "create user", func(ctx context.Context) error {
		return s.inner.Create(ctx, user)
	})
}

func (s *timeoutUserStore) Update(ctx context.Context, username string, user model.User) (model.User, error) {
	return bounded(ctx, s.timeout, "update user", func(ctx context.Context) (model.User, error) {
		return s.inner.Update(ctx, username, user)
	})
}

func (s *timeoutUserStore) Delete(ctx context.Context, username string) error {
	return boundedErr(ctx, s.timeout, "delete user", func(ctx context.Context) error {
		return s.inner.Delete(ctx, username)
	})
}

func (s *timeoutUserStore) AddFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	return bounded(ctx, s.timeout, "add favorite", func(ctx context.Context) (model.User, error) {
		return s.inner.AddFavorite(ctx, username, movieID)
	})
}

func (s *timeoutUserStore) RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	return bounded(ctx, s.timeout, "remove favorite", func(ctx context.Context) (model.User, error) {
		return s.inner.RemoveFavorite(ctx, username, movieID)
	})
}

type timeoutMovieStore struct {
	inner   MovieStore
	timeout time.Duration
}

func (s *timeoutMovieStore) List(ctx context.Context) ([]model.Movie, error) {
	return bounded(ctx, s.timeout, "list movies", s.inner.List)
}

func (s *timeoutMovieStore) FindByID(ctx context.Context, id string) (model.Movie, error) {
	return bounded(ctx, s.timeout, "find movie", func(ctx context.Context) (model.Movie, error) {
		return s.inner.FindByID(ctx, id)
	})
}

func (s *timeoutMovieStore) FindByTitle(ctx context.Context, title string) (model.Movie, error) {
	return bounded(ctx, s.timeout, "find movie", func(ctx context.Context) (model.Movie, error) {
		return s.inner.FindByTitle(ctx, title)
	})
}

func (s *timeoutMovieStore) FindGenre(ctx context.Context, name string) (model.Genre, error) {
	return bounded(ctx, s.timeout, "find genre", func(ctx context.Context) (model.Genre, error) {
		return s.inner.FindGenre(ctx, name)
	})
}

func (s *timeoutMovieStore) FindDirector(ctx context.Context, name string) (model.Director, error) {
	return bounded(ctx, s.timeout, "find director", func(ctx context.Context) (model.Director, error) {
		return s.inner.FindDirector(ctx, name)
	})
}
