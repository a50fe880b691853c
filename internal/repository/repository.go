package repository

import (
	"context"
	"errors"
	"fmt"

	"go-movie-api/internal/model"
)

// UserStore persists user identity records. Usernames match case-insensitively.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user model.User) error
	// Update replaces the profile of the user currently named username.
	Update(ctx context.Context, username string, user model.User) (model.User, error)
	Delete(ctx context.Context, username string) error
	// AddFavorite appends movieID unless it is already present.
	AddFavorite(ctx context.Context, username string, movieID string) (model.User, error)
	RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error)
}

// MovieStore is the read-only movie catalog.
type MovieStore interface {
	List(ctx context.Context) ([]model.Movie, error)
	FindByID(ctx context.Context, id string) (model.Movie, error)
	FindByTitle(ctx context.Context, title string) (model.Movie, error)
	FindGenre(ctx context.Context, name string) (model.Genre, error)
	FindDirector(ctx context.Context, name string) (model.Director, error)
}

// Store bundles one backend's repositories.
type Store interface {
	Users() UserStore
	Movies() MovieStore
	Ping(ctx context.Context) error
	Close()
}

// Unavailable wraps a backend failure so callers can tell it apart from not-found.
func Unavailable(op string, err error) error {
	if errors.Is(err, model.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
