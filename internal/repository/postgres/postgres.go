package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"go-movie-api/internal/database"
	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

const uniqueViolation = "23505"

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db     *database.DB
	users  *UserRepository
	movies *MovieRepository
}

var (
	_ repository.Store      = (*Store)(nil)
	_ repository.UserStore  = (*UserRepository)(nil)
	_ repository.MovieStore = (*MovieRepository)(nil)
)

func New(db *database.DB) *Store {
	return &Store{
		db:     db,
		users:  NewUserRepository(db.Pool),
		movies: NewMovieRepository(db.Pool),
	}
}

func (s *Store) Users() repository.UserStore {
	return s.users
}

func (s *Store) Movies() repository.MovieStore {
	return s.movies
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Health(ctx); err != nil {
		return repository.Unavailable("ping postgres", err)
	}
	return nil
}

func (s *Store) Close() {
	s.db.Close()
}

func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, model.ErrUserAlreadyExists)
	}
	return repository.Unavailable(op, err)
}
