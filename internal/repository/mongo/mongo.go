package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"go-movie-api/internal/database"
	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

// Store implements repository.Store on MongoDB.
type Store struct {
	db     *database.Mongo
	users  *UserRepository
	movies *MovieRepository
}

var (
	_ repository.Store      = (*Store)(nil)
	_ repository.UserStore  = (*UserRepository)(nil)
	_ repository.MovieStore = (*MovieRepository)(nil)
)

func New(db *database.Mongo) *Store {
	return &Store{
		db:     db,
		users:  NewUserRepository(db.Database.Collection(database.UsersCollection)),
		movies: NewMovieRepository(db.Database.Collection(database.MoviesCollection)),
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
		return repository.Unavailable("ping mongo", err)
	}
	return nil
}

func (s *Store) Close() {
	s.db.Close()
}

func classify(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, model.ErrUserAlreadyExists)
	}
	return repository.Unavailable(op, err)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// equalFold matches a string field exactly, ignoring case.
func equalFold(value string) bson.Regex {
	return bson.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(value)) + "$", Options: "i"}
}
