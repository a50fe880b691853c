package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

// Store is an in-process repository.Store for local development and tests.
type Store struct {
	users  *UserRepository
	movies *MovieRepository
}

var (
	_ repository.Store      = (*Store)(nil)
	_ repository.UserStore  = (*UserRepository)(nil)
	_ repository.MovieStore = (*MovieRepository)(nil)
)

func New(movies []model.Movie) *Store {
	return &Store{
		users:  NewUserRepository(),
		movies: NewMovieRepository(movies),
	}
}

func (s *Store) Users() repository.UserStore {
	return s.users
}

func (s *Store) Movies() repository.MovieStore {
	return s.movies
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return repository.Unavailable("ping memory", err)
	}
	return nil
}

func (s *Store) Close() {}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return repository.Unavailable(op, err)
	}
	return nil
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]model.User)}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	if err := checkContext(ctx, "find user by username"); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[key(username)]
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	return cloneUser(u), nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	if err := checkContext(ctx, "list users"); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return key(users[i].Username) < key(users[j].Username)
	})
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	if err := checkContext(ctx, "create user"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(u.Username)
	if _, exists := r.users[k]; exists {
		return fmt.Errorf("create user: %w", model.ErrUserAlreadyExists)
	}
	r.users[k] = cloneUser(u)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, username string, u model.User) (model.User, error) {
	if err := checkContext(ctx, "update user"); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	oldKey := key(username)
	current, ok := r.users[oldKey]
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}

	newKey := key(u.Username)
	if newKey != oldKey {
		if _, taken := r.users[newKey]; taken {
			return model.User{}, fmt.Errorf("update user: %w", model.ErrUserAlreadyExists)
		}
	}

	current.Username = u.Username
	current.PasswordHash = u.PasswordHash
	current.Email = u.Email
	current.Birthday = u.Birthday
	current.UpdatedAt = u.UpdatedAt

	delete(r.users, oldKey)
	r.users[newKey] = current
	return cloneUser(current), nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	if err := checkContext(ctx, "delete user"); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(username)
	if _, ok := r.users[k]; !ok {
		return fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	delete(r.users, k)
	return nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	return r.mutateFavorites(ctx, "add favorite", username, func(favs []string) []string {
		if slices.Contains(favs, movieID) {
			return favs
		}
		return append(favs, movieID)
	})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	return r.mutateFavorites(ctx, "remove favorite", username, func(favs []string) []string {
		return slices.DeleteFunc(favs, func(id string) bool { return id == movieID })
	})
}

func (r *UserRepository) mutateFavorites(ctx context.Context, op string, username string, fn func([]string) []string) (model.User, error) {
	if err := checkContext(ctx, op); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(username)
	u, ok := r.users[k]
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	u.FavoriteMovies = fn(slices.Clone(u.FavoriteMovies))
	u.UpdatedAt = time.Now().UTC()
	r.users[k] = u
	return cloneUser(u), nil
}

func cloneUser(u model.User) model.User {
	u.FavoriteMovies = slices.Clone(u.FavoriteMovies)
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
	if u.Birthday != nil {
		b := *u.Birthday
		u.Birthday = &b
	}
	return u
}

// MovieRepository is populated once at construction and never written afterwards.
type MovieRepository struct {
	movies []model.Movie
}

func NewMovieRepository(movies []model.Movie) *MovieRepository {
	sorted := slices.Clone(movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i].Title) < key(sorted[j].Title)
	})
	return &MovieRepository{movies: sorted}
}

func (r *MovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	if err := checkContext(ctx, "list movies"); err != nil {
		return nil, err
	}
	out := make([]model.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, cloneMovie(m))
	}
	return out, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (model.Movie, error) {
	if err := checkContext(ctx, "find movie by id"); err != nil {
		return model.Movie{}, err
	}
	for _, m := range r.movies {
		if m.ID == id {
			return cloneMovie(m), nil
		}
	}
	return model.Movie{}, fmt.Errorf("%w: %s", model.ErrMovieNotFound, id)
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (model.Movie, error) {
	if err := checkContext(ctx, "find movie by title"); err != nil {
		return model.Movie{}, err
	}
	for _, m := range r.movies {
		if key(m.Title) == key(title) {
			return cloneMovie(m), nil
		}
	}
	return model.Movie{}, fmt.Errorf("%w: %s", model.ErrMovieNotFound, title)
}

func (r *MovieRepository) FindGenre(ctx context.Context, name string) (model.Genre, error) {
	if err := checkContext(ctx, "find genre"); err != nil {
		return model.Genre{}, err
	}
	for _, m := range r.movies {
		if key(m.Genre.Name) == key(name) {
			return m.Genre, nil
		}
	}
	return model.Genre{}, fmt.Errorf("%w: %s", model.ErrGenreNotFound, name)
}

func (r *MovieRepository) FindDirector(ctx context.Context, name string) (model.Director, error) {
	if err := checkContext(ctx, "find director"); err != nil {
		return model.Director{}, err
	}
	for _, m := range r.movies {
		if key(m.Director.Name) == key(name) {
			return m.Director, nil
		}
	}
	return model.Director{}, fmt.Errorf("%w: %s", model.ErrDirectorNotFound, name)
}

func cloneMovie(m model.Movie) model.Movie {
	m.Actors = slices.Clone(m.Actors)
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return m
}
