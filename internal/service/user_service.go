package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-movie-api/internal/auth"
	"go-movie-api/internal/event"
	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
	"go-movie-api/internal/validation"
)

type UserService struct {
	users  repository.UserStore
	movies repository.MovieStore
	hasher auth.PasswordHasher
	bus    event.Bus
	now    func() time.Time
}

func NewUserService(users repository.UserStore, movies repository.MovieStore, hasher auth.PasswordHasher, bus event.Bus) *UserService {
	return &UserService{
		users:  users,
		movies: movies,
		hasher: hasher,
		bus:    bus,
		now:    time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	now := s.now().UTC()
	birthday, err := validation.Registration(req, now)
	if err != nil {
		return model.User{}, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		PasswordHash:   digest,
		Email:          req.Email,
		Birthday:       birthday,
		FavoriteMovies: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeUserRegistered, user.Username, nil)
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, username string) (model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// Update applies a partial edit. A username change means tokens issued under
// the old name stop resolving.
func (s *UserService) Update(ctx context.Context, username string, req model.UpdateUserRequest) (model.User, error) {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}

	now := s.now().UTC()
	birthday, err := validation.Update(req, now)
	if err != nil {
		return model.User{}, err
	}

	current, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.User{}, err
	}

	next := current
	changed := make([]string, 0, 4)
	if req.Username != nil && *req.Username != current.Username {
		next.Username = *req.Username
		changed = append(changed, "username")
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return model.User{}, err
		}
		next.PasswordHash = digest
		changed = append(changed, "password")
	}
	if req.Email != nil {
		next.Email = *req.Email
		changed = append(changed, "email")
	}
	if req.Birthday != nil {
		next.Birthday = birthday
		changed = append(changed, "birthday")
	}
	next.UpdatedAt = now

	updated, err := s.users.Update(ctx, current.Username, next)
	if err != nil {
		return model.User{}, err
	}

	payload := map[string]string{"fields": strings.Join(changed, ",")}
	if updated.Username != current.Username {
		payload["previous_username"] = current.Username
	}
	s.publish(event.TypeUserUpdated, updated.Username, payload)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}

	s.publish(event.TypeUserDeleted, username, nil)
	return nil
}

// AddFavorite is idempotent; the movie has to exist in the catalog.
func (s *UserService) AddFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return model.User{}, fmt.Errorf("%w: movie id is required", model.ErrInvalidInput)
	}

	if _, err := s.movies.FindByID(ctx, movieID); err != nil {
		return model.User{}, err
	}

	user, err := s.users.AddFavorite(ctx, username, movieID)
	if err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeFavoriteAdded, user.Username, map[string]string{"movie_id": movieID})
	return user, nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return model.User{}, fmt.Errorf("%w: movie id is required", model.ErrInvalidInput)
	}

	user, err := s.users.RemoveFavorite(ctx, username, movieID)
	if err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeFavoriteRemoved, user.Username, map[string]string{"movie_id": movieID})
	return user, nil
}

func (s *UserService) publish(t event.Type, username string, payload map[string]string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.New(t, username, payload))
}
