package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-movie-api/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Update(ctx context.Context, username string, user model.User) (model.User, error) {
	args := m.Called(ctx, username, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserStore) AddFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	args := m.Called(ctx, username, movieID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	args := m.Called(ctx, username, movieID)
	return args.Get(0).(model.User), args.Error(1)
}

type MockMovieStore struct {
	mock.Mock
}

func (m *MockMovieStore) List(ctx context.Context) ([]model.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockMovieStore) FindByID(ctx context.Context, id string) (model.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Movie), args.Error(1)
}

func (m *MockMovieStore) FindByTitle(ctx context.Context, title string) (model.Movie, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(model.Movie), args.Error(1)
}

func (m *MockMovieStore) FindGenre(ctx context.Context, name string) (model.Genre, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Genre), args.Error(1)
}

func (m *MockMovieStore) FindDirector(ctx context.Context, name string) (model.Director, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Director), args.Error(1)
}
