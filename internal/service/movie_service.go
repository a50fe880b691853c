package service

import (
	"context"
	"fmt"
	"strings"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

type MovieService struct {
	movies repository.MovieStore
}

func NewMovieService(movies repository.MovieStore) *MovieService {
	return &MovieService{movies: movies}
}

func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	return s.movies.List(ctx)
}

func (s *MovieService) GetByTitle(ctx context.Context, title string) (model.Movie, error) {
	title, err := required("title", title)
	if err != nil {
		return model.Movie{}, err
	}
	return s.movies.FindByTitle(ctx, title)
}

func (s *MovieService) GetGenre(ctx context.Context, name string) (model.Genre, error) {
	name, err := required("genre name", name)
	if err != nil {
		return model.Genre{}, err
	}
	return s.movies.FindGenre(ctx, name)
}

func (s *MovieService) GetDirector(ctx context.Context, name string) (model.Director, error) {
	name, err := required("director name", name)
	if err != nil {
		return model.Director{}, err
	}
	return s.movies.FindDirector(ctx, name)
}

func required(field string, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", model.ErrInvalidInput, field)
	}
	return value, nil
}
