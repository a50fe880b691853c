package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

const movieColumns = `id, title, description, genre_name, genre_description,
	director_name, director_bio, director_birth, director_death, actors, image_path, featured`

type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

func (r *MovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, classify("list movies", err)
	}
	defer rows.Close()

	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, classify("scan movie", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list movies", err)
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (model.Movie, error) {
	m, err := scanMovie(r.pool.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Movie{}, fmt.Errorf("%w: %s", model.ErrMovieNotFound, id)
	}
	if err != nil {
		return model.Movie{}, classify("find movie by id", err)
	}
	return m, nil
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (model.Movie, error) {
	m, err := scanMovie(r.pool.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE lower(title) = lower($1) ORDER BY id LIMIT 1`,
		strings.TrimSpace(title)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Movie{}, fmt.Errorf("%w: %s", model.ErrMovieNotFound, title)
	}
	if err != nil {
		return model.Movie{}, classify("find movie by title", err)
	}
	return m, nil
}

func (r *MovieRepository) FindGenre(ctx context.Context, name string) (model.Genre, error) {
	var g model.Genre
	err := r.pool.QueryRow(ctx,
		`SELECT genre_name, genre_description FROM movies
		 WHERE lower(genre_name) = lower($1) ORDER BY title LIMIT 1`,
		strings.TrimSpace(name)).Scan(&g.Name, &g.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Genre{}, fmt.Errorf("%w: %s", model.ErrGenreNotFound, name)
	}
	if err != nil {
		return model.Genre{}, classify("find genre", err)
	}
	return g, nil
}

func (r *MovieRepository) FindDirector(ctx context.Context, name string) (model.Director, error) {
	var d model.Director
	err := r.pool.QueryRow(ctx,
		`SELECT director_name, director_bio, director_birth, director_death FROM movies
		 WHERE lower(director_name) = lower($1) ORDER BY title LIMIT 1`,
		strings.TrimSpace(name)).Scan(&d.Name, &d.Bio, &d.Birth, &d.Death)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Director{}, fmt.Errorf("%w: %s", model.ErrDirectorNotFound, name)
	}
	if err != nil {
		return model.Director{}, classify("find director", err)
	}
	return d, nil
}

// Insert is used by seeding and integration tests; the HTTP surface is read-only.
// Existing ids are left untouched and reported as false so seeding can be rerun.
func (r *MovieRepository) Insert(ctx context.Context, m model.Movie) (bool, error) {
	actors := m.Actors
	if actors == nil {
		actors = []string{}
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO movies (`+movieColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO NOTHING`,
		m.ID, m.Title, m.Description, m.Genre.Name, m.Genre.Description,
		m.Director.Name, m.Director.Bio, m.Director.Birth, m.Director.Death,
		actors, m.ImagePath, m.Featured)
	if err != nil {
		return false, repository.Unavailable("insert movie", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanMovie(row pgx.Row) (model.Movie, error) {
	var m model.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Genre.Name, &m.Genre.Description,
		&m.Director.Name, &m.Director.Bio, &m.Director.Birth, &m.Director.Death,
		&m.Actors, &m.ImagePath, &m.Featured)
	if err != nil {
		return model.Movie{}, err
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return m, nil
}
