package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-movie-api/internal/model"
)

const userColumns = `id, username, password_hash, email, birthday, favorite_movies, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`,
		strings.TrimSpace(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.User{}, classify("find user by username", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, classify("list users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list users", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	favorites := u.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.PasswordHash, u.Email, u.Birthday, favorites, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return classify("create user", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, username string, u model.User) (model.User, error) {
	updated, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET username = $2, password_hash = $3, email = $4, birthday = $5, updated_at = $6
		 WHERE lower(username) = lower($1)
		 RETURNING `+userColumns,
		username, u.Username, u.PasswordHash, u.Email, u.Birthday, u.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.User{}, classify("update user", err)
	}
	return updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE lower(username) = lower($1)`, username)
	if err != nil {
		return classify("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	return nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET favorite_movies = CASE
		         WHEN $2::text = ANY(favorite_movies) THEN favorite_movies
		         ELSE array_append(favorite_movies, $2::text)
		     END,
		     updated_at = $3
		 WHERE lower(username) = lower($1)
		 RETURNING `+userColumns,
		username, movieID, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.User{}, classify("add favorite", err)
	}
	return u, nil
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET favorite_movies = array_remove(favorite_movies, $2::text), updated_at = $3
		 WHERE lower(username) = lower($1)
		 RETURNING `+userColumns,
		username, movieID, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.User{}, classify("remove favorite", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Birthday,
		&u.FavoriteMovies, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
	return u, nil
}
