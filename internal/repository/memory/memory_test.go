package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-movie-api/internal/model"
)

func newUser(username string) model.User {
	now := time.Now().UTC()
	return model.User{
		ID:           username + "-id",
		Username:     username,
		PasswordHash: "$2a$04$digest",
		Email:        username + "@example.com",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice12")))

	t.Run("case insensitive lookup", func(t *testing.T) {
		u, err := repo.FindByUsername(ctx, "ALICE12")
		require.NoError(t, err)
		assert.Equal(t, "alice12", u.Username)
		assert.NotNil(t, u.FavoriteMovies)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, newUser("Alice12"))
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestUserRepository_CancelledContext(t *testing.T) {
	repo := NewUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByUsername(ctx, "alice12")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("alice12")))
	require.NoError(t, repo.Create(ctx, newUser("bob99")))

	t.Run("rename", func(t *testing.T) {
		u, err := repo.FindByUsername(ctx, "alice12")
		require.NoError(t, err)
		u.Username = "alice2024"

		updated, err := repo.Update(ctx, "alice12", u)
		require.NoError(t, err)
		assert.Equal(t, "alice2024", updated.Username)

		_, err = repo.FindByUsername(ctx, "alice12")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("rename onto taken username", func(t *testing.T) {
		u, err := repo.FindByUsername(ctx, "alice2024")
		require.NoError(t, err)
		u.Username = "BOB99"

		_, err = repo.Update(ctx, "alice2024", u)
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.Update(ctx, "ghost", newUser("ghost"))
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestUserRepository_Favorites(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("alice12")))

	_, err := repo.AddFavorite(ctx, "alice12", "tt1")
	require.NoError(t, err)
	_, err = repo.AddFavorite(ctx, "alice12", "tt2")
	require.NoError(t, err)
	u, err := repo.AddFavorite(ctx, "alice12", "tt1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tt1", "tt2"}, u.FavoriteMovies)

	u, err = repo.RemoveFavorite(ctx, "alice12", "tt1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tt2"}, u.FavoriteMovies)

	u, err = repo.RemoveFavorite(ctx, "alice12", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"tt2"}, u.FavoriteMovies)

	_, err = repo.AddFavorite(ctx, "ghost", "tt1")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("alice12")))

	u, err := repo.AddFavorite(ctx, "alice12", "tt1")
	require.NoError(t, err)
	u.FavoriteMovies[0] = "mutated"

	again, err := repo.FindByUsername(ctx, "alice12")
	require.NoError(t, err)
	assert.Equal(t, []string{"tt1"}, again.FavoriteMovies)
}

func TestUserRepository_ConcurrentFavorites(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("alice12")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AddFavorite(ctx, "alice12", "tt1")
		}()
	}
	wg.Wait()

	u, err := repo.FindByUsername(ctx, "alice12")
	require.NoError(t, err)
	assert.Equal(t, []string{"tt1"}, u.FavoriteMovies)
}

func TestUserRepository_DeleteAndList(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("charlie7")))
	require.NoError(t, repo.Create(ctx, newUser("alice12")))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice12", users[0].Username)

	require.NoError(t, repo.Delete(ctx, "Charlie7"))
	assert.ErrorIs(t, repo.Delete(ctx, "charlie7"), model.ErrUserNotFound)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestMovieRepository(t *testing.T) {
	repo := NewMovieRepository(Catalog())
	ctx := context.Background()

	t.Run("list sorted by title", func(t *testing.T) {
		movies, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, movies, len(Catalog()))
		assert.Equal(t, "2001: A Space Odyssey", movies[0].Title)
	})

	t.Run("find by title ignores case", func(t *testing.T) {
		m, err := repo.FindByTitle(ctx, "inception")
		require.NoError(t, err)
		assert.Equal(t, "tt1375666", m.ID)

		_, err = repo.FindByTitle(ctx, "Incep")
		assert.ErrorIs(t, err, model.ErrMovieNotFound)
	})

	t.Run("find by id", func(t *testing.T) {
		m, err := repo.FindByID(ctx, "tt0111161")
		require.NoError(t, err)
		assert.Equal(t, "The Shawshank Redemption", m.Title)

		_, err = repo.FindByID(ctx, "tt0000000")
		assert.ErrorIs(t, err, model.ErrMovieNotFound)
	})

	t.Run("genre and director", func(t *testing.T) {
		g, err := repo.FindGenre(ctx, "science fiction")
		require.NoError(t, err)
		assert.Equal(t, "Science Fiction", g.Name)

		d, err := repo.FindDirector(ctx, "stanley kubrick")
		require.NoError(t, err)
		assert.NotNil(t, d.Death)

		_, err = repo.FindGenre(ctx, "Western")
		assert.ErrorIs(t, err, model.ErrGenreNotFound)

		_, err = repo.FindDirector(ctx, "Nobody")
		assert.ErrorIs(t, err, model.ErrDirectorNotFound)
	})
}

func TestStore_Ping(t *testing.T) {
	s := New(nil)
	assert.NoError(t, s.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Ping(ctx), model.ErrStoreUnavailable)
}
