package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go-movie-api/internal/model"
	"go-movie-api/internal/repository"
)

type MovieRepository struct {
	coll *mongo.Collection
}

func NewMovieRepository(coll *mongo.Collection) *MovieRepository {
	return &MovieRepository{coll: coll}
}

func (r *MovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, classify("list movies", err)
	}

	movies := make([]model.Movie, 0)
	if err := cur.All(ctx, &movies); err != nil {
		return nil, classify("list movies", err)
	}
	for i := range movies {
		normalizeMovie(&movies[i])
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id string) (model.Movie, error) {
	return r.findOne(ctx, "find movie by id", bson.D{{Key: "_id", Value: id}}, model.ErrMovieNotFound, id)
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (model.Movie, error) {
	return r.findOne(ctx, "find movie by title", bson.D{{Key: "title", Value: equalFold(title)}}, model.ErrMovieNotFound, title)
}

func (r *MovieRepository) FindGenre(ctx context.Context, name string) (model.Genre, error) {
	m, err := r.findOne(ctx, "find genre", bson.D{{Key: "genre.name", Value: equalFold(name)}}, model.ErrGenreNotFound, name)
	if err != nil {
		return model.Genre{}, err
	}
	return m.Genre, nil
}

func (r *MovieRepository) FindDirector(ctx context.Context, name string) (model.Director, error) {
	m, err := r.findOne(ctx, "find director", bson.D{{Key: "director.name", Value: equalFold(name)}}, model.ErrDirectorNotFound, name)
	if err != nil {
		return model.Director{}, err
	}
	return m.Director, nil
}

// Insert is used by seeding and integration tests; the HTTP surface is read-only.
// Existing ids are left untouched so seeding can be rerun.
func (r *MovieRepository) Insert(ctx context.Context, m model.Movie) (bool, error) {
	if m.Actors == nil {
		m.Actors = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, repository.Unavailable("insert movie", err)
	}
	return true, nil
}

func (r *MovieRepository) findOne(ctx context.Context, op string, filter bson.D, notFound error, key string) (model.Movie, error) {
	var m model.Movie
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "title", Value: 1}})).Decode(&m)
	if isNoDocuments(err) {
		return model.Movie{}, fmt.Errorf("%w: %s", notFound, key)
	}
	if err != nil {
		return model.Movie{}, classify(op, err)
	}
	normalizeMovie(&m)
	return m, nil
}

func normalizeMovie(m *model.Movie) {
	if m.Actors == nil {
		m.Actors = []string{}
	}
}
