package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go-movie-api/internal/model"
)

// userDocument carries username_key, the lowercased username the unique index is built on.
type userDocument struct {
	ID             string     `bson:"_id"`
	Username       string     `bson:"username"`
	UsernameKey    string     `bson:"username_key"`
	PasswordHash   string     `bson:"password_hash"`
	Email          string     `bson:"email"`
	Birthday       *time.Time `bson:"birthday,omitempty"`
	FavoriteMovies []string   `bson:"favorite_movies"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
}

func toDocument(u model.User) userDocument {
	favorites := u.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	return userDocument{
		ID:             u.ID,
		Username:       u.Username,
		UsernameKey:    usernameKey(u.Username),
		PasswordHash:   u.PasswordHash,
		Email:          u.Email,
		Birthday:       u.Birthday,
		FavoriteMovies: favorites,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (d userDocument) toModel() model.User {
	favorites := d.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	return model.User{
		ID:             d.ID,
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		Email:          d.Email,
		Birthday:       d.Birthday,
		FavoriteMovies: favorites,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "username_key", Value: usernameKey(username)}}).Decode(&doc)
	if isNoDocuments(err) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.User{}, classify("find user by username", err)
	}
	return doc.toModel(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "username_key", Value: 1}}))
	if err != nil {
		return nil, classify("list users", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("list users", err)
	}

	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(u)); err != nil {
		return classify("create user", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, username string, u model.User) (model.User, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "username", Value: u.Username},
		{Key: "username_key", Value: usernameKey(u.Username)},
		{Key: "password_hash", Value: u.PasswordHash},
		{Key: "email", Value: u.Email},
		{Key: "birthday", Value: u.Birthday},
		{Key: "updated_at", Value: u.UpdatedAt},
	}}}
	return r.findAndUpdate(ctx, "update user", username, update)
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "username_key", Value: usernameKey(username)}})
	if err != nil {
		return classify("delete user", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	return nil
}

func (r *UserRepository) AddFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "favorite_movies", Value: movieID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}
	return r.findAndUpdate(ctx, "add favorite", username, update)
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username string, movieID string) (model.User, error) {
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "favorite_movies", Value: movieID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}
	return r.findAndUpdate(ctx, "remove favorite", username, update)
}

func (r *UserRepository) findAndUpdate(ctx context.Context, op string, username string, update bson.D) (model.User, error) {
	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "username_key", Value: usernameKey(username)}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if isNoDocuments(err) {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.User{}, classify(op, err)
	}
	return doc.toModel(), nil
}
