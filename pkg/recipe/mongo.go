package recipe

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "recipeflow"
	DefaultMongoCollection = "recipes"

	mongoConnectTimeout = 10 * time.Second
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps recipes as documents keyed by recipe ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if err := errors.ValidateURI(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// List returns summaries of all stored recipes.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list recipes")
	}
	var recipes []Recipe
	if err := cur.All(ctx, &recipes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode recipes")
	}

	out := make([]Summary, 0, len(recipes))
	for i := range recipes {
		out = append(out, recipes[i].Summarize())
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a recipe by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Recipe, error) {
	if err := errors.ValidateRecipeID(id); err != nil {
		return nil, err
	}
	var r Recipe
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get recipe %q", id)
	}
	return &r, nil
}

// Put validates r and upserts it by ID.
func (s *MongoStore) Put(ctx context.Context, r *Recipe) error {
	if r.ID == "" {
		r.ID = Slug(r.Name)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "put recipe %q", r.ID)
	}
	return nil
}

// Delete removes a recipe. Deleting a missing recipe is not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete recipe %q", id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
