package tile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI       string
	Database  string
	Namespace string
	Timeout   time.Duration
}

// MongoStore keeps tiles in the collection "tiles_<namespace>", keyed by
// cell id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = "hexglobe"
	}
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.Timeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStoreFromClient(client, opts.Database, opts.Namespace), nil
}

// NewMongoStoreFromClient uses an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database, namespace string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(CollectionName(namespace)),
	}
}

// CollectionName returns the collection used for namespace.
func CollectionName(namespace string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return "tiles_" + namespace
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Tile, error) {
	t := New(id)
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tile %s: %w", id, err)
	}
	return t, nil
}

func (s *MongoStore) Put(ctx context.Context, t *Tile) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert tile %s: %w", t.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete tile %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
