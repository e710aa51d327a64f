package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/labelspread/pkg/cache"
)

const (
	defaultMongoDatabase   = "labelspread"
	defaultMongoCollection = "sets"

	mongoConnectTimeout = 10 * time.Second
	mongoPingTimeout    = 2 * time.Second
)

// MongoStore persists sets in a MongoDB collection, one document per set
// keyed by the set ID. Use it when several API instances must share state.
type MongoStore struct {
	client *mongo.Client
	sets   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// retried ping, so a deploy that races the database coming up still
// succeeds. Empty database/collection names fall back to "labelspread"
// and "sets".
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = defaultMongoDatabase
	}
	if collection == "" {
		collection = defaultMongoCollection
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		sets:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*StoredSet, error) {
	var stored StoredSet
	err := s.sets.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find set: %w", err)
	}
	return &stored, nil
}

func (s *MongoStore) Put(ctx context.Context, set *StoredSet) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.sets.ReplaceOne(ctx, bson.M{"_id": set.ID}, set, opts); err != nil {
		return fmt.Errorf("store set: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.sets.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*StoredSet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.sets.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer cur.Close(ctx)

	var out []*StoredSet
	for cur.Next(ctx) {
		var stored StoredSet
		if err := cur.Decode(&stored); err != nil {
			return nil, fmt.Errorf("decode set: %w", err)
		}
		out = append(out, &stored)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
