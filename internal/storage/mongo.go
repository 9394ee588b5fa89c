package storage

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetyard/fleetdash/internal/core"
)

// MongoCollection is the collection snapshot blobs are kept in.
const MongoCollection = "filter_snapshots"

type mongoSnapshot struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend stores blobs in a MongoDB collection, one document per key.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoBackend connects to uri and verifies the server is reachable.
func NewMongoBackend(uri, database string) (*MongoBackend, error) {
	ctx, cancel := core.ContextWithTimeout()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoBackend{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
	}, nil
}

func (b *MongoBackend) Get(key string) ([]byte, error) {
	ctx, cancel := core.ContextWithTimeout()
	defer cancel()

	var doc mongoSnapshot
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (b *MongoBackend) Set(key string, data []byte) error {
	ctx, cancel := core.ContextWithTimeout()
	defer cancel()

	doc := mongoSnapshot{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (b *MongoBackend) Delete(key string) error {
	ctx, cancel := core.ContextWithTimeout()
	defer cancel()

	_, err := b.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (b *MongoBackend) Keys(prefix string) ([]string, error) {
	ctx, cancel := core.ContextWithTimeout()
	defer cancel()

	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cursor, err := b.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	keys := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *MongoBackend) Close() error {
	ctx, cancel := core.ContextWithTimeout()
	defer cancel()
	return b.client.Disconnect(ctx)
}
