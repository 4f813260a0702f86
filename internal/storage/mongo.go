// internal/storage/mongo.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pin-drop/internal/models"
)

// MongoStore mirrors the pin snapshot and KV blobs into MongoDB for setups
// that want durable storage off the device. The pins collection is fully
// rewritten on every flush, matching the single-document snapshot contract.
type MongoStore struct {
	Client *mongo.Client
	Pins   *mongo.Collection
	Meta   *mongo.Collection
	Blobs  *mongo.Collection
}

func NewMongoStore(uri string) (*MongoStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database("pindrop")
	return &MongoStore{
		Client: client,
		Pins:   db.Collection("pins"),
		Meta:   db.Collection("meta"),
		Blobs:  db.Collection("blobs"),
	}, nil
}

func (m *MongoStore) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	var meta struct {
		Version int `bson:"version"`
	}
	err := m.Meta.FindOne(ctx, bson.M{"_id": "snapshot"}).Decode(&meta)
	switch {
	case err == nil:
		snap.Version = meta.Version
	case errors.Is(err, mongo.ErrNoDocuments):
		// First run against this database; nothing persisted yet.
		return nil, nil
	default:
		return nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}

	cursor, err := m.Pins.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read pins: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		// Re-encode each document as relaxed extended JSON so hydration can
		// run it through the same validator as the file path.
		data, err := bson.MarshalExtJSON(cursor.Current, false, false)
		if err != nil {
			continue
		}
		snap.Pins = append(snap.Pins, data)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pins: %w", err)
	}
	return snap, nil
}

func (m *MongoStore) Save(ctx context.Context, pins []models.Pin) error {
	if _, err := m.Pins.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear pins: %w", err)
	}
	if len(pins) > 0 {
		docs := make([]interface{}, 0, len(pins))
		for _, p := range pins {
			docs = append(docs, p)
		}
		if _, err := m.Pins.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to write pins: %w", err)
		}
	}

	_, err := m.Meta.UpdateOne(ctx,
		bson.M{"_id": "snapshot"},
		bson.M{"$set": bson.M{"version": SnapshotVersion, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot meta: %w", err)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	var doc struct {
		Blob []byte `bson:"blob"`
	}
	err := m.Blobs.FindOne(ctx, bson.M{"_id": namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s blob: %w", namespace, err)
	}
	return doc.Blob, nil
}

func (m *MongoStore) Put(ctx context.Context, namespace string, blob []byte) error {
	_, err := m.Blobs.UpdateOne(ctx,
		bson.M{"_id": namespace},
		bson.M{"$set": bson.M{"blob": blob, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s blob: %w", namespace, err)
	}
	return nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
