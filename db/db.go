package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const databaseName = "lessondb"

// Stores bundles the document stores handed to the services at startup.
// The mongo client is process-wide; the stores themselves are injected so
// nothing below main reaches for a package-level collection.
type Stores struct {
	Client  *mongo.Client
	Lessons *LessonStore
	Orders  *AccountStore
	Admins  *AdminStore
}

// Connect dials MongoDB using MONGO_URI (localhost fallback) and returns the
// wired stores. ORDER_STORAGE=standalone switches the order store to the flat
// one-document-per-order variant.
func Connect(ctx context.Context) (*Stores, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	database := client.Database(databaseName)
	return &Stores{
		Client:  client,
		Lessons: &LessonStore{coll: database.Collection("lessons")},
		Orders: &AccountStore{
			coll:       database.Collection("orders"),
			standalone: os.Getenv("ORDER_STORAGE") == "standalone",
		},
		Admins: &AdminStore{coll: database.Collection("admins")},
	}, nil
}

// Close disconnects the client, tolerating a nil receiver for tests.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
