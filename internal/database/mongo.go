package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect establishes a MongoDB client and returns a handle to the named
// database. The connection attempt is bounded to 10 seconds and verified
// with a ping so a bad URI fails at startup, not on first use.
//
// Typical usage:
//
//	client, db, err := database.Connect(cfg.MongoURI, cfg.DBName)
//	if err != nil { … }
//	defer database.Disconnect(client)
func Connect(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		// Disconnect on ping failure to avoid leaking sockets.
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	return client, client.Database(dbName), nil
}

// Disconnect tears the client down with a short grace period.
func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}
