package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client to a MongoDB Atlas cluster and performs a Ping to
// ensure connectivity. Host is the bare srv hostname, credentials go through
// SCRAM-SHA-1 against the admin database (Atlas defaults).
func Connect(ctx context.Context, host, user, pass string) (*mongo.Client, error) {
	if host == "" || user == "" || pass == "" {
		return nil, fmt.Errorf("incomplete mongodb configuration")
	}
	opts := options.Client().
		ApplyURI("mongodb+srv://" + host).
		SetAuth(options.Credential{
			AuthMechanism: "SCRAM-SHA-1",
			AuthSource:    "admin",
			Username:      user,
			Password:      pass,
		}).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open mongo client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb atlas: %w", err)
	}
	return client, nil
}
