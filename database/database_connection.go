package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	CategoriesCollection    = "categories"
	ProductsCollection      = "products"
	CustomersCollection     = "customers"
	UsersCollection         = "users"
	RefreshTokensCollection = "refresh_tokens"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Println("Pinged your deployment. You successfully connected to MongoDB!")
	return client, nil
}

// NewMongoStore wires every repository to databaseName. When transactions is
// false, Store.Tx runs its callback without a session (standalone servers
// do not support multi-document transactions).
func NewMongoStore(client *mongo.Client, databaseName string, transactions bool) *Store {
	db := client.Database(databaseName)
	return &Store{
		Categories:    &mongoCategories{col: db.Collection(CategoriesCollection)},
		Products:      &mongoProducts{col: db.Collection(ProductsCollection)},
		Customers:     &mongoCustomers{col: db.Collection(CustomersCollection)},
		Users:         &mongoUsers{col: db.Collection(UsersCollection)},
		RefreshTokens: &mongoRefreshTokens{col: db.Collection(RefreshTokensCollection)},
		Tx:            &mongoTransactor{client: client, enabled: transactions},
	}
}

type mongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}
