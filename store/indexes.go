package store

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes both collections rely on. It is safe to
// run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	orderIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_order_number"),
		},
		{Keys: bson.D{{Key: "lineUserId", Value: 1}}},
		{Keys: bson.D{{Key: "tailorId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := db.Collection(models.OrdersCollection).Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "lineUserId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_line_user_id"),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	if _, err := db.Collection(models.UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}
