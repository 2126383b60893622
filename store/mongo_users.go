package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore keeps members in the "users" collection
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(models.UsersCollection)}
}

func (s *MongoUserStore) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if user.DisplayName != "" {
		set["displayName"] = user.DisplayName
	}
	if user.PictureURL != "" {
		set["pictureUrl"] = user.PictureURL
	}
	if user.RealName != "" {
		set["realName"] = user.RealName
	}
	if user.Phone != "" {
		set["phone"] = user.Phone
	}
	if user.Address != "" {
		set["address"] = user.Address
	}

	role := user.Role
	if role == "" {
		role = models.RoleCustomer
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"role":      role,
			"isActive":  true,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"lineUserId": user.LineUserID}, update, opts).Decode(&saved)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &saved, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByLineUserID(ctx context.Context, lineUserID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"lineUserId": lineUserID})
}

func (s *MongoUserStore) findOne(ctx context.Context, query bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, query).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) Find(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.ActiveOnly {
		query["isActive"] = true
	}
	if filter.Search != "" {
		query["$or"] = containsAny(filter.Search, "displayName", "realName", "phone")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(limitOrDefault(filter.Limit))

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

func (s *MongoUserStore) Update(ctx context.Context, user *models.User) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
