// Package store persists orders and members. The Mongo implementations are
// used by the server; the memory implementations back tests and local runs.
package store

import (
	"context"
	"errors"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches the id or filter
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate key")
)

// DefaultLimit caps list queries that do not set a limit
const DefaultLimit = 20

// OrderFilter selects orders for listing
type OrderFilter struct {
	Search     string // case-insensitive substring of name, phone, order number or dress
	Status     models.OrderStatus
	TailorID   *primitive.ObjectID
	LineUserID string
	Skip       int64
	Limit      int64
}

// UserFilter selects members for listing
type UserFilter struct {
	Search     string // case-insensitive substring of display name, real name or phone
	Role       models.Role
	ActiveOnly bool
	Skip       int64
	Limit      int64
}

// OrderStore is the persistence contract for orders
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Find(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is the persistence contract for members
type UserStore interface {
	// Upsert creates the member or refreshes its profile, keyed by LineUserID.
	// Role and IsActive are only written when the member is created.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByLineUserID(ctx context.Context, lineUserID string) (*models.User, error)
	Find(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

func limitOrDefault(limit int64) int64 {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
