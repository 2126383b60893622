package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryOrderStore is an in-process OrderStore. Callers always get copies.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]models.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[primitive.ObjectID]models.Order)}
}

func (s *MemoryOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return ErrDuplicate
		}
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (s *MemoryOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := copyOrder(order)
	return &found, nil
}

func (s *MemoryOrderStore) Find(_ context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})

	total := int64(len(matched))
	page := paginate(len(matched), filter.Skip, filter.Limit)
	orders := make([]models.Order, 0, page.end-page.start)
	for _, order := range matched[page.start:page.end] {
		orders = append(orders, copyOrder(order))
	}
	return orders, total, nil
}

func (s *MemoryOrderStore) Update(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.orders {
		if id != order.ID && existing.OrderNumber == order.OrderNumber {
			return ErrDuplicate
		}
	}
	s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (s *MemoryOrderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *MemoryOrderStore) match(filter OrderFilter) []models.Order {
	matched := []models.Order{}
	for _, order := range s.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.TailorID != nil && (order.TailorID == nil || *order.TailorID != *filter.TailorID) {
			continue
		}
		if filter.LineUserID != "" && order.LineUserID != filter.LineUserID {
			continue
		}
		if filter.Search != "" && !containsFold(filter.Search, order.CustomerName, order.Phone, order.OrderNumber, order.DressName) {
			continue
		}
		matched = append(matched, order)
	}
	return matched
}

// MemoryUserStore is an in-process UserStore keyed like the mongo one
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Upsert(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range s.users {
		if existing.LineUserID != user.LineUserID {
			continue
		}
		refreshProfile(&existing, user)
		existing.UpdatedAt = now
		s.users[id] = existing
		saved := existing
		return &saved, nil
	}

	created := models.User{
		ID:         primitive.NewObjectID(),
		LineUserID: user.LineUserID,
		Role:       user.Role,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if created.Role == "" {
		created.Role = models.RoleCustomer
	}
	refreshProfile(&created, user)
	s.users[created.ID] = created
	return &created, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) FindByLineUserID(_ context.Context, lineUserID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.LineUserID == lineUserID {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) Find(_ context.Context, filter UserFilter) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.User{}
	for _, user := range s.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !user.IsActive {
			continue
		}
		if filter.Search != "" && !containsFold(filter.Search, user.DisplayName, user.RealName, user.Phone) {
			continue
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})

	page := paginate(len(matched), filter.Skip, filter.Limit)
	return append([]models.User{}, matched[page.start:page.end]...), int64(len(matched)), nil
}

func (s *MemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && existing.LineUserID == user.LineUserID {
			return ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// refreshProfile copies the non-empty profile fields of src onto dst
func refreshProfile(dst, src *models.User) {
	if src.DisplayName != "" {
		dst.DisplayName = src.DisplayName
	}
	if src.PictureURL != "" {
		dst.PictureURL = src.PictureURL
	}
	if src.RealName != "" {
		dst.RealName = src.RealName
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Address != "" {
		dst.Address = src.Address
	}
}

func copyOrder(order models.Order) models.Order {
	if order.StatusHistory != nil {
		order.StatusHistory = append([]models.StatusChange(nil), order.StatusHistory...)
	}
	return order
}

func containsFold(term string, values ...string) bool {
	term = strings.ToLower(term)
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}

func newerFirst(a, b time.Time, idA, idB primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA.Hex() > idB.Hex()
}

type window struct{ start, end int }

func paginate(n int, skip, limit int64) window {
	limit = limitOrDefault(limit)
	start := int(skip)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := start + int(limit)
	if end > n {
		end = n
	}
	return window{start: start, end: end}
}
