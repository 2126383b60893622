package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/metrics"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sources recorded in the status history
const (
	SourceAdmin    = "admin"
	SourceTailor   = "tailor"
	SourceCustomer = "customer"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	exportPageSize  = 200
	orderNumberTry  = 3
)

// Pagination describes one page of a list result
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// CreateOrderInput holds the fields an admin submits for a new order
type CreateOrderInput struct {
	OrderNumber  string
	CustomerName string
	Phone        string
	CustomerID   *primitive.ObjectID
	Price        models.Money
	Deposit      models.Money
	DressName    string
	Color        string
	Size         string
	Measurements models.Measurements
	Notes        string
	DueDate      *time.Time
}

// UpdateOrderInput is a partial update; nil fields are left alone
type UpdateOrderInput struct {
	OrderNumber  *string
	CustomerName *string
	Phone        *string
	Price        *models.Money
	Deposit      *models.Money
	DressName    *string
	Color        *string
	Size         *string
	Measurements *models.Measurements
	Notes        *string
	DueDate      *time.Time
	Status       *string
}

// TailorUpdateInput is a tailor's progress report. TailorStatus and
// TailorNotes win over the older Status and Notes names when both are sent.
type TailorUpdateInput struct {
	TailorStatus string
	Status       string
	TailorNotes  *string
	Notes        *string
	LineUserID   string
}

// ListOrdersInput filters the admin order list
type ListOrdersInput struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// OrderService owns the order lifecycle
type OrderService struct {
	orders   store.OrderStore
	users    store.UserStore
	notifier Notifier
	images   ImageService
	now      func() time.Time
}

func NewOrderService(orders store.OrderStore, users store.UserStore, notifier Notifier, images ImageService) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{
		orders:   orders,
		users:    users,
		notifier: notifier,
		images:   images,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder stores a new pending order and queues the sheet row and
// notifications
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.Price.IsNegative() || in.Deposit.IsNegative() {
		return nil, ErrInvalidAmount
	}

	now := s.now()
	order := &models.Order{
		OrderNumber:  strings.TrimSpace(in.OrderNumber),
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		Price:        in.Price,
		Deposit:      in.Deposit,
		DressName:    in.DressName,
		Color:        in.Color,
		Size:         in.Size,
		Measurements: in.Measurements,
		Notes:        in.Notes,
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if in.CustomerID != nil {
		member, err := s.users.FindByID(ctx, *in.CustomerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrMemberNotFound
			}
			return nil, err
		}
		customerID := member.ID
		order.Customer = &customerID
		order.LineUserID = member.LineUserID
		if order.CustomerName == "" {
			order.CustomerName = member.Name()
		}
		if order.Phone == "" {
			order.Phone = member.Phone
		}
	}
	if order.CustomerName == "" {
		return nil, ErrCustomerRequired
	}

	order.RecomputeBalance()
	order.SetStatus(models.StatusPending, SourceAdmin, now)

	if err := s.insert(ctx, order); err != nil {
		return nil, err
	}

	logger.Infow("order_created", "order_id", order.ID.Hex(), "order_number", order.OrderNumber)
	s.notifier.OrderCreated(ctx, order)
	return order, nil
}

// insert saves the order, generating an order number when none was given.
// A generated number that collides is retried; a chosen one is not.
func (s *OrderService) insert(ctx context.Context, order *models.Order) error {
	generated := order.OrderNumber == ""
	for attempt := 0; ; attempt++ {
		if generated {
			order.OrderNumber = NewOrderNumber(order.CreatedAt)
		}
		err := s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return err
		}
		if !generated || attempt+1 >= orderNumberTry {
			return ErrOrderNumberTaken
		}
	}
}

// NewOrderNumber returns DM-YYMMDD-XXXXXX with a random upper-case suffix
func NewOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("DM-%s-%s", at.Format("060102"), suffix)
}

// GetOrder returns one order with its image URL resolved
func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveImage(ctx, order)
	return order, nil
}

// ListOrders returns one page of orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, in ListOrdersInput) ([]models.Order, Pagination, error) {
	filter := store.OrderFilter{Search: strings.TrimSpace(in.Search)}
	if in.Status != "" {
		status, ok := models.ParseOrderStatus(in.Status)
		if !ok {
			return nil, Pagination{}, ErrInvalidStatus
		}
		filter.Status = status
	}
	return s.listPage(ctx, filter, in.Page, in.Limit)
}

// ExportOrders returns every order matching the filters for the xlsx export
func (s *OrderService) ExportOrders(ctx context.Context, search, status string) ([]models.Order, error) {
	filter := store.OrderFilter{Search: strings.TrimSpace(search), Limit: exportPageSize}
	if status != "" {
		parsed, ok := models.ParseOrderStatus(status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter.Status = parsed
	}

	all := []models.Order{}
	for {
		page, total, err := s.orders.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		filter.Skip += int64(len(page))
	}
}

// UpdateOrder applies a partial update. A status change must be allowed by
// the transition table.
func (s *OrderService) UpdateOrder(ctx context.Context, id primitive.ObjectID, in UpdateOrderInput) (*models.Order, error) {
	var next models.OrderStatus
	if in.Status != nil {
		status, ok := models.ParseOrderStatus(*in.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		next = status
	}
	if (in.Price != nil && in.Price.IsNegative()) || (in.Deposit != nil && in.Deposit.IsNegative()) {
		return nil, ErrInvalidAmount
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if next != "" && !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, next)
	}

	applyOrderFields(order, in)
	order.RecomputeBalance()

	now := s.now()
	from := order.Status
	changed := false
	if next != "" {
		changed = order.SetStatus(next, SourceAdmin, now)
	}
	if changed && order.Status == models.StatusProducing {
		order.RestartTailorWork()
	}
	order.UpdatedAt = now

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	if changed {
		s.statusChanged(ctx, order, from, SourceAdmin)
		if order.Status == models.StatusProducing && order.HasTailor() {
			s.notifier.TailorJobAssigned(ctx, order)
		}
	}
	s.resolveImage(ctx, order)
	return order, nil
}

// UpdateStatus changes the main status, optionally with price and deposit
// from the same form
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, price, deposit *models.Money) (*models.Order, error) {
	if strings.TrimSpace(status) == "" {
		return nil, ErrInvalidStatus
	}
	return s.UpdateOrder(ctx, id, UpdateOrderInput{Status: &status, Price: price, Deposit: deposit})
}

// AssignTailor hands the order to a tailor and resets the tailor stage.
// Orders still pending or confirmed move to producing; completed and
// cancelled orders cannot be assigned.
func (s *OrderService) AssignTailor(ctx context.Context, orderID, tailorID primitive.ObjectID) (*models.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	tailor, err := s.users.FindByID(ctx, tailorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTailorNotFound
		}
		return nil, err
	}
	if !tailor.IsTailor() {
		return nil, ErrNotATailor
	}

	now := s.now()
	id := tailor.ID
	order.TailorID = &id
	order.TailorStatus = models.TailorPending
	order.TailorNotes = ""
	order.TailorAssignedAt = &now
	order.TailorCompletedAt = nil

	from := order.Status
	changed := false
	if order.Status == models.StatusPending || order.Status == models.StatusConfirmed {
		changed = order.SetStatus(models.StatusProducing, SourceAdmin, now)
	}
	order.UpdatedAt = now

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	logger.Infow("order_tailor_assigned", "order_id", order.ID.Hex(), "tailor_id", id.Hex())
	s.notifier.TailorJobAssigned(ctx, order)
	if changed {
		s.statusChanged(ctx, order, from, SourceAdmin)
	}
	s.resolveImage(ctx, order)
	return order, nil
}

// UpdateTailorStatus records a tailor's progress. done moves the order to qc
// and delivered moves it to ready_to_ship regardless of the admin table.
func (s *OrderService) UpdateTailorStatus(ctx context.Context, orderID primitive.ObjectID, in TailorUpdateInput) (*models.Order, error) {
	raw := strings.TrimSpace(in.TailorStatus)
	if raw == "" {
		raw = strings.TrimSpace(in.Status)
	}
	next, ok := models.ParseTailorStatus(raw)
	if !ok {
		return nil, ErrInvalidTailorStatus
	}
	notes := in.TailorNotes
	if notes == nil {
		notes = in.Notes
	}

	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Without an assigned tailor the caller is treated as the admin
	if in.LineUserID != "" && order.HasTailor() {
		if err := s.checkTailor(ctx, order, in.LineUserID); err != nil {
			return nil, err
		}
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}
	if !order.TailorStatus.CanAdvanceTo(next) {
		return nil, fmt.Errorf("%w: tailor status %s to %s", ErrInvalidTransition, order.TailorStatus, next)
	}

	now := s.now()
	previous := order.TailorStatus
	order.TailorStatus = next
	if notes != nil {
		order.TailorNotes = *notes
	}

	from := order.Status
	changed := false
	switch next {
	case models.TailorDone:
		if order.TailorCompletedAt == nil {
			order.TailorCompletedAt = &now
		}
		changed = order.SetStatus(models.StatusQC, SourceTailor, now)
	case models.TailorDelivered:
		changed = order.SetStatus(models.StatusReadyToShip, SourceTailor, now)
	}
	order.UpdatedAt = now

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	logger.Infow("order_tailor_status_updated",
		"order_id", order.ID.Hex(),
		"tailor_status", next,
		"status", order.Status,
	)
	s.notifier.TailorProgress(ctx, order)
	switch {
	case next == models.TailorDone && previous != models.TailorDone:
		if changed {
			s.recordStatusMetric(order.Status, SourceTailor)
		}
		s.notifier.JobCompleted(ctx, order)
	case changed:
		s.statusChanged(ctx, order, from, SourceTailor)
	}
	return order, nil
}

func (s *OrderService) checkTailor(ctx context.Context, order *models.Order, lineUserID string) error {
	tailor, err := s.users.FindByID(ctx, *order.TailorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTailorMismatch
		}
		return err
	}
	if tailor.LineUserID != lineUserID {
		return ErrTailorMismatch
	}
	return nil
}

// ConfirmReceived marks the order received by the customer. Repeat calls
// return the order unchanged with alreadyConfirmed set.
func (s *OrderService) ConfirmReceived(ctx context.Context, id primitive.ObjectID) (order *models.Order, alreadyConfirmed bool, err error) {
	order, err = s.find(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if order.CustomerConfirmedAt != nil {
		return order, true, nil
	}
	if order.Status == models.StatusCancelled {
		return nil, false, fmt.Errorf("%w: order is cancelled", ErrInvalidTransition)
	}

	now := s.now()
	from := order.Status
	order.CustomerConfirmedAt = &now
	changed := order.SetStatus(models.StatusCompleted, SourceCustomer, now)
	order.UpdatedAt = now

	if err := s.save(ctx, order); err != nil {
		return nil, false, err
	}

	logger.Infow("order_receipt_confirmed", "order_id", order.ID.Hex(), "from_status", from)
	if changed {
		s.recordStatusMetric(order.Status, SourceCustomer)
	}
	s.notifier.ReceiptConfirmed(ctx, order)
	return order, false, nil
}

// DeleteOrder removes the order permanently along with its photo
func (s *OrderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.ImageKey != nil && s.images != nil {
		if err := s.images.DeleteImage(ctx, *order.ImageKey); err != nil {
			logger.Warnw("order_image_delete_failed", "order_id", id.Hex(), "error", err)
		}
	}
	logger.Infow("order_deleted", "order_id", id.Hex())
	return nil
}

// SetOrderImage stores a reference photo and replaces the previous one
func (s *OrderService) SetOrderImage(ctx context.Context, id primitive.ObjectID, fileHeader *multipart.FileHeader) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.images.UploadImage(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	previous := order.ImageKey
	order.ImageKey = &key
	order.UpdatedAt = s.now()
	if err := s.save(ctx, order); err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			logger.Warnw("order_image_rollback_failed", "order_id", id.Hex(), "error", delErr)
		}
		return nil, err
	}

	if previous != nil && *previous != key {
		if err := s.images.DeleteImage(ctx, *previous); err != nil {
			logger.Warnw("order_image_delete_failed", "order_id", id.Hex(), "error", err)
		}
	}
	s.resolveImage(ctx, order)
	return order, nil
}

// ListTailorJobs returns the orders assigned to the tailor with this LINE id
func (s *OrderService) ListTailorJobs(ctx context.Context, lineUserID string, page, limit int) ([]models.Order, Pagination, error) {
	tailor, err := s.users.FindByLineUserID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, Pagination{}, ErrTailorNotFound
		}
		return nil, Pagination{}, err
	}
	if !tailor.IsTailor() {
		return nil, Pagination{}, ErrNotATailor
	}
	id := tailor.ID
	return s.listPage(ctx, store.OrderFilter{TailorID: &id}, page, limit)
}

// ListCustomerOrders returns the orders linked to this LINE id
func (s *OrderService) ListCustomerOrders(ctx context.Context, lineUserID string, page, limit int) ([]models.Order, Pagination, error) {
	if strings.TrimSpace(lineUserID) == "" {
		return nil, Pagination{}, ErrLineUserIDRequired
	}
	return s.listPage(ctx, store.OrderFilter{LineUserID: lineUserID}, page, limit)
}

func (s *OrderService) listPage(ctx context.Context, filter store.OrderFilter, page, limit int) ([]models.Order, Pagination, error) {
	page, limit = normalizePage(page, limit)
	filter.Skip = int64((page - 1) * limit)
	filter.Limit = int64(limit)

	orders, total, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	for i := range orders {
		s.resolveImage(ctx, &orders[i])
	}
	return orders, Pagination{Page: page, Limit: limit, Total: total}, nil
}

func (s *OrderService) find(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) save(ctx context.Context, order *models.Order) error {
	err := s.orders.Update(ctx, order)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrOrderNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrOrderNumberTaken
	}
	return err
}

func (s *OrderService) statusChanged(ctx context.Context, order *models.Order, from models.OrderStatus, source string) {
	logger.Infow("order_status_updated",
		"order_id", order.ID.Hex(),
		"from", from,
		"to", order.Status,
		"source", source,
	)
	s.recordStatusMetric(order.Status, source)
	s.notifier.StatusChanged(ctx, order, from)
}

func (s *OrderService) recordStatusMetric(to models.OrderStatus, source string) {
	metrics.StatusChanges.WithLabelValues(string(to), source).Inc()
}

func (s *OrderService) resolveImage(ctx context.Context, order *models.Order) {
	if order.ImageKey == nil || s.images == nil {
		return
	}
	url, err := s.images.GetImageURL(ctx, *order.ImageKey)
	if err != nil {
		logger.Warnw("order_image_url_failed", "order_id", order.ID.Hex(), "error", err)
		return
	}
	order.ImageURL = &url
}

func applyOrderFields(order *models.Order, in UpdateOrderInput) {
	if in.OrderNumber != nil && strings.TrimSpace(*in.OrderNumber) != "" {
		order.OrderNumber = strings.TrimSpace(*in.OrderNumber)
	}
	if in.CustomerName != nil && strings.TrimSpace(*in.CustomerName) != "" {
		order.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.Phone != nil {
		order.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Price != nil {
		order.Price = *in.Price
	}
	if in.Deposit != nil {
		order.Deposit = *in.Deposit
	}
	if in.DressName != nil {
		order.DressName = *in.DressName
	}
	if in.Color != nil {
		order.Color = *in.Color
	}
	if in.Size != nil {
		order.Size = *in.Size
	}
	if in.Measurements != nil {
		order.Measurements = *in.Measurements
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.DueDate != nil {
		order.DueDate = in.DueDate
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
