package services

import (
	"context"

	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/metrics"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
)

// Notifier receives order events after they are saved. Implementations must
// not fail the caller; delivery problems are logged.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	StatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus)
	TailorJobAssigned(ctx context.Context, order *models.Order)
	TailorProgress(ctx context.Context, order *models.Order)
	JobCompleted(ctx context.Context, order *models.Order)
	ReceiptConfirmed(ctx context.Context, order *models.Order)
}

// Enqueuer is the part of queue.Client the notifier needs
type Enqueuer interface {
	EnqueueCustomer(ctx context.Context, payload queue.CustomerPayload) error
	EnqueueTailor(ctx context.Context, payload queue.TailorPayload) error
	EnqueueAdmin(ctx context.Context, payload queue.AdminPayload) error
	EnqueueSheet(ctx context.Context, payload queue.SheetPayload) error
}

// QueueNotifier turns order events into outbox tasks
type QueueNotifier struct {
	queue Enqueuer
}

func NewQueueNotifier(q Enqueuer) *QueueNotifier {
	return &QueueNotifier{queue: q}
}

func (n *QueueNotifier) OrderCreated(ctx context.Context, order *models.Order) {
	id := order.ID.Hex()
	n.track(queue.TaskSheetAppend, id, n.queue.EnqueueSheet(ctx, queue.SheetPayload{OrderID: id}))
	n.track(queue.TaskNotifyAdmin, id, n.queue.EnqueueAdmin(ctx, queue.AdminPayload{OrderID: id, Event: queue.EventAdminOrderCreated}))
	if order.LineUserID != "" {
		n.track(queue.TaskNotifyCustomer, id, n.queue.EnqueueCustomer(ctx, queue.CustomerPayload{OrderID: id, Event: queue.EventOrderCreated}))
	}
}

func (n *QueueNotifier) StatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) {
	if order.LineUserID == "" {
		return
	}
	id := order.ID.Hex()
	payload := queue.CustomerPayload{OrderID: id, Event: queue.EventStatusChanged, FromStatus: string(from)}
	n.track(queue.TaskNotifyCustomer, id, n.queue.EnqueueCustomer(ctx, payload))
}

func (n *QueueNotifier) TailorJobAssigned(ctx context.Context, order *models.Order) {
	if !order.HasTailor() {
		return
	}
	id := order.ID.Hex()
	n.track(queue.TaskNotifyTailor, id, n.queue.EnqueueTailor(ctx, queue.TailorPayload{OrderID: id}))
}

func (n *QueueNotifier) TailorProgress(ctx context.Context, order *models.Order) {
	id := order.ID.Hex()
	n.track(queue.TaskNotifyAdmin, id, n.queue.EnqueueAdmin(ctx, queue.AdminPayload{OrderID: id, Event: queue.EventAdminTailorProgress}))
}

func (n *QueueNotifier) JobCompleted(ctx context.Context, order *models.Order) {
	if order.LineUserID == "" {
		return
	}
	id := order.ID.Hex()
	payload := queue.CustomerPayload{OrderID: id, Event: queue.EventJobCompleted}
	n.track(queue.TaskNotifyCustomer, id, n.queue.EnqueueCustomer(ctx, payload))
}

func (n *QueueNotifier) ReceiptConfirmed(ctx context.Context, order *models.Order) {
	id := order.ID.Hex()
	n.track(queue.TaskNotifyAdmin, id, n.queue.EnqueueAdmin(ctx, queue.AdminPayload{OrderID: id, Event: queue.EventAdminReceiptConfirmed}))
}

func (n *QueueNotifier) track(task, orderID string, err error) {
	metrics.TasksEnqueued.WithLabelValues(task, metrics.Result(err)).Inc()
	if err != nil {
		logger.Warnw("notification_enqueue_failed", "task", task, "order_id", orderID, "error", err)
	}
}

// NopNotifier drops every event
type NopNotifier struct{}

func (NopNotifier) OrderCreated(context.Context, *models.Order)                      {}
func (NopNotifier) StatusChanged(context.Context, *models.Order, models.OrderStatus) {}
func (NopNotifier) TailorJobAssigned(context.Context, *models.Order)                 {}
func (NopNotifier) TailorProgress(context.Context, *models.Order)                    {}
func (NopNotifier) JobCompleted(context.Context, *models.Order)                      {}
func (NopNotifier) ReceiptConfirmed(context.Context, *models.Order)                  {}
