package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/metrics"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Links builds the public URLs put into chat messages
type Links interface {
	ConfirmReceivedURL(orderID string) string
	TailorJobsURL(lineUserID string) string
}

// Consumer turns outbox tasks into LINE pushes and sheet rows
type Consumer struct {
	Orders   store.OrderStore
	Users    store.UserStore
	Line     services.LineMessenger
	Sheet    services.SheetAppender
	Links    Links
	AdminIDs []string
}

// Register adds every task handler to mux
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskNotifyCustomer, c.handleCustomer)
	mux.HandleFunc(queue.TaskNotifyTailor, c.handleTailor)
	mux.HandleFunc(queue.TaskNotifyAdmin, c.handleAdmin)
	mux.HandleFunc(queue.TaskSheetAppend, c.handleSheet)
}

// NewMux returns a mux with the consumer registered, for the asynq server
// and for inline processing
func NewMux(c *Consumer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	c.Register(mux)
	return mux
}

func (c *Consumer) handleCustomer(ctx context.Context, task *asynq.Task) (err error) {
	defer c.track(task, &err)

	var payload queue.CustomerPayload
	if err := decode(task, &payload); err != nil {
		return err
	}
	order, err := c.loadOrder(ctx, payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	if order.LineUserID == "" {
		logger.Debugw("worker_customer_skip_no_chat", "order_id", payload.OrderID)
		return errSkipped
	}

	text := services.CustomerText(payload.Event, order, models.OrderStatus(payload.FromStatus), c.confirmURL(order))
	if err := c.Line.PushText(ctx, order.LineUserID, text); err != nil {
		logger.Warnw("worker_customer_push_failed", "order_id", payload.OrderID, "event", payload.Event, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleTailor(ctx context.Context, task *asynq.Task) (err error) {
	defer c.track(task, &err)

	var payload queue.TailorPayload
	if err := decode(task, &payload); err != nil {
		return err
	}
	order, err := c.loadOrder(ctx, payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	if !order.HasTailor() {
		logger.Debugw("worker_tailor_skip_unassigned", "order_id", payload.OrderID)
		return errSkipped
	}

	tailor, err := c.Users.FindByID(ctx, *order.TailorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Debugw("worker_tailor_skip_missing", "order_id", payload.OrderID)
			return errSkipped
		}
		return err
	}
	if tailor.LineUserID == "" {
		return errSkipped
	}

	jobsURL := ""
	if c.Links != nil {
		jobsURL = c.Links.TailorJobsURL(tailor.LineUserID)
	}
	if err := c.Line.PushText(ctx, tailor.LineUserID, services.TailorText(order, jobsURL)); err != nil {
		logger.Warnw("worker_tailor_push_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleAdmin(ctx context.Context, task *asynq.Task) (err error) {
	defer c.track(task, &err)

	var payload queue.AdminPayload
	if err := decode(task, &payload); err != nil {
		return err
	}
	if len(c.AdminIDs) == 0 {
		logger.Debugw("worker_admin_skip_no_recipients", "order_id", payload.OrderID)
		return errSkipped
	}
	order, err := c.loadOrder(ctx, payload.OrderID)
	if err != nil || order == nil {
		return err
	}

	tailorName := ""
	if order.HasTailor() {
		if tailor, err := c.Users.FindByID(ctx, *order.TailorID); err == nil {
			tailorName = tailor.Name()
		}
	}

	text := services.AdminText(payload.Event, order, tailorName)
	var errs []error
	for _, id := range c.AdminIDs {
		if err := c.Line.PushText(ctx, id, text); err != nil {
			logger.Warnw("worker_admin_push_failed", "order_id", payload.OrderID, "admin", id, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Consumer) handleSheet(ctx context.Context, task *asynq.Task) (err error) {
	defer c.track(task, &err)

	var payload queue.SheetPayload
	if err := decode(task, &payload); err != nil {
		return err
	}
	order, err := c.loadOrder(ctx, payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	if err := c.Sheet.AppendOrder(ctx, order); err != nil {
		logger.Warnw("worker_sheet_append_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

// errSkipped marks a task that had nothing to do; it is reported as success
var errSkipped = errors.New("skipped")

// loadOrder returns nil without error when the order is gone
func (c *Consumer) loadOrder(ctx context.Context, rawID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, fmt.Errorf("order id %q: %w", rawID, asynq.SkipRetry)
	}
	order, err := c.Orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Debugw("worker_skip_order_not_found", "order_id", rawID)
			return nil, errSkipped
		}
		return nil, err
	}
	return order, nil
}

func (c *Consumer) confirmURL(order *models.Order) string {
	if c.Links == nil {
		return ""
	}
	return c.Links.ConfirmReceivedURL(order.ID.Hex())
}

// track records the outcome and turns errSkipped into success
func (c *Consumer) track(task *asynq.Task, err *error) {
	result := metrics.Result(*err)
	if errors.Is(*err, errSkipped) {
		result = "skipped"
		*err = nil
	}
	metrics.TasksProcessed.WithLabelValues(task.Type(), result).Inc()
}

func decode(task *asynq.Task, v interface{}) error {
	if err := json.Unmarshal(task.Payload(), v); err != nil {
		logger.Warnw("worker_payload_invalid", "task", task.Type(), "error", err)
		return fmt.Errorf("decode %s: %w", task.Type(), asynq.SkipRetry)
	}
	return nil
}
