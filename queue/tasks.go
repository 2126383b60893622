package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotifyCustomer pushes an order update to the customer's LINE chat
	TaskNotifyCustomer = "notify:customer"
	// TaskNotifyTailor pushes a job to the assigned tailor
	TaskNotifyTailor = "notify:tailor"
	// TaskNotifyAdmin pushes an order event to every admin chat
	TaskNotifyAdmin = "notify:admin"
	// TaskSheetAppend writes the order as a spreadsheet row
	TaskSheetAppend = "sheet:append"
)

// Customer events
const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
	EventJobCompleted  = "job_completed"
)

// Admin events
const (
	EventAdminOrderCreated     = "order_created"
	EventAdminTailorProgress   = "tailor_progress"
	EventAdminReceiptConfirmed = "receipt_confirmed"
)

// CustomerPayload is the body of a notify:customer task
type CustomerPayload struct {
	OrderID    string `json:"orderId"`
	Event      string `json:"event"`
	FromStatus string `json:"fromStatus,omitempty"`
}

// TailorPayload is the body of a notify:tailor task
type TailorPayload struct {
	OrderID string `json:"orderId"`
}

// AdminPayload is the body of a notify:admin task
type AdminPayload struct {
	OrderID string `json:"orderId"`
	Event   string `json:"event"`
}

// SheetPayload is the body of a sheet:append task
type SheetPayload struct {
	OrderID string `json:"orderId"`
}

func NewCustomerTask(payload CustomerPayload) (*asynq.Task, error) {
	return newTask(TaskNotifyCustomer, payload)
}

func NewTailorTask(payload TailorPayload) (*asynq.Task, error) {
	return newTask(TaskNotifyTailor, payload)
}

func NewAdminTask(payload AdminPayload) (*asynq.Task, error) {
	return newTask(TaskNotifyAdmin, payload)
}

func NewSheetTask(payload SheetPayload) (*asynq.Task, error) {
	return newTask(TaskSheetAppend, payload)
}

func newTask(typename string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, body), nil
}
