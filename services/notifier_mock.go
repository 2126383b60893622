package services

import (
	"context"
	"sync"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
)

// NotifierEvent is one call recorded by MockNotifier
type NotifierEvent struct {
	Name    string
	OrderID string
	Status  models.OrderStatus
	From    models.OrderStatus
}

// MockNotifier records events for test assertions
type MockNotifier struct {
	mu     sync.Mutex
	events []NotifierEvent
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) record(name string, order *models.Order, from models.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, NotifierEvent{
		Name:    name,
		OrderID: order.ID.Hex(),
		Status:  order.Status,
		From:    from,
	})
}

func (m *MockNotifier) OrderCreated(_ context.Context, order *models.Order) {
	m.record("order_created", order, "")
}

func (m *MockNotifier) StatusChanged(_ context.Context, order *models.Order, from models.OrderStatus) {
	m.record("status_changed", order, from)
}

func (m *MockNotifier) TailorJobAssigned(_ context.Context, order *models.Order) {
	m.record("tailor_job_assigned", order, "")
}

func (m *MockNotifier) TailorProgress(_ context.Context, order *models.Order) {
	m.record("tailor_progress", order, "")
}

func (m *MockNotifier) JobCompleted(_ context.Context, order *models.Order) {
	m.record("job_completed", order, "")
}

func (m *MockNotifier) ReceiptConfirmed(_ context.Context, order *models.Order) {
	m.record("receipt_confirmed", order, "")
}

// Events returns a copy of the recorded events
func (m *MockNotifier) Events() []NotifierEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NotifierEvent(nil), m.events...)
}

// Names returns the recorded event names in order
func (m *MockNotifier) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.events))
	for _, e := range m.events {
		names = append(names, e.Name)
	}
	return names
}

// Reset forgets all recorded events
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}
