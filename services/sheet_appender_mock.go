package services

import (
	"context"
	"sync"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
)

// MockSheetAppender records appended order numbers
type MockSheetAppender struct {
	mu   sync.Mutex
	rows []string
	err  error
}

func NewMockSheetAppender() *MockSheetAppender {
	return &MockSheetAppender{}
}

func (m *MockSheetAppender) AppendOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, order.OrderNumber)
	return nil
}

// Rows returns the appended order numbers in order
func (m *MockSheetAppender) Rows() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.rows...)
}

// SetErr makes later appends fail
func (m *MockSheetAppender) SetErr(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}
