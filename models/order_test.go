package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeBalance(t *testing.T) {
	order := Order{Price: NewMoney(3000), Deposit: NewMoney(1000)}
	order.RecomputeBalance()
	assert.Equal(t, "2000.00", order.Balance.String())

	order.Deposit = NewMoney(1500)
	order.RecomputeBalance()
	assert.Equal(t, "1500.00", order.Balance.String())
}

func TestSetStatusRecordsHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := Order{Status: StatusPending}

	changed := order.SetStatus(StatusProducing, "admin", at)
	assert.True(t, changed)
	assert.Equal(t, StatusProducing, order.Status)
	assert.Equal(t, []StatusChange{{From: StatusPending, To: StatusProducing, Source: "admin", At: at}}, order.StatusHistory)

	changed = order.SetStatus(StatusProducing, "admin", at)
	assert.False(t, changed, "Same status should not add history")
	assert.Len(t, order.StatusHistory, 1)
}

func TestRestartTailorWork(t *testing.T) {
	completed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	order := Order{TailorStatus: TailorDone, TailorCompletedAt: &completed}

	assert.True(t, order.RestartTailorWork())
	assert.Equal(t, TailorPending, order.TailorStatus)
	assert.Nil(t, order.TailorCompletedAt)

	order.TailorStatus = TailorSewing
	assert.False(t, order.RestartTailorWork(), "Work in progress keeps its stage")
	assert.Equal(t, TailorSewing, order.TailorStatus)
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusProducing, true},
		{StatusPending, StatusQC, false},
		{StatusConfirmed, StatusPending, true},
		{StatusProducing, StatusQC, true},
		{StatusProducing, StatusPending, false},
		{StatusQC, StatusProducing, true},
		{StatusQC, StatusPacking, true},
		{StatusPacking, StatusReadyToShip, true},
		{StatusReadyToShip, StatusCompleted, true},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, true},
		{StatusCancelled, StatusCompleted, false},
		{StatusQC, StatusQC, true},
		{StatusPending, OrderStatus("shipped"), false},
		{OrderStatus("shipped"), StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		parsed, ok := ParseOrderStatus(string(s))
		assert.True(t, ok, s)
		assert.Equal(t, s, parsed)
	}
	_, ok := ParseOrderStatus("shipped")
	assert.False(t, ok)
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusQC.IsTerminal())
}

func TestTailorStatusAdvance(t *testing.T) {
	tests := []struct {
		name     string
		from, to TailorStatus
		want     bool
	}{
		{"empty counts as pending", "", TailorCutting, true},
		{"same stage", TailorSewing, TailorSewing, true},
		{"skip ahead", TailorCutting, TailorDone, true},
		{"backwards", TailorDone, TailorSewing, false},
		{"unknown target", TailorPending, TailorStatus("ironing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestParseTailorStatusWhitelist(t *testing.T) {
	assert.Len(t, TailorStatuses, 6)
	for _, s := range TailorStatuses {
		_, ok := ParseTailorStatus(string(s))
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "DONE", "shipped", "qc"} {
		_, ok := ParseTailorStatus(s)
		assert.False(t, ok, s)
	}
}
