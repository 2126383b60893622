package services

import (
	"testing"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
	"github.com/stretchr/testify/assert"
)

func messageOrder() *models.Order {
	return &models.Order{
		OrderNumber:  "DM-261014-ABCDEF",
		CustomerName: "Araya",
		DressName:    "Silk wrap dress",
		Price:        models.NewMoney(3000),
		Deposit:      models.NewMoney(1000),
		Balance:      models.NewMoney(2000),
		Status:       models.StatusReadyToShip,
		TailorStatus: models.TailorDelivered,
		Measurements: models.Measurements{Bust: 86, Waist: 68.5},
	}
}

func TestCustomerText(t *testing.T) {
	order := messageOrder()

	created := CustomerText(queue.EventOrderCreated, order, "", "")
	assert.Contains(t, created, "DM-261014-ABCDEF")
	assert.Contains(t, created, "Balance: 2000.00")

	update := CustomerText(queue.EventStatusChanged, order, models.StatusQC, "https://shop.test/confirm/1")
	assert.Contains(t, update, "Ready to ship (was Quality check)")
	assert.Contains(t, update, "https://shop.test/confirm/1")

	order.Status = models.StatusPacking
	update = CustomerText(queue.EventStatusChanged, order, models.StatusQC, "https://shop.test/confirm/1")
	assert.NotContains(t, update, "confirm")

	done := CustomerText(queue.EventJobCompleted, order, "", "")
	assert.Contains(t, done, "quality check")
}

func TestTailorText(t *testing.T) {
	text := TailorText(messageOrder(), "https://shop.test/jobs")
	assert.Contains(t, text, "New job: DM-261014-ABCDEF")
	assert.Contains(t, text, "Bust 86, Waist 68.5")
	assert.Contains(t, text, "Dress: Silk wrap dress / - / -")
	assert.Contains(t, text, "https://shop.test/jobs")
}

func TestAdminText(t *testing.T) {
	order := messageOrder()
	order.TailorNotes = "zip replaced"

	progress := AdminText(queue.EventAdminTailorProgress, order, "Somchai")
	assert.Contains(t, progress, "Somchai is at Delivered to shop")
	assert.Contains(t, progress, "zip replaced")

	assert.Contains(t, AdminText(queue.EventAdminReceiptConfirmed, order, ""), "Araya confirmed")
	assert.Contains(t, AdminText(queue.EventAdminOrderCreated, order, ""), "New order DM-261014-ABCDEF")
}

func TestRecentOrdersText(t *testing.T) {
	assert.Equal(t, "You have no orders with us yet.", RecentOrdersText(nil))

	text := RecentOrdersText([]models.Order{*messageOrder()})
	assert.Contains(t, text, "- DM-261014-ABCDEF Silk wrap dress: Ready to ship")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "In production", StatusLabel(models.StatusProducing))
	assert.Equal(t, "mystery", StatusLabel("mystery"))
}
