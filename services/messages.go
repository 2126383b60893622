package services

import (
	"fmt"
	"strings"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/queue"
)

var statusLabels = map[models.OrderStatus]string{
	models.StatusPending:     "Pending",
	models.StatusConfirmed:   "Confirmed",
	models.StatusProducing:   "In production",
	models.StatusQC:          "Quality check",
	models.StatusPacking:     "Packing",
	models.StatusReadyToShip: "Ready to ship",
	models.StatusCompleted:   "Completed",
	models.StatusCancelled:   "Cancelled",
}

var tailorLabels = map[models.TailorStatus]string{
	models.TailorPending:   "Waiting",
	models.TailorCutting:   "Cutting",
	models.TailorSewing:    "Sewing",
	models.TailorFinishing: "Finishing",
	models.TailorDone:      "Done",
	models.TailorDelivered: "Delivered to shop",
}

// StatusLabel is the customer-facing name of a status
func StatusLabel(status models.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

func tailorLabel(status models.TailorStatus) string {
	if label, ok := tailorLabels[status]; ok {
		return label
	}
	return string(status)
}

// CustomerText builds the push for a customer event. confirmURL is only
// included once the order is ready to ship.
func CustomerText(event string, order *models.Order, from models.OrderStatus, confirmURL string) string {
	var b strings.Builder
	switch event {
	case queue.EventOrderCreated:
		fmt.Fprintf(&b, "Thank you! We received your order %s.\n", order.OrderNumber)
		fmt.Fprintf(&b, "Dress: %s\n", orDash(order.DressName))
		fmt.Fprintf(&b, "Price: %s\nDeposit: %s\nBalance: %s", order.Price, order.Deposit, order.Balance)
	case queue.EventJobCompleted:
		fmt.Fprintf(&b, "Good news! Sewing of your order %s is finished and it is now in quality check.", order.OrderNumber)
	default:
		fmt.Fprintf(&b, "Order %s update: %s", order.OrderNumber, StatusLabel(order.Status))
		if from != "" {
			fmt.Fprintf(&b, " (was %s)", StatusLabel(from))
		}
		if order.Status == models.StatusReadyToShip && confirmURL != "" {
			fmt.Fprintf(&b, "\nWhen you receive your dress, please confirm here:\n%s", confirmURL)
		}
	}
	return b.String()
}

// TailorText is the job card pushed to the assigned tailor
func TailorText(order *models.Order, jobsURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New job: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Dress: %s / %s / %s\n", orDash(order.DressName), orDash(order.Color), orDash(order.Size))
	m := order.Measurements
	fmt.Fprintf(&b, "Bust %g, Waist %g, Hip %g, Shoulder %g, Armhole %g\n", m.Bust, m.Waist, m.Hip, m.Shoulder, m.Armhole)
	fmt.Fprintf(&b, "Sleeve %g, Upper arm %g, Front %g, Dress length %g", m.SleeveLength, m.UpperArm, m.FrontLength, m.DressLength)
	if order.DueDate != nil {
		fmt.Fprintf(&b, "\nDue: %s", order.DueDate.Format("2006-01-02"))
	}
	if order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", order.Notes)
	}
	if jobsURL != "" {
		fmt.Fprintf(&b, "\nYour jobs: %s", jobsURL)
	}
	return b.String()
}

// AdminText is pushed to every admin chat; tailorName is only used for progress events
func AdminText(event string, order *models.Order, tailorName string) string {
	switch event {
	case queue.EventAdminOrderCreated:
		return fmt.Sprintf("New order %s from %s (%s). Balance %s.", order.OrderNumber, order.CustomerName, orDash(order.Phone), order.Balance)
	case queue.EventAdminReceiptConfirmed:
		return fmt.Sprintf("%s confirmed receiving order %s.", order.CustomerName, order.OrderNumber)
	default:
		text := fmt.Sprintf("Order %s: %s is at %s. Order status %s.",
			order.OrderNumber, orDash(tailorName), tailorLabel(order.TailorStatus), StatusLabel(order.Status))
		if order.TailorNotes != "" {
			text += "\nNotes: " + order.TailorNotes
		}
		return text
	}
}

// RecentOrdersText answers the "status" chat command
func RecentOrdersText(orders []models.Order) string {
	if len(orders) == 0 {
		return "You have no orders with us yet."
	}
	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, "Your recent orders:")
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("- %s %s: %s", o.OrderNumber, orDash(o.DressName), StatusLabel(o.Status)))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
