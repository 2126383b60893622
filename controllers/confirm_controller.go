package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const confirmPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;background:#fdf6f0;color:#3b2f2f;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0}
.card{background:#fff;border-radius:16px;box-shadow:0 4px 20px rgba(0,0,0,.08);padding:32px;max-width:420px;text-align:center}
h1{font-size:1.4rem;margin:0 0 12px}
.ok h1{color:#2e7d32}.seen h1{color:#8d6e63}.err h1{color:#c62828}
.meta{color:#6d5d5d;font-size:.95rem}
</style>
</head>
<body>
<div class="card {{.Kind}}">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .OrderNumber}}<p class="meta">Order {{.OrderNumber}}</p>{{end}}
{{if .ConfirmedAt}}<p class="meta">Confirmed {{.ConfirmedAt}}</p>{{end}}
</div>
</body>
</html>`

var confirmTemplate = template.Must(template.New("confirm").Parse(confirmPage))

type confirmView struct {
	Kind        string
	Title       string
	Message     string
	OrderNumber string
	ConfirmedAt string
}

// ConfirmController serves the link customers open when the dress arrives
type ConfirmController struct {
	orders *services.OrderService
}

func NewConfirmController(orders *services.OrderService) *ConfirmController {
	return &ConfirmController{orders: orders}
}

// ConfirmReceived handles GET /api/v1/orders/confirm-received/:id and
// answers with an HTML page in every case
func (ctl *ConfirmController) ConfirmReceived(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		ctl.render(c, http.StatusBadRequest, confirmView{
			Kind:    "err",
			Title:   "Link not valid",
			Message: "This confirmation link is not valid. Please contact the shop.",
		})
		return
	}

	order, already, err := ctl.orders.ConfirmReceived(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		ctl.render(c, http.StatusNotFound, confirmView{
			Kind:    "err",
			Title:   "Order not found",
			Message: "We could not find this order. Please contact the shop.",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		ctl.render(c, http.StatusConflict, confirmView{
			Kind:    "err",
			Title:   "Order cancelled",
			Message: "This order was cancelled and cannot be confirmed.",
		})
	case err != nil:
		logger.Errorw("confirm_received_failed", "order_id", id.Hex(), "error", err)
		ctl.render(c, http.StatusInternalServerError, confirmView{
			Kind:    "err",
			Title:   "Something went wrong",
			Message: "Please try again in a moment.",
		})
	case already:
		ctl.render(c, http.StatusOK, receiptView(order, "seen", "Already confirmed",
			"You have already confirmed receiving this order. Thank you!"))
	default:
		ctl.render(c, http.StatusOK, receiptView(order, "ok", "Thank you!",
			"We have recorded that you received your dress."))
	}
}

func receiptView(order *models.Order, kind, title, message string) confirmView {
	view := confirmView{Kind: kind, Title: title, Message: message, OrderNumber: order.OrderNumber}
	if order.CustomerConfirmedAt != nil {
		view.ConfirmedAt = order.CustomerConfirmedAt.Format("2 Jan 2006 15:04")
	}
	return view
}

func (ctl *ConfirmController) render(c *gin.Context, status int, view confirmView) {
	c.Render(status, render.HTML{Template: confirmTemplate, Name: "confirm", Data: view})
}
