package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/kendall-kelly/dressmaker-orders-api/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	OrderNumber  string              `json:"orderNumber"`
	CustomerName string              `json:"customerName"`
	Phone        string              `json:"phone"`
	Customer     string              `json:"customer"`
	Price        models.Money        `json:"price"`
	Deposit      models.Money        `json:"deposit"`
	DressName    string              `json:"dressName"`
	Color        string              `json:"color"`
	Size         string              `json:"size"`
	Measurements models.Measurements `json:"measurements"`
	Notes        string              `json:"notes"`
	DueDate      *time.Time          `json:"dueDate"`
}

// UpdateOrderRequest is a partial update; omitted fields are left alone
type UpdateOrderRequest struct {
	OrderNumber  *string              `json:"orderNumber"`
	CustomerName *string              `json:"customerName"`
	Phone        *string              `json:"phone"`
	Price        *models.Money        `json:"price"`
	Deposit      *models.Money        `json:"deposit"`
	DressName    *string              `json:"dressName"`
	Color        *string              `json:"color"`
	Size         *string              `json:"size"`
	Measurements *models.Measurements `json:"measurements"`
	Notes        *string              `json:"notes"`
	DueDate      *time.Time           `json:"dueDate"`
	Status       *string              `json:"status"`
}

// UpdateStatusRequest represents the request body for PUT /orders/:id/status
type UpdateStatusRequest struct {
	Status  string        `json:"status" binding:"required"`
	Price   *models.Money `json:"price"`
	Deposit *models.Money `json:"deposit"`
}

// AssignTailorRequest represents the request body for POST /orders/:id/assign-tailor
type AssignTailorRequest struct {
	TailorID string `json:"tailorId" binding:"required"`
}

// TailorStatusRequest accepts both field spellings used by the tailor pages
type TailorStatusRequest struct {
	TailorStatus string  `json:"tailorStatus"`
	Status       string  `json:"status"`
	TailorNotes  *string `json:"tailorNotes"`
	Notes        *string `json:"notes"`
	LineUserID   string  `json:"lineUserId"`
}

// OrderController serves the order endpoints
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// ListOrders handles GET /api/v1/orders
func (ctl *OrderController) ListOrders(c *gin.Context) {
	page, limit := pageQuery(c)
	orders, pagination, err := ctl.orders.ListOrders(c.Request.Context(), services.ListOrdersInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respondList(c, orders, pagination)
}

// CreateOrder handles POST /api/v1/orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	in := services.CreateOrderInput{
		OrderNumber:  req.OrderNumber,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Price:        req.Price,
		Deposit:      req.Deposit,
		DressName:    strings.TrimSpace(req.DressName),
		Color:        strings.TrimSpace(req.Color),
		Size:         strings.TrimSpace(req.Size),
		Measurements: req.Measurements,
		Notes:        req.Notes,
		DueDate:      req.DueDate,
	}
	if req.Customer != "" {
		customerID, err := primitive.ObjectIDFromHex(req.Customer)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer")
			return
		}
		in.CustomerID = &customerID
	}

	order, err := ctl.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, order)
}

// ExportOrders handles GET /api/v1/orders/export and streams an xlsx file
func (ctl *OrderController) ExportOrders(c *gin.Context) {
	orders, err := ctl.orders.ExportOrders(c.Request.Context(), c.Query("search"), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}

	f, err := utils.BuildOrdersWorkbook(orders)
	if err != nil {
		handleError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+utils.ExportFilename(time.Now())+`"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// GetOrder handles GET /api/v1/orders/:id
func (ctl *OrderController) GetOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	order, err := ctl.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := ctl.orders.UpdateOrder(c.Request.Context(), id, services.UpdateOrderInput{
		OrderNumber:  req.OrderNumber,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Price:        req.Price,
		Deposit:      req.Deposit,
		DressName:    req.DressName,
		Color:        req.Color,
		Size:         req.Size,
		Measurements: req.Measurements,
		Notes:        req.Notes,
		DueDate:      req.DueDate,
		Status:       req.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctl.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	respondMessage(c, gin.H{"id": id.Hex()}, "Order deleted")
}

// UpdateStatus handles PUT /api/v1/orders/:id/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := ctl.orders.UpdateStatus(c.Request.Context(), id, req.Status, req.Price, req.Deposit)
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

// AssignTailor handles POST /api/v1/orders/:id/assign-tailor
func (ctl *OrderController) AssignTailor(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req AssignTailorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	tailorID, err := primitive.ObjectIDFromHex(req.TailorID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid tailorId")
		return
	}

	order, err := ctl.orders.AssignTailor(c.Request.Context(), id, tailorID)
	if err != nil {
		handleError(c, err)
		return
	}
	respondMessage(c, order, "Tailor assigned")
}

// UploadImage handles POST /api/v1/orders/:id/image (multipart field "image")
func (ctl *OrderController) UploadImage(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image file is required")
		return
	}

	order, err := ctl.orders.SetOrderImage(c.Request.Context(), id, fileHeader)
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

// UpdateTailorStatus handles PUT /api/v1/orders/:id/tailor-status. It is
// public: the tailor identifies themselves with lineUserId.
func (ctl *OrderController) UpdateTailorStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req TailorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := ctl.orders.UpdateTailorStatus(c.Request.Context(), id, services.TailorUpdateInput{
		TailorStatus: req.TailorStatus,
		Status:       req.Status,
		TailorNotes:  req.TailorNotes,
		Notes:        req.Notes,
		LineUserID:   strings.TrimSpace(req.LineUserID),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	respondOK(c, http.StatusOK, order)
}

// ListTailorJobs handles GET /api/v1/tailors/:lineUserId/jobs
func (ctl *OrderController) ListTailorJobs(c *gin.Context) {
	page, limit := pageQuery(c)
	orders, pagination, err := ctl.orders.ListTailorJobs(c.Request.Context(), c.Param("lineUserId"), page, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	respondList(c, orders, pagination)
}

// ListCustomerOrders handles GET /api/v1/customers/:lineUserId/orders
func (ctl *OrderController) ListCustomerOrders(c *gin.Context) {
	page, limit := pageQuery(c)
	orders, pagination, err := ctl.orders.ListCustomerOrders(c.Request.Context(), c.Param("lineUserId"), page, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	respondList(c, orders, pagination)
}
