package acceptance

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/stretchr/testify/suite"
)

// OrderAcceptanceTestSuite walks an order from creation to customer receipt
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server   *server
	customer *models.User
	tailor   *models.User
}

func (suite *OrderAcceptanceTestSuite) SetupTest() {
	t := suite.T()
	suite.server = startServer(t)
	ctx := context.Background()

	var err error
	suite.customer, err = suite.server.app.Users.Upsert(ctx, &models.User{LineUserID: "Ucustomer", DisplayName: "Mali"})
	suite.Require().NoError(err)
	suite.tailor, err = suite.server.app.Users.Upsert(ctx, &models.User{LineUserID: "Utailor", DisplayName: "Somchai"})
	suite.Require().NoError(err)

	resp := suite.server.admin(t, http.MethodPost, "/api/v1/members/"+suite.tailor.ID.Hex()+"/promote", map[string]string{"specialty": "gowns"})
	resp.requireStatus(t, http.StatusOK)
}

func (suite *OrderAcceptanceTestSuite) createOrder() models.Order {
	t := suite.T()
	resp := suite.server.admin(t, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customerName": "Mali",
		"customer":     suite.customer.ID.Hex(),
		"phone":        "0812345678",
		"price":        3000,
		"deposit":      1000,
		"dressName":    "Evening gown",
		"measurements": map[string]float64{"bust": 86, "waist": 68, "hip": 92},
	})
	resp.requireStatus(t, http.StatusCreated)
	var order models.Order
	resp.decode(t, &order)
	return order
}

func (suite *OrderAcceptanceTestSuite) TestFullLifecycle() {
	t := suite.T()
	app := suite.server.app
	order := suite.createOrder()
	id := order.ID.Hex()

	suite.Equal(models.StatusPending, order.Status)
	suite.Equal("2000.00", order.Balance.String())
	suite.NotEmpty(order.OrderNumber)

	// Deposit change recomputes the balance
	resp := suite.server.admin(t, http.MethodPut, "/api/v1/orders/"+id, map[string]interface{}{"deposit": 1500})
	resp.requireStatus(t, http.StatusOK)
	resp.decode(t, &order)
	suite.Equal("1500.00", order.Balance.String())

	// Assigning a tailor starts production
	resp = suite.server.admin(t, http.MethodPost, "/api/v1/orders/"+id+"/assign-tailor", map[string]string{"tailorId": suite.tailor.ID.Hex()})
	resp.requireStatus(t, http.StatusOK)
	resp.decode(t, &order)
	suite.Equal(models.StatusProducing, order.Status)
	suite.Equal(models.TailorPending, order.TailorStatus)

	// The tailor sees the job and reports progress
	resp = suite.server.call(t, http.MethodGet, "/api/v1/tailors/Utailor/jobs", nil, "")
	resp.requireStatus(t, http.StatusOK)
	var jobs []models.Order
	resp.decode(t, &jobs)
	suite.Require().Len(jobs, 1)

	resp = suite.server.call(t, http.MethodPut, "/api/v1/orders/"+id+"/tailor-status", map[string]string{
		"lineUserId": "Utailor", "tailorStatus": "sewing",
	}, "")
	resp.requireStatus(t, http.StatusOK)

	resp = suite.server.call(t, http.MethodPut, "/api/v1/orders/"+id+"/tailor-status", map[string]string{
		"lineUserId": "Uintruder", "tailorStatus": "done",
	}, "")
	resp.requireStatus(t, http.StatusForbidden)

	resp = suite.server.call(t, http.MethodPut, "/api/v1/orders/"+id+"/tailor-status", map[string]string{
		"lineUserId": "Utailor", "tailorStatus": "done",
	}, "")
	resp.requireStatus(t, http.StatusOK)
	resp.decode(t, &order)
	suite.Equal(models.StatusQC, order.Status)
	suite.NotNil(order.TailorCompletedAt)

	app.Queue.Wait()
	suite.True(pushContains(app.Line.PushesTo("Ucustomer"), "finished"))
	suite.True(pushContains(app.Line.PushesTo("Utailor"), "New job"))
	suite.True(pushContains(app.Line.PushesTo("Uadmin"), "Somchai is at Sewing"))

	// Admin ships it and the customer gets the confirm link
	for _, status := range []string{"packing", "ready_to_ship"} {
		resp = suite.server.admin(t, http.MethodPut, "/api/v1/orders/"+id+"/status", map[string]string{"status": status})
		resp.requireStatus(t, http.StatusOK)
	}
	app.Queue.Wait()
	confirmURL := app.Config.ConfirmReceivedURL(id)
	suite.True(pushContains(app.Line.PushesTo("Ucustomer"), confirmURL))

	// Customer confirms twice
	resp = suite.server.call(t, http.MethodGet, "/api/v1/orders/confirm-received/"+id, nil, "")
	resp.requireStatus(t, http.StatusOK)
	suite.Contains(string(resp.body), "Thank you!")

	resp = suite.server.call(t, http.MethodGet, "/api/v1/orders/confirm-received/"+id, nil, "")
	resp.requireStatus(t, http.StatusOK)
	suite.Contains(string(resp.body), "Already confirmed")

	resp = suite.server.admin(t, http.MethodGet, "/api/v1/orders/"+id, nil)
	resp.requireStatus(t, http.StatusOK)
	resp.decode(t, &order)
	suite.Equal(models.StatusCompleted, order.Status)
	suite.NotNil(order.CustomerConfirmedAt)

	// Completed orders are closed
	resp = suite.server.admin(t, http.MethodPut, "/api/v1/orders/"+id+"/status", map[string]string{"status": "producing"})
	resp.requireStatus(t, http.StatusConflict)
	suite.Equal("INVALID_TRANSITION", resp.errorCode(t))

	app.Queue.Wait()
	suite.NotEmpty(app.Sheet.Rows())
}

func (suite *OrderAcceptanceTestSuite) TestCustomerSeesOwnOrders() {
	t := suite.T()
	suite.createOrder()
	suite.createOrder()

	resp := suite.server.call(t, http.MethodGet, "/api/v1/customers/Ucustomer/orders?limit=1", nil, "")
	resp.requireStatus(t, http.StatusOK)
	var orders []models.Order
	env := resp.decode(t, &orders)
	suite.Len(orders, 1)
	suite.Require().NotNil(env.Pagination)
	suite.Equal(int64(2), env.Pagination.Total)
}

func (suite *OrderAcceptanceTestSuite) TestExportNeedsAdmin() {
	t := suite.T()
	suite.createOrder()

	resp := suite.server.call(t, http.MethodGet, "/api/v1/orders/export", nil, "")
	suite.Equal(http.StatusUnauthorized, resp.status)

	resp = suite.server.admin(t, http.MethodGet, "/api/v1/orders/export", nil)
	resp.requireStatus(t, http.StatusOK)
	suite.Contains(resp.header.Get("Content-Disposition"), ".xlsx")
	suite.NotEmpty(resp.body)
}

func pushContains(pushes []services.LineMessage, text string) bool {
	for _, p := range pushes {
		if strings.Contains(p.Text, text) {
			return true
		}
	}
	return false
}

func TestOrderAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
