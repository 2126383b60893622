//go:build integration

package integration

import (
	"context"
	"net/http"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/tests/testutil"
)

// TestOrderLifecycleOverMongo drives the HTTP API with the mongo stores
func (suite *MongoIntegrationTestSuite) TestOrderLifecycleOverMongo() {
	t := suite.T()
	app := testutil.NewAppWithStores(t, suite.cfg, suite.orders, suite.users)
	ctx := context.Background()

	customer, err := suite.users.Upsert(ctx, &models.User{LineUserID: "Ucustomer", DisplayName: "Mali"})
	suite.Require().NoError(err)
	tailor, err := suite.users.Upsert(ctx, &models.User{LineUserID: "Utailor", DisplayName: "Somchai"})
	suite.Require().NoError(err)

	w := app.AdminDo(t, http.MethodPost, "/api/v1/members/"+tailor.ID.Hex()+"/promote", map[string]string{"specialty": "gowns"})
	testutil.RequireStatus(t, w, http.StatusOK)

	w = app.AdminDo(t, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customerName": "Mali",
		"customer":     customer.ID.Hex(),
		"price":        3000,
		"deposit":      1000,
		"dressName":    "Evening gown",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)
	var order models.Order
	testutil.Decode(t, w, &order)
	suite.Equal("Ucustomer", order.LineUserID)

	w = app.AdminDo(t, http.MethodPost, "/api/v1/orders/"+order.ID.Hex()+"/assign-tailor", map[string]string{"tailorId": tailor.ID.Hex()})
	testutil.RequireStatus(t, w, http.StatusOK)

	w = app.Do(t, http.MethodPut, "/api/v1/orders/"+order.ID.Hex()+"/tailor-status", map[string]string{
		"lineUserId":   "Utailor",
		"tailorStatus": "done",
	}, "")
	testutil.RequireStatus(t, w, http.StatusOK)

	stored, err := suite.orders.FindByID(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal(models.StatusQC, stored.Status)
	suite.NotNil(stored.TailorCompletedAt)

	app.Queue.Wait()
	suite.NotEmpty(app.Line.PushesTo("Ucustomer"))
	suite.NotEmpty(app.Line.PushesTo("Utailor"))
	suite.NotEmpty(app.Sheet.Rows())
}
