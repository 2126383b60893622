//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/config"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/store"
	"github.com/kendall-kelly/dressmaker-orders-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoIntegrationTestSuite runs the stores and the HTTP stack against a
// throwaway mongo container
type MongoIntegrationTestSuite struct {
	suite.Suite
	container *mongodb.MongoDBContainer
	db        *config.Database
	cfg       *config.Config
	orders    *store.MongoOrderStore
	users     *store.MongoUserStore
}

func (suite *MongoIntegrationTestSuite) SetupSuite() {
	testutil.MustSetTestEnvironment(suite.T())
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	suite.Require().NoError(err)
	suite.container = container

	uri, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	suite.cfg = testutil.TestConfig()
	suite.cfg.MongoURI = uri
	suite.db, err = config.ConnectDatabase(ctx, suite.cfg)
	suite.Require().NoError(err)

	suite.orders = store.NewMongoOrderStore(suite.db.DB)
	suite.users = store.NewMongoUserStore(suite.db.DB)
}

func (suite *MongoIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.NoError(suite.db.Close(context.Background()))
	}
	if suite.container != nil {
		suite.NoError(testcontainers.TerminateContainer(suite.container))
	}
}

// SetupTest starts every test from empty collections
func (suite *MongoIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.db.DB.Drop(ctx))
	suite.Require().NoError(store.EnsureIndexes(ctx, suite.db.DB))
}

func (suite *MongoIntegrationTestSuite) newOrder(number, customer string) *models.Order {
	now := time.Now().UTC()
	order := &models.Order{
		OrderNumber:  number,
		CustomerName: customer,
		Price:        models.NewMoney(3000),
		Deposit:      models.NewMoney(1000),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	order.RecomputeBalance()
	return order
}

func (suite *MongoIntegrationTestSuite) TestEnsureIndexesIsRepeatable() {
	suite.NoError(store.EnsureIndexes(context.Background(), suite.db.DB))
}

func (suite *MongoIntegrationTestSuite) TestPing() {
	suite.NoError(suite.db.Ping(context.Background()))
}

func (suite *MongoIntegrationTestSuite) TestOrderRoundTripKeepsMoney() {
	ctx := context.Background()
	order := suite.newOrder("DM-1", "Mali")
	suite.Require().NoError(suite.orders.Create(ctx, order))

	found, err := suite.orders.FindByID(ctx, order.ID)
	suite.Require().NoError(err)
	suite.Equal("DM-1", found.OrderNumber)
	suite.True(found.Balance.Equal(models.NewMoney(2000)))
	suite.True(found.Price.Equal(models.NewMoney(3000)))
}

func (suite *MongoIntegrationTestSuite) TestDuplicateOrderNumber() {
	ctx := context.Background()
	suite.Require().NoError(suite.orders.Create(ctx, suite.newOrder("DM-1", "Mali")))
	err := suite.orders.Create(ctx, suite.newOrder("DM-1", "Noi"))
	suite.ErrorIs(err, store.ErrDuplicate)
}

func (suite *MongoIntegrationTestSuite) TestFindOrdersSearchAndPaging() {
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		order := suite.newOrder(fmt.Sprintf("DM-%d", i), "Customer")
		order.CreatedAt = order.CreatedAt.Add(time.Duration(i) * time.Minute)
		if i == 3 {
			order.CustomerName = "Somjai Rattana"
		}
		suite.Require().NoError(suite.orders.Create(ctx, order))
	}

	page, total, err := suite.orders.Find(ctx, store.OrderFilter{Skip: 2, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal(int64(5), total)
	suite.Require().Len(page, 2)
	suite.Equal("DM-3", page[0].OrderNumber)
	suite.Equal("DM-2", page[1].OrderNumber)

	matches, total, err := suite.orders.Find(ctx, store.OrderFilter{Search: "somjai"})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("DM-3", matches[0].OrderNumber)

	_, total, err = suite.orders.Find(ctx, store.OrderFilter{Status: models.StatusPending})
	suite.NoError(err)
	suite.Equal(int64(5), total)
}

func (suite *MongoIntegrationTestSuite) TestUpdateAndDeleteMissingOrder() {
	ctx := context.Background()
	ghost := suite.newOrder("DM-9", "Ghost")
	ghost.ID = primitive.NewObjectID()
	suite.ErrorIs(suite.orders.Update(ctx, ghost), store.ErrNotFound)
	suite.ErrorIs(suite.orders.Delete(ctx, ghost.ID), store.ErrNotFound)
	_, err := suite.orders.FindByID(ctx, ghost.ID)
	suite.ErrorIs(err, store.ErrNotFound)
}

func (suite *MongoIntegrationTestSuite) TestUserUpsertKeepsRole() {
	ctx := context.Background()
	created, err := suite.users.Upsert(ctx, &models.User{LineUserID: "U1", DisplayName: "Ploy", Phone: "0812345678"})
	suite.Require().NoError(err)
	suite.Equal(models.RoleCustomer, created.Role)
	suite.True(created.IsActive)

	created.PromoteToTailor("gowns")
	suite.Require().NoError(suite.users.Update(ctx, created))

	again, err := suite.users.Upsert(ctx, &models.User{LineUserID: "U1", RealName: "Ploy Srisuk", Role: models.RoleCustomer})
	suite.Require().NoError(err)
	suite.Equal(created.ID, again.ID)
	suite.Equal(models.RoleTailor, again.Role)
	suite.Equal("0812345678", again.Phone)
	suite.Equal("Ploy Srisuk", again.RealName)

	tailors, total, err := suite.users.Find(ctx, store.UserFilter{Role: models.RoleTailor, ActiveOnly: true})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("U1", tailors[0].LineUserID)
}

func TestMongoIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MongoIntegrationTestSuite))
}
