package utils

import (
	"testing"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrdersWorkbook(t *testing.T) {
	due := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{
			OrderNumber:  "DM-260501-ABC123",
			CustomerName: "Araya",
			Phone:        "0812345678",
			DressName:    "Silk wrap dress",
			Price:        models.NewMoney(3000),
			Deposit:      models.NewMoney(1000),
			Balance:      models.NewMoney(2000),
			Status:       models.StatusProducing,
			TailorStatus: models.TailorSewing,
			DueDate:      &due,
			CreatedAt:    time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	f, err := BuildOrdersWorkbook(orders)
	require.NoError(t, err)

	rows, err := f.GetRows(OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, OrderColumns, rows[0])
	assert.Equal(t, "DM-260501-ABC123", rows[1][0])
	assert.Equal(t, "2026-05-01 09:30", rows[1][1])
	assert.Equal(t, "2000", rows[1][9])
	assert.Equal(t, "producing", rows[1][10])
	assert.Equal(t, "2026-05-20", rows[1][12])
}

func TestOrderRow_MatchesColumns(t *testing.T) {
	row := OrderRow(&models.Order{})
	assert.Len(t, row, len(OrderColumns))
	assert.Equal(t, "", row[12])
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename(time.Date(2026, 10, 14, 8, 5, 0, 0, time.UTC))
	assert.Equal(t, "orders_20261014_0805.xlsx", name)
}
