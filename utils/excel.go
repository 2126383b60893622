package utils

import (
	"fmt"
	"time"

	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/xuri/excelize/v2"
)

// OrdersSheet is the worksheet orders are written to
const OrdersSheet = "Orders"

// OrderColumns are the header cells of an order sheet
var OrderColumns = []string{
	"Order No.", "Created", "Customer", "Phone", "Dress", "Color", "Size",
	"Price", "Deposit", "Balance", "Status", "Tailor Status", "Due", "Notes",
}

// OrderRow flattens an order into spreadsheet cells matching OrderColumns
func OrderRow(order *models.Order) []interface{} {
	due := ""
	if order.DueDate != nil {
		due = order.DueDate.Format("2006-01-02")
	}
	return []interface{}{
		order.OrderNumber,
		order.CreatedAt.Format("2006-01-02 15:04"),
		order.CustomerName,
		order.Phone,
		order.DressName,
		order.Color,
		order.Size,
		order.Price.InexactFloat64(),
		order.Deposit.InexactFloat64(),
		order.Balance.InexactFloat64(),
		string(order.Status),
		string(order.TailorStatus),
		due,
		order.Notes,
	}
}

// NewOrdersWorkbook creates a workbook with the header row on OrdersSheet
func NewOrdersWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return nil, err
	}
	if err := SetRow(f, OrdersSheet, 1, headerCells()); err != nil {
		return nil, err
	}
	return f, nil
}

// BuildOrdersWorkbook writes every order below the header row
func BuildOrdersWorkbook(orders []models.Order) (*excelize.File, error) {
	f, err := NewOrdersWorkbook()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := SetRow(f, OrdersSheet, i+2, OrderRow(&orders[i])); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SetRow writes values into row starting at column A
func SetRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, val := range values {
		axis, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, axis, val); err != nil {
			return fmt.Errorf("set %s: %w", axis, err)
		}
	}
	return nil
}

// ExportFilename names an export taken at t
func ExportFilename(t time.Time) string {
	return "orders_" + t.Format("20060102_1504") + ".xlsx"
}

func headerCells() []interface{} {
	cells := make([]interface{}, len(OrderColumns))
	for i, c := range OrderColumns {
		cells[i] = c
	}
	return cells
}
