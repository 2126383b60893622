package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kendall-kelly/dressmaker-orders-api/models"
	"github.com/kendall-kelly/dressmaker-orders-api/utils"
	"github.com/xuri/excelize/v2"
)

// SheetAppender records an order as one bookkeeping spreadsheet row
type SheetAppender interface {
	AppendOrder(ctx context.Context, order *models.Order) error
}

// NewSheetAppender picks the webhook when a URL is set, then the local
// workbook, then the no-op appender
func NewSheetAppender(webhookURL, workbookPath string) SheetAppender {
	switch {
	case webhookURL != "":
		return NewWebhookSheetAppender(webhookURL)
	case workbookPath != "":
		return NewWorkbookSheetAppender(workbookPath)
	default:
		return NoopSheetAppender{}
	}
}

// WebhookSheetAppender posts the row to a spreadsheet script endpoint
type WebhookSheetAppender struct {
	http *resty.Client
	url  string
}

func NewWebhookSheetAppender(url string) *WebhookSheetAppender {
	return &WebhookSheetAppender{
		http: resty.New().SetTimeout(10 * time.Second),
		url:  url,
	}
}

type sheetRowRequest struct {
	Columns []string      `json:"columns"`
	Values  []interface{} `json:"values"`
}

func (a *WebhookSheetAppender) AppendOrder(ctx context.Context, order *models.Order) error {
	resp, err := a.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sheetRowRequest{Columns: utils.OrderColumns, Values: utils.OrderRow(order)}).
		Post(a.url)
	if err != nil {
		return fmt.Errorf("sheet webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sheet webhook: status %d", resp.StatusCode())
	}
	return nil
}

// WorkbookSheetAppender appends rows to a local xlsx file, creating it on
// first use
type WorkbookSheetAppender struct {
	mu   sync.Mutex
	path string
}

func NewWorkbookSheetAppender(path string) *WorkbookSheetAppender {
	return &WorkbookSheetAppender{path: path}
}

func (a *WorkbookSheetAppender) AppendOrder(_ context.Context, order *models.Order) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(utils.OrdersSheet)
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}
	if err := utils.SetRow(f, utils.OrdersSheet, len(rows)+1, utils.OrderRow(order)); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	if err := f.SaveAs(a.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (a *WorkbookSheetAppender) open() (*excelize.File, error) {
	if _, err := os.Stat(a.path); os.IsNotExist(err) {
		return utils.NewOrdersWorkbook()
	}
	f, err := excelize.OpenFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return f, nil
}

// NoopSheetAppender is used when no spreadsheet is configured
type NoopSheetAppender struct{}

func (NoopSheetAppender) AppendOrder(context.Context, *models.Order) error { return nil }
