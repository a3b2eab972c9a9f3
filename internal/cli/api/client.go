// Package api — HTTP-клиент CLI к серверу MyVault.
package api

import (
	"MyVault/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Client ходит в REST API сервера.
type Client struct {
	http *resty.Client
}

// APIError — ответ сервера со статусом 4xx/5xx.
type APIError struct {
	Status  int
	Message string
	Fields  []model.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("server error (%d): %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// CategoryTotal — строка отчёта по категориям.
type CategoryTotal struct {
	Category    model.Category  `json:"category"`
	IsIncome    bool            `json:"is_income"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

// MonthlyReport — итоги месяца.
type MonthlyReport struct {
	Month             string          `json:"month"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
}

// ExpenseQuery — фильтры списка расходов; пустые поля не передаются.
type ExpenseQuery struct {
	IsIncome  *bool
	Category  string
	StartDate string
	EndDate   string
	Limit     int
}

// TaskQuery — фильтры списка задач.
type TaskQuery struct {
	IsDone  *bool
	Overdue bool
	Limit   int
}

// New создаёт клиент для serverURL вида http://host:port.
func New(serverURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(serverURL, "/")).
		SetHeader("User-Agent", "MyVault-CLI/1.0").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

// check превращает неуспешный ответ в *APIError.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode()}
	var body struct {
		Error  string             `json:"error"`
		Fields []model.FieldError `json:"fields"`
	}
	if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
		apiErr.Message, apiErr.Fields = body.Error, body.Fields
	} else {
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	return apiErr
}

func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	return check(resp, err)
}

// ListItems возвращает записи; пустой kind — все виды.
func (c *Client) ListItems(ctx context.Context, kind string, limit int) ([]model.Item, error) {
	var out []model.Item
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if kind != "" {
		req.SetQueryParam("kind", kind)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	if err := check(req.Get("/api/items/")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, in model.ExpenseCreate) (*model.Expense, error) {
	var out model.Expense
	resp, err := c.http.R().SetContext(ctx).SetBody(in).SetResult(&out).Post("/api/expenses/")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListExpenses(ctx context.Context, q ExpenseQuery) ([]model.Expense, error) {
	var out []model.Expense
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if q.IsIncome != nil {
		req.SetQueryParam("is_income", strconv.FormatBool(*q.IsIncome))
	}
	if q.Category != "" {
		req.SetQueryParam("category", q.Category)
	}
	if q.StartDate != "" {
		req.SetQueryParam("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		req.SetQueryParam("end_date", q.EndDate)
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	if err := check(req.Get("/api/expenses/")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return check(c.http.R().SetContext(ctx).SetPathParam("id", id).Delete("/api/expenses/{id}"))
}

func (c *Client) MonthlyReport(ctx context.Context, year, month int) (*MonthlyReport, error) {
	var out MonthlyReport
	resp, err := c.http.R().SetContext(ctx).
		SetPathParams(map[string]string{"year": strconv.Itoa(year), "month": strconv.Itoa(month)}).
		SetResult(&out).
		Get("/api/expenses/report/monthly/{year}/{month}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskCreate) (*model.Task, error) {
	var out model.Task
	resp, err := c.http.R().SetContext(ctx).SetBody(in).SetResult(&out).Post("/api/tasks/")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	var out []model.Task
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if q.IsDone != nil {
		req.SetQueryParam("is_done", strconv.FormatBool(*q.IsDone))
	}
	if q.Overdue {
		req.SetQueryParam("overdue", "true")
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	if err := check(req.Get("/api/tasks/")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ToggleTask(ctx context.Context, id string) (*model.Task, error) {
	var out model.Task
	resp, err := c.http.R().SetContext(ctx).SetPathParam("id", id).SetResult(&out).Post("/api/tasks/{id}/toggle")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendMessage(ctx context.Context, in model.ChatCreate) (*model.ChatMessage, error) {
	var out model.ChatMessage
	resp, err := c.http.R().SetContext(ctx).SetBody(in).SetResult(&out).Post("/api/chat/messages")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFile отправляет локальный файл multipart-формой.
func (c *Client) UploadFile(ctx context.Context, path, folder, title string) (*model.FileAsset, error) {
	var out model.FileAsset
	req := c.http.R().SetContext(ctx).SetFile("file", path).SetResult(&out)
	fields := map[string]string{}
	if folder != "" {
		fields["folder"] = folder
	}
	if title != "" {
		fields["title"] = title
	}
	req.SetFormData(fields)
	if err := check(req.Post("/api/files/upload")); err != nil {
		return nil, err
	}
	return &out, nil
}
