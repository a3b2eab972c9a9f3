package handlers_test

import (
	"MyVault/internal/blob"
	"MyVault/internal/config"
	"MyVault/internal/docstore"
	"MyVault/internal/handlers"
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"MyVault/internal/service"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pngHeader — минимальная сигнатура PNG.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	*httptest.Server
}

// newTestServer поднимает роутер на документном хранилище в памяти и файловом блоб-хранилище.
func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	logger := zap.NewNop().Sugar()
	fs, err := blob.NewFilesystem(t.TempDir(), "/blobs")
	require.NoError(t, err)
	st := repo.NewDocumentStorage(docstore.NewMemory(), logger)
	svc := service.New(st, fs, logger, service.Options{MaxUploadBytes: maxUpload})
	cfg := &config.Config{StorageBackend: config.BackendDocument, CORSOrigins: []string{"*"}}

	h := handlers.NewHandler(svc, logger, cfg, fs.Handler())
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 0)
	resp := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, config.BackendDocument, body["storage"])
}

func TestExpenses_CoffeeScenario(t *testing.T) {
	s := newTestServer(t, 0)

	resp := s.do(t, http.MethodPost, "/api/expenses/", map[string]any{
		"title": "Coffee", "amount": "4.50", "category": "snacks", "occurred_on": "2024-05-10T08:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	coffee := decode[model.Expense](t, resp)
	assert.True(t, coffee.Amount.Equal(decimal.RequireFromString("4.5")))
	require.NotNil(t, coffee.Item)
	assert.Equal(t, "Coffee", coffee.Item.Title)

	resp = s.do(t, http.MethodPost, "/api/expenses/", map[string]any{
		"title": "Salary", "amount": 1000, "category": "savings", "is_income": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/expenses/?is_income=false", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]model.Expense](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, coffee.ID, list[0].ID)

	resp = s.do(t, http.MethodPut, "/api/expenses/"+coffee.ID, map[string]any{"amount": "5.25"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[model.Expense](t, resp)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("5.25")))
	assert.Equal(t, "Coffee", updated.Item.Title)

	resp = s.do(t, http.MethodDelete, "/api/expenses/"+coffee.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/expenses/"+coffee.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/items/"+coffee.ItemID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExpenses_ValidationErrors(t *testing.T) {
	s := newTestServer(t, 0)

	resp := s.do(t, http.MethodPost, "/api/expenses/", map[string]any{"title": "", "amount": -1, "category": "yachts"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	fields, ok := body["fields"].([]any)
	require.True(t, ok)
	assert.Len(t, fields, 3)

	resp = s.do(t, http.MethodGet, "/api/expenses/?start_date=10-05-2024", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/expenses/?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/expenses/report/monthly/2024/13", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/expenses/report/monthly/year/2", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpenses_Reports(t *testing.T) {
	s := newTestServer(t, 0)
	for _, e := range []map[string]any{
		{"title": "Leap", "amount": "10.10", "category": "grocery", "occurred_on": "2024-02-29T12:00:00Z"},
		{"title": "March", "amount": "99", "category": "grocery", "occurred_on": "2024-03-01T00:00:00Z"},
		{"title": "Pay", "amount": "200", "category": "savings", "is_income": true, "occurred_on": "2024-02-01T00:00:00Z"},
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/expenses/", e).StatusCode)
	}

	resp := s.do(t, http.MethodGet, "/api/expenses/report/monthly/2024/2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[service.MonthlyReport](t, resp)
	assert.True(t, rep.TotalExpense.Equal(decimal.RequireFromString("10.10")))
	assert.True(t, rep.TotalIncome.Equal(decimal.RequireFromString("200")))
	assert.True(t, rep.NetAmount.Equal(decimal.RequireFromString("189.90")))

	resp = s.do(t, http.MethodGet, "/api/expenses/report/categories?start_date=2024-02-01&end_date=2024-02-29", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cats := decode[[]service.CategoryTotal](t, resp)
	require.Len(t, cats, 2)
	assert.Equal(t, model.CategoryGrocery, cats[0].Category)
	assert.Equal(t, 1, cats[0].Count)

	resp = s.do(t, http.MethodGet, "/api/expenses/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Category](t, resp), len(model.Categories))
}

func TestTasks_ToggleAndCalendar(t *testing.T) {
	s := newTestServer(t, 0)

	resp := s.do(t, http.MethodPost, "/api/tasks/", map[string]any{"title": "Dentist", "due_at": "2024-06-03T09:30:00Z"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[model.Task](t, resp)
	assert.False(t, task.IsDone)

	resp = s.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[model.Task](t, resp).IsDone)

	resp = s.do(t, http.MethodGet, "/api/tasks/?is_done=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Task](t, resp), 1)

	resp = s.do(t, http.MethodGet, "/api/tasks/calendar?start_date=2024-06-01&end_date=2024-06-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Task](t, resp), 1)

	resp = s.do(t, http.MethodGet, "/api/tasks/calendar?start_date=2024-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/calendar/events?start_date=2024-06-01&end_date=2024-06-30&event_type=tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ev := decode[service.CalendarEvents](t, resp)
	require.Len(t, ev.Tasks, 1)
	assert.Equal(t, "2024-06-03", ev.Tasks[0].Date)
	require.NotNil(t, ev.Tasks[0].Time)
	assert.Equal(t, "09:30:00", *ev.Tasks[0].Time)
	assert.Empty(t, ev.Expenses)

	resp = s.do(t, http.MethodGet, "/api/calendar/events?start_date=2024-06-01&end_date=2024-06-30&event_type=birthdays", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestChat_StatusFlow(t *testing.T) {
	s := newTestServer(t, 0)

	resp := s.do(t, http.MethodPost, "/api/chat/messages", map[string]any{"message": "hello", "conversation_id": "c1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	msg := decode[model.ChatMessage](t, resp)
	assert.Equal(t, model.StatusSent, msg.Status)
	assert.True(t, msg.IsUser)

	resp = s.do(t, http.MethodPut, "/api/chat/messages/"+msg.ID+"/status", map[string]string{"status": "read"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	read := decode[model.ChatMessage](t, resp)
	assert.Equal(t, model.StatusRead, read.Status)
	assert.NotNil(t, read.ReadAt)
	assert.NotNil(t, read.DeliveredAt)

	resp = s.do(t, http.MethodPut, "/api/chat/messages/"+msg.ID+"/status", map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/chat/messages/c1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.ChatMessage](t, resp), 1)

	resp = s.do(t, http.MethodGet, "/api/chat/conversations?limit=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	convs := decode[[]model.Conversation](t, resp)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].MessageCount)

	resp = s.do(t, http.MethodGet, "/api/chat/conversations?limit=51", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_CRUDAndDispatch(t *testing.T) {
	s := newTestServer(t, 0)

	resp := s.do(t, http.MethodPost, "/api/items/", map[string]any{"kind": "note", "title": "Groceries"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	note := decode[model.Item](t, resp)

	resp = s.do(t, http.MethodPost, "/api/tasks/", map[string]any{"title": "Pay rent"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[model.Task](t, resp)

	resp = s.do(t, http.MethodGet, "/api/items/?kind=note", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notes := decode[[]model.Item](t, resp)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	// изменение заголовка через Item видно во вложенной копии задачи
	resp = s.do(t, http.MethodPut, "/api/items/"+task.ItemID, map[string]any{"title": "Pay rent today"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pay rent today", decode[model.Task](t, resp).Item.Title)

	resp = s.do(t, http.MethodDelete, "/api/items/"+task.ItemID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/items/", map[string]any{"kind": "poem", "title": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartBody(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestFiles_UploadDownloadDelete(t *testing.T) {
	s := newTestServer(t, 0)

	body, ct := multipartBody(t, "cat.png", "application/octet-stream", pngHeader, map[string]string{"person": "Ann"})
	resp, err := http.Post(s.URL+"/api/files/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	f := decode[model.FileAsset](t, resp)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, "images", f.Folder)
	assert.Equal(t, "Ann", f.Metadata["person"])
	assert.Equal(t, "/blobs/"+f.StoragePath, f.PublicURL)

	// файловое хранилище раздаётся тем же сервером
	get := s.do(t, http.MethodGet, f.PublicURL, nil)
	require.Equal(t, http.StatusOK, get.StatusCode)
	got, err := io.ReadAll(get.Body)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	dl := s.do(t, http.MethodGet, "/api/files/"+f.ID+"/download", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, dl.StatusCode)
	assert.Equal(t, f.PublicURL, dl.Header.Get("Location"))

	// файловое хранилище не умеет подписывать ссылки
	signed := s.do(t, http.MethodGet, "/api/files/"+f.ID+"/download?signed=true", nil)
	assert.Equal(t, http.StatusBadGateway, signed.StatusCode)

	upd := s.do(t, http.MethodPut, "/api/files/"+f.ID, map[string]any{"folder": "Medical"})
	require.Equal(t, http.StatusOK, upd.StatusCode)
	assert.Equal(t, "Medical", decode[model.FileAsset](t, upd).Folder)

	folders := s.do(t, http.MethodGet, "/api/files/folders/list", nil)
	require.Equal(t, http.StatusOK, folders.StatusCode)
	assert.Len(t, decode[[]model.FolderStat](t, folders), len(model.Folders))

	list := s.do(t, http.MethodGet, "/api/files/?folder=Medical", nil)
	require.Equal(t, http.StatusOK, list.StatusCode)
	assert.Len(t, decode[[]model.FileAsset](t, list), 1)

	del := s.do(t, http.MethodDelete, "/api/files/"+f.ID, nil)
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
	gone := s.do(t, http.MethodGet, f.PublicURL, nil)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestFiles_UploadRejects(t *testing.T) {
	s := newTestServer(t, 64)

	body, ct := multipartBody(t, "big.txt", "text/plain", []byte(strings.Repeat("x", 65)), nil)
	resp, err := http.Post(s.URL+"/api/files/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, ct = multipartBody(t, "a.zip", "application/zip", []byte("PK\x03\x04"), nil)
	resp2, err := http.Post(s.URL+"/api/files/upload", ct, body)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	resp3, err := http.Post(s.URL+"/api/files/upload", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}

func TestMetricsAndCORS(t *testing.T) {
	s := newTestServer(t, 0)
	_ = s.do(t, http.MethodGet, "/api/items/", nil)

	resp := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "myvault_http_requests_total")

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/api/items/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer pre.Body.Close()
	assert.Equal(t, http.StatusNoContent, pre.StatusCode)
	assert.NotEmpty(t, pre.Header.Get("Access-Control-Allow-Origin"))
}
