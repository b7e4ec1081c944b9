package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/legal-services-api/internal/app"
	"github.com/jwalitptl/legal-services-api/internal/config"
	"github.com/jwalitptl/legal-services-api/internal/handler/prometheus"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository/memory"
	"github.com/jwalitptl/legal-services-api/internal/service/spreadsheet"
)

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	staff  string
	client string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode, TimeoutSeconds: 5, MaxUploadMB: 5},
		Database:  config.DatabaseConfig{Driver: "memory"},
		JWT:       config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpiryHours: 1},
		Cache:     config.CacheConfig{TTL: time.Minute, CleanupInterval: time.Minute},
		RateLimit: config.RateLimitConfig{InquiryRPS: 100, InquiryBurst: 100},
	}

	store := memory.NewStore()
	tokens := app.NewTokenManager(cfg.JWT)
	prom := prometheus.New("test")
	services := app.NewServices(store, cfg.Cache, nil, prom.Metrics(), nil)
	r := app.NewRouter(cfg, services, tokens, store.Health, prom)

	token := func(u *model.User) string {
		require.NoError(t, store.Users.Create(context.Background(), u))
		tok, err := tokens.GenerateAccessToken(u.Actor())
		require.NoError(t, err)
		return tok
	}

	return &testAPI{
		t:      t,
		engine: r.Engine(),
		staff:  token(&model.User{Username: "staff", Email: "staff@example.com", IsStaff: true}),
		client: token(&model.User{Username: "client", Email: "client@example.com"}),
	}
}

func (a *testAPI) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testAPI) request(method, path string, body interface{}, token string) (int, apiResponse) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := a.do(req, token)

	var resp apiResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func (a *testAPI) createCategory(name string) int64 {
	a.t.Helper()
	code, resp := a.request(http.MethodPost, "/categories/", map[string]interface{}{"name": name}, a.staff)
	require.Equal(a.t, http.StatusCreated, code, resp.Message)

	var category struct {
		ID int64 `json:"id"`
	}
	decode(a.t, resp.Data, &category)
	return category.ID
}

func (a *testAPI) createService(categoryID int64, title, status string) string {
	a.t.Helper()
	code, resp := a.request(http.MethodPost, "/services/", map[string]interface{}{
		"title":             title,
		"category_id":       categoryID,
		"short_description": "Short " + title,
		"full_description":  "Full " + title,
		"price":             "1500.00",
		"status":            status,
	}, a.staff)
	require.Equal(a.t, http.StatusCreated, code, resp.Message)

	var svc struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}
	decode(a.t, resp.Data, &svc)
	return svc.Slug
}

type listedService struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

func titles(items []listedService) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		w := api.do(httptest.NewRequest(http.MethodGet, path, nil), "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	api.request(http.MethodGet, "/categories/", nil, "")

	w := api.do(httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}

func TestAuthentication(t *testing.T) {
	api := newTestAPI(t)

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/", nil)
		req.Header.Set("Authorization", "Token abc")
		w := api.do(req, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		code, resp := api.request(http.MethodGet, "/categories/", nil, "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "invalid token", resp.Message)
	})

	t.Run("anonymous write", func(t *testing.T) {
		code, _ := api.request(http.MethodPost, "/categories/", map[string]interface{}{"name": "Tax"}, "")
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("request id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := api.do(req, "")
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})
}

func TestCategoryLifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := api.createCategory("Family Law")

	code, resp := api.request(http.MethodPost, "/categories/", map[string]interface{}{"name": "Family Law"}, api.staff)
	assert.Equal(t, http.StatusBadRequest, code, resp.Message)

	code, resp = api.request(http.MethodPatch, fmt.Sprintf("/categories/%d/", id), map[string]interface{}{"icon": "fa-home"}, api.client)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var category struct {
		Name          string `json:"name"`
		Icon          string `json:"icon"`
		ServicesCount int    `json:"services_count"`
	}
	code, resp = api.request(http.MethodGet, fmt.Sprintf("/categories/%d/", id), nil, "")
	require.Equal(t, http.StatusOK, code)
	decode(t, resp.Data, &category)
	assert.Equal(t, "Family Law", category.Name)
	assert.Equal(t, "fa-home", category.Icon)
	assert.Zero(t, category.ServicesCount)

	code, _ = api.request(http.MethodGet, "/categories/abc/", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.request(http.MethodDelete, fmt.Sprintf("/categories/%d/", id), nil, api.staff)
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.request(http.MethodGet, fmt.Sprintf("/categories/%d/", id), nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServiceVisibility(t *testing.T) {
	api := newTestAPI(t)
	categoryID := api.createCategory("Corporate")
	api.createService(categoryID, "Contract Review", "active")
	api.createService(categoryID, "Incorporation", "featured")
	hidden := api.createService(categoryID, "Retired Offering", "inactive")

	var items []listedService

	code, resp := api.request(http.MethodGet, "/services/?ordering=title", nil, "")
	require.Equal(t, http.StatusOK, code)
	decode(t, resp.Data, &items)
	assert.Equal(t, []string{"Contract Review", "Incorporation"}, titles(items))

	code, resp = api.request(http.MethodGet, "/services/?ordering=title", nil, api.staff)
	require.Equal(t, http.StatusOK, code)
	decode(t, resp.Data, &items)
	assert.Equal(t, []string{"Contract Review", "Incorporation", "Retired Offering"}, titles(items))

	code, _ = api.request(http.MethodGet, "/services/"+hidden+"/", nil, api.client)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.request(http.MethodGet, "/services/"+hidden+"/", nil, api.staff)
	assert.Equal(t, http.StatusOK, code)

	code, resp = api.request(http.MethodGet, "/services/featured/", nil, "")
	require.Equal(t, http.StatusOK, code)
	decode(t, resp.Data, &items)
	assert.Equal(t, []string{"Incorporation"}, titles(items))

	code, _ = api.request(http.MethodGet, "/services/?status=archived", nil, api.staff)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServicesByCategory(t *testing.T) {
	api := newTestAPI(t)
	corporate := api.createCategory("Corporate")
	property := api.createCategory("Property")
	api.createService(corporate, "Contract Review", "active")
	api.createService(property, "Title Search", "active")

	code, resp := api.request(http.MethodGet, "/services/by_category/", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "category_id parameter is required", resp.Message)

	code, resp = api.request(http.MethodGet, "/services/by_category/?category_id=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "category_id must be an integer", resp.Message)

	var items []listedService
	code, resp = api.request(http.MethodGet, fmt.Sprintf("/services/by_category/?category_id=%d", property), nil, "")
	require.Equal(t, http.StatusOK, code)
	decode(t, resp.Data, &items)
	assert.Equal(t, []string{"Title Search"}, titles(items))
}

func TestInquiryWorkflow(t *testing.T) {
	api := newTestAPI(t)
	categoryID := api.createCategory("Corporate")
	slug := api.createService(categoryID, "Contract Review", "active")

	code, resp := api.request(http.MethodGet, "/services/"+slug+"/", nil, "")
	require.Equal(t, http.StatusOK, code)
	var svc struct {
		ID int64 `json:"id"`
	}
	decode(t, resp.Data, &svc)

	submit := func(email, token string) int64 {
		code, resp := api.request(http.MethodPost, "/inquiries/", map[string]interface{}{
			"service": svc.ID,
			"name":    "Jordan Client",
			"email":   email,
			"phone":   "+15550100",
			"message": "Please review my lease.",
		}, token)
		require.Equal(t, http.StatusCreated, code, resp.Message)

		var inquiry struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		decode(t, resp.Data, &inquiry)
		assert.Equal(t, "pending", inquiry.Status)
		return inquiry.ID
	}

	own := submit("client@example.com", "")
	other := submit("someone@example.com", "")

	t.Run("anonymous cannot list", func(t *testing.T) {
		code, _ := api.request(http.MethodGet, "/inquiries/", nil, "")
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("client sees own inquiries", func(t *testing.T) {
		var items []struct {
			ID int64 `json:"id"`
		}
		code, resp := api.request(http.MethodGet, "/inquiries/", nil, api.client)
		require.Equal(t, http.StatusOK, code)
		decode(t, resp.Data, &items)
		require.Len(t, items, 1)
		assert.Equal(t, own, items[0].ID)

		code, _ = api.request(http.MethodGet, fmt.Sprintf("/inquiries/%d/", other), nil, api.client)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("staff sees every inquiry", func(t *testing.T) {
		var items []json.RawMessage
		code, resp := api.request(http.MethodGet, "/inquiries/", nil, api.staff)
		require.Equal(t, http.StatusOK, code)
		decode(t, resp.Data, &items)
		assert.Len(t, items, 2)
	})

	t.Run("status updates are staff only", func(t *testing.T) {
		path := fmt.Sprintf("/inquiries/%d/update_status/", own)

		code, _ := api.request(http.MethodPatch, path, map[string]interface{}{"status": "contacted"}, api.client)
		assert.Equal(t, http.StatusForbidden, code)

		code, _ = api.request(http.MethodPatch, path, map[string]interface{}{"status": "archived"}, api.staff)
		assert.Equal(t, http.StatusBadRequest, code)

		code, resp := api.request(http.MethodPatch, path, map[string]interface{}{"status": "contacted", "notes": "Called back"}, api.staff)
		require.Equal(t, http.StatusOK, code, resp.Message)

		var inquiry struct {
			Status     string `json:"status"`
			Notes      string `json:"notes"`
			AssignedTo *int64 `json:"assigned_to"`
		}
		decode(t, resp.Data, &inquiry)
		assert.Equal(t, "contacted", inquiry.Status)
		assert.Equal(t, "Called back", inquiry.Notes)
		assert.NotNil(t, inquiry.AssignedTo)
	})
}

func TestAdminAccess(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.request(http.MethodGet, "/admin/categories/export-excel/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.request(http.MethodGet, "/admin/categories/export-excel/", nil, api.client)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminTemplateImportExport(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/download-template/category/", nil), api.staff)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "service_categories_template.xlsx")
	template := w.Body.Bytes()

	code, resp := api.request(http.MethodGet, "/admin/download-template/invoice/", nil, api.staff)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Message, "invoice")

	upload := func(data []byte) (int, apiResponse) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		if data != nil {
			part, err := mw.CreateFormFile("excel_file", "categories.xlsx")
			require.NoError(t, err)
			_, err = part.Write(data)
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/categories/import-excel/", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := api.do(req, api.staff)

		var resp apiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
		return w.Code, resp
	}

	code, resp = upload(nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No file provided", resp.Message)

	code, resp = upload(template)
	require.Equal(t, http.StatusOK, code, resp.Message)
	var result model.ImportResult
	decode(t, resp.Data, &result)
	assert.Equal(t, 3, result.Created)
	assert.Empty(t, result.Errors)

	var categories []struct {
		Name string `json:"name"`
	}
	code, resp = api.request(http.MethodGet, "/categories/", nil, "")
	require.Equal(t, http.StatusOK, code)
	decode(t, resp.Data, &categories)
	assert.Len(t, categories, 3)

	w = api.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/categories/export-excel/", nil), api.staff)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.NotEmpty(t, w.Body.Bytes())

	code, resp = api.request(http.MethodGet, "/admin/categories/export-excel/?ids=1,x", nil, api.staff)
	assert.Equal(t, http.StatusBadRequest, code, resp.Message)
}
