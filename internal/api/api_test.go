package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knowledge-base-server/internal/api"
	"github.com/knowledge-base-server/internal/config"
	"github.com/knowledge-base-server/internal/kbclient"
	"github.com/knowledge-base-server/internal/mcpserver"
	"github.com/knowledge-base-server/internal/mocks"
	"github.com/knowledge-base-server/internal/models"
	"github.com/knowledge-base-server/internal/repository"
	"github.com/knowledge-base-server/internal/service"
	"github.com/knowledge-base-server/internal/validation"
	"github.com/rs/zerolog"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "3001", CORSOrigins: []string{"*"}},
	}
}

func strPtr(s string) *string { return &s }

func testArticles() []*models.Article {
	return []*models.Article{
		{ID: "art-0001", Title: "VPN Setup", Content: "Steps to configure VPN", Summary: strPtr("Connect remotely"), Tags: []string{"vpn", "network"}, Status: models.StatusDraft, UpdatedAt: base.Add(3 * time.Second)},
		{ID: "art-0002", Title: "Printer Queue", Content: "Clearing stuck jobs", Tags: []string{"printer", "hardware"}, Status: models.StatusPublished, UpdatedAt: base.Add(2 * time.Second)},
		{ID: "art-0003", Title: "Old Wifi", Content: "Legacy access points", Summary: strPtr("Deprecated network notes"), Tags: []string{"wifi"}, Status: models.StatusArchived, UpdatedAt: base.Add(1 * time.Second)},
	}
}

func setupTestRouter(articles ...*models.Article) (http.Handler, *mocks.MockArticleGateway) {
	gin.SetMode(gin.TestMode)

	gateway := mocks.NewMockArticleGateway(articles...)
	stats := service.NewArticleService(mocks.NewMockArticleRepository(articles...), zerolog.Nop())

	router := api.NewRouter(gateway, stats, testConfig(), zerolog.Nop())
	return router, gateway
}

func doJSON(router http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type listResponse struct {
	Articles []models.ArticleSummary `json:"articles"`
	Count    int                     `json:"count"`
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "knowledge-base-server" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated request id header")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("Expected request id to be echoed, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(testArticles()...)

	w := doJSON(router, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	articles := response["articles"].(map[string]interface{})
	if articles["total"].(float64) != 3 {
		t.Errorf("Expected 3 articles, got %v", articles["total"])
	}
	byStatus := articles["by_status"].(map[string]interface{})
	if byStatus["draft"].(float64) != 1 || byStatus["archived"].(float64) != 1 {
		t.Errorf("Unexpected status counts: %v", byStatus)
	}
}

func TestListArticles(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantIDs []string
	}{
		{name: "status defaults to all", url: "/api/articles", wantIDs: []string{"art-0001", "art-0002", "art-0003"}},
		{name: "explicit status", url: "/api/articles?status=published", wantIDs: []string{"art-0002"}},
		{name: "q matches title", url: "/api/articles?q=printer%20q", wantIDs: []string{"art-0002"}},
		{name: "q matches summary", url: "/api/articles?q=DEPRECATED", wantIDs: []string{"art-0003"}},
		{name: "q matches tag", url: "/api/articles?q=HARDW", wantIDs: []string{"art-0002"}},
		{name: "q does not match content", url: "/api/articles?q=stuck", wantIDs: []string{}},
		{name: "q and status combine", url: "/api/articles?q=vpn&status=published", wantIDs: []string{}},
		{name: "limit", url: "/api/articles?limit=2", wantIDs: []string{"art-0001", "art-0002"}},
		{name: "malformed limit uses default", url: "/api/articles?limit=abc", wantIDs: []string{"art-0001", "art-0002", "art-0003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(testArticles()...)

			w := doJSON(router, "GET", tt.url, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var response listResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatal(err)
			}
			if response.Count != len(tt.wantIDs) || len(response.Articles) != len(tt.wantIDs) {
				t.Fatalf("Expected %v, got %+v", tt.wantIDs, response)
			}
			for i, id := range tt.wantIDs {
				if response.Articles[i].ID != id {
					t.Errorf("Expected %s at %d, got %s", id, i, response.Articles[i].ID)
				}
			}
		})
	}
}

func TestListArticles_LimitCapped(t *testing.T) {
	var articles []*models.Article
	for i := 0; i < 120; i++ {
		articles = append(articles, &models.Article{ID: fmt.Sprintf("art-%04d", i+1), Title: "bulk", Tags: []string{"bulk"}, Status: models.StatusDraft})
	}
	router, _ := setupTestRouter(articles...)

	for _, url := range []string{"/api/articles?limit=500", "/api/articles?limit=100"} {
		var response listResponse
		json.Unmarshal(doJSON(router, "GET", url, nil).Body.Bytes(), &response)
		if response.Count != 100 {
			t.Errorf("%s: expected 100 articles, got %d", url, response.Count)
		}
	}

	var response listResponse
	json.Unmarshal(doJSON(router, "GET", "/api/articles", nil).Body.Bytes(), &response)
	if response.Count != 50 {
		t.Errorf("Expected default limit 50, got %d", response.Count)
	}
}

func TestListArticles_CatalogError(t *testing.T) {
	router, gateway := setupTestRouter()
	gateway.CatalogError = errors.New("empty catalog")

	w := doJSON(router, "GET", "/api/articles", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestGetArticle(t *testing.T) {
	router, _ := setupTestRouter(testArticles()...)

	w := doJSON(router, "GET", "/api/articles/art-0002", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var article models.Article
	json.Unmarshal(w.Body.Bytes(), &article)
	if article.ID != "art-0002" || article.Content != "Clearing stuck jobs" {
		t.Errorf("Unexpected article: %+v", article)
	}

	w = doJSON(router, "GET", "/api/articles/art-0404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCreateArticle_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "missing title", body: map[string]any{"content": "Long enough content", "tags": []string{"x"}}},
		{name: "missing content", body: map[string]any{"title": "A title", "tags": []string{"x"}}},
		{name: "no tags", body: map[string]any{"title": "A title", "content": "Long enough content", "tags": []string{}}},
		{name: "tags not a list", body: map[string]any{"title": "A title", "content": "Long enough content", "tags": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, gateway := setupTestRouter()

			w := doJSON(router, "POST", "/api/articles", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d. Body: %s", w.Code, w.Body.String())
			}
			if len(gateway.CreatedFields) != 0 {
				t.Error("Gateway must not be called for an invalid body")
			}
		})
	}
}

func TestCreateArticle_TrimsAndDefaults(t *testing.T) {
	router, gateway := setupTestRouter()

	w := doJSON(router, "POST", "/api/articles", map[string]any{
		"title":   "  VPN Setup ",
		"content": " Steps to configure VPN... ",
		"tags":    []string{" vpn ", "  ", "network"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	fields := gateway.CreatedFields[0]
	if fields.Title != "VPN Setup" || fields.Content != "Steps to configure VPN..." {
		t.Errorf("Strings not trimmed: %+v", fields)
	}
	if len(fields.Tags) != 2 || fields.Tags[0] != "vpn" || fields.Tags[1] != "network" {
		t.Errorf("Tags not cleaned: %v", fields.Tags)
	}
	if fields.Status != models.StatusDraft || fields.Summary != nil || fields.Author != "" {
		t.Errorf("Unexpected defaults: %+v", fields)
	}
}

func TestCreateArticle_ToolRejection(t *testing.T) {
	router, gateway := setupTestRouter()
	gateway.CreateError = fmt.Errorf("%w: Invalid arguments: title: the length must be between 3 and 200", kbclient.ErrToolFailed)

	w := doJSON(router, "POST", "/api/articles", map[string]any{"title": "ab", "content": "Long enough content", "tags": []string{"x"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUpdateArticle_OnlyPresentFields(t *testing.T) {
	router, gateway := setupTestRouter(testArticles()...)

	w := doJSON(router, "PUT", "/api/articles/art-0001", map[string]any{"status": "published", "title": " New title "})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	update := gateway.Updates["art-0001"]
	if update.Content != nil || update.Summary != nil || update.Tags != nil {
		t.Errorf("Absent fields forwarded: %+v", update)
	}
	if update.Title == nil || *update.Title != "New title" {
		t.Errorf("Expected trimmed title, got %v", update.Title)
	}

	var article models.Article
	json.Unmarshal(w.Body.Bytes(), &article)
	if article.Status != models.StatusPublished {
		t.Errorf("Expected published, got %s", article.Status)
	}
}

func TestUpdateArticle_NotFound(t *testing.T) {
	router, _ := setupTestRouter(testArticles()...)

	w := doJSON(router, "PUT", "/api/articles/art-0404", map[string]any{"status": "published"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/articles", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for pre-flight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", got)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected Access-Control-Allow-Methods header")
	}
}

// TestEndToEnd drives the app against a real in-process MCP server
func TestEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repos := repository.New()
	services := service.NewServices(repos, zerolog.Nop())
	s := mcpserver.New(services, validation.NewValidator(), zerolog.Nop())
	gateway, err := kbclient.NewInProcess(ctx, s, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer gateway.Close()

	router := api.NewRouter(gateway, services.Article, testConfig(), zerolog.Nop())

	w := doJSON(router, "POST", "/api/articles", map[string]any{
		"title":   "VPN Setup",
		"content": "Steps to configure VPN...",
		"tags":    []string{"VPN", "network"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var created models.Article
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID != "art-0001" || created.Status != models.StatusDraft || created.Author != models.DefaultAuthor {
		t.Errorf("Unexpected created article: %+v", created)
	}

	w = doJSON(router, "POST", "/api/articles", map[string]any{"title": "ab", "content": "Long enough content", "tags": []string{"x"}})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "title") {
		t.Errorf("Expected tool-side rejection as 400, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(router, "PUT", "/api/articles/"+created.ID, map[string]any{"status": "published"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var response listResponse
	json.Unmarshal(doJSON(router, "GET", "/api/articles?status=published&q=vpn", nil).Body.Bytes(), &response)
	if response.Count != 1 || response.Articles[0].ID != created.ID {
		t.Errorf("Expected the published article in the list, got %+v", response)
	}

	if w := doJSON(router, "GET", "/api/articles/art-0404", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
