package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/knowledge-base-server/internal/models"
)

func strPtr(s string) *string       { return &s }
func numPtr(f float64) *float64     { return &f }
func tagsPtr(t ...string) *[]string { return &t }

func hasField(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateSearch(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		req        *models.SearchArticlesRequest
		wantErrors int
		wantFields []string
	}{
		{
			name: "minimal query",
			req:  &models.SearchArticlesRequest{Query: "vpn"},
		},
		{
			name: "all fields",
			req: &models.SearchArticlesRequest{
				Query:  "vpn",
				Status: strPtr("all"),
				Limit:  numPtr(20),
				Tags:   []string{"network"},
			},
		},
		{
			name:       "empty query",
			req:        &models.SearchArticlesRequest{Query: ""},
			wantErrors: 1,
			wantFields: []string{"query"},
		},
		{
			name:       "query too long",
			req:        &models.SearchArticlesRequest{Query: strings.Repeat("q", 201)},
			wantErrors: 1,
			wantFields: []string{"query"},
		},
		{
			name:       "unknown status",
			req:        &models.SearchArticlesRequest{Query: "vpn", Status: strPtr("deleted")},
			wantErrors: 1,
			wantFields: []string{"status"},
		},
		{
			name:       "limit above maximum",
			req:        &models.SearchArticlesRequest{Query: "vpn", Limit: numPtr(21)},
			wantErrors: 1,
			wantFields: []string{"limit"},
		},
		{
			name:       "limit zero",
			req:        &models.SearchArticlesRequest{Query: "vpn", Limit: numPtr(0)},
			wantErrors: 1,
			wantFields: []string{"limit"},
		},
		{
			name:       "fractional limit",
			req:        &models.SearchArticlesRequest{Query: "vpn", Limit: numPtr(2.5)},
			wantErrors: 1,
			wantFields: []string{"limit"},
		},
		{
			name:       "tag too long",
			req:        &models.SearchArticlesRequest{Query: "vpn", Tags: []string{strings.Repeat("t", 31)}},
			wantErrors: 1,
			wantFields: []string{"tags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Search(tt.req)
			errs := FieldErrors(err)
			if len(errs) != tt.wantErrors {
				t.Errorf("Search() got %d errors, want %d. Errors: %v", len(errs), tt.wantErrors, errs)
			}
			for _, f := range tt.wantFields {
				if !hasField(errs, f) {
					t.Errorf("Expected error for field '%s' but not found", f)
				}
			}
		})
	}
}

func TestValidateSearch_Defaults(t *testing.T) {
	opts, err := NewValidator().Search(&models.SearchArticlesRequest{Query: "vpn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Status != models.StatusPublished {
		t.Errorf("Expected default status published, got %s", opts.Status)
	}
	if opts.Limit != DefaultSearchLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultSearchLimit, opts.Limit)
	}
}

func TestValidateCreate(t *testing.T) {
	validator := NewValidator()

	valid := func() *models.CreateArticleRequest {
		return &models.CreateArticleRequest{
			Title:   "VPN Setup",
			Content: "Steps to configure VPN...",
			Tags:    []string{"vpn", "network"},
		}
	}

	tests := []struct {
		name       string
		mutate     func(r *models.CreateArticleRequest)
		wantFields []string
	}{
		{name: "valid minimal", mutate: func(r *models.CreateArticleRequest) {}},
		{name: "valid published", mutate: func(r *models.CreateArticleRequest) { r.Status = strPtr("published") }},
		{name: "title too short", mutate: func(r *models.CreateArticleRequest) { r.Title = "ab" }, wantFields: []string{"title"}},
		{name: "title missing", mutate: func(r *models.CreateArticleRequest) { r.Title = "" }, wantFields: []string{"title"}},
		{name: "content too short", mutate: func(r *models.CreateArticleRequest) { r.Content = "short" }, wantFields: []string{"content"}},
		{name: "summary too long", mutate: func(r *models.CreateArticleRequest) { r.Summary = strPtr(strings.Repeat("s", 501)) }, wantFields: []string{"summary"}},
		{name: "no tags", mutate: func(r *models.CreateArticleRequest) { r.Tags = nil }, wantFields: []string{"tags"}},
		{name: "empty tag list", mutate: func(r *models.CreateArticleRequest) { r.Tags = []string{} }, wantFields: []string{"tags"}},
		{name: "too many tags", mutate: func(r *models.CreateArticleRequest) { r.Tags = strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",") }, wantFields: []string{"tags"}},
		{name: "archived not allowed on create", mutate: func(r *models.CreateArticleRequest) { r.Status = strPtr("archived") }, wantFields: []string{"status"}},
		{name: "all not allowed on create", mutate: func(r *models.CreateArticleRequest) { r.Status = strPtr("all") }, wantFields: []string{"status"}},
		{
			name: "multiple errors",
			mutate: func(r *models.CreateArticleRequest) {
				r.Title = ""
				r.Content = ""
				r.Tags = nil
			},
			wantFields: []string{"content", "tags", "title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := validator.Create(req)
			errs := FieldErrors(err)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Create() got %d errors, want %d. Errors: %v", len(errs), len(tt.wantFields), errs)
			}
			for i, f := range tt.wantFields {
				if errs[i].Field != f {
					t.Errorf("Expected error %d for field '%s', got '%s'", i, f, errs[i].Field)
				}
			}
		})
	}
}

func TestValidateCreate_Defaults(t *testing.T) {
	fields, err := NewValidator().Create(&models.CreateArticleRequest{
		Title:   "VPN Setup",
		Content: "Steps to configure VPN...",
		Tags:    []string{"vpn"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Status != models.StatusDraft {
		t.Errorf("Expected draft, got %s", fields.Status)
	}
	if fields.Author != models.DefaultAuthor {
		t.Errorf("Expected default author, got %s", fields.Author)
	}
	if fields.Summary != nil {
		t.Errorf("Expected no summary, got %v", *fields.Summary)
	}
}

func TestValidateUpdate(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		req        *models.UpdateArticleRequest
		wantFields []string
	}{
		{name: "id only", req: &models.UpdateArticleRequest{ID: "art-0001"}},
		{name: "status archived", req: &models.UpdateArticleRequest{ID: "art-0001", Status: strPtr("archived")}},
		{name: "replacement tags", req: &models.UpdateArticleRequest{ID: "art-0001", Tags: tagsPtr("c")}},
		{name: "empty summary allowed", req: &models.UpdateArticleRequest{ID: "art-0001", Summary: strPtr("")}},
		{name: "missing id", req: &models.UpdateArticleRequest{}, wantFields: []string{"id"}},
		{name: "present but empty title", req: &models.UpdateArticleRequest{ID: "art-0001", Title: strPtr("")}, wantFields: []string{"title"}},
		{name: "short content", req: &models.UpdateArticleRequest{ID: "art-0001", Content: strPtr("tiny")}, wantFields: []string{"content"}},
		{name: "long tag", req: &models.UpdateArticleRequest{ID: "art-0001", Tags: tagsPtr(strings.Repeat("x", 31))}, wantFields: []string{"tags"}},
		{name: "empty tag list", req: &models.UpdateArticleRequest{ID: "art-0001", Tags: tagsPtr()}, wantFields: []string{"tags"}},
		{name: "eleven tags", req: &models.UpdateArticleRequest{ID: "art-0001", Tags: tagsPtr("a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k")}, wantFields: []string{"tags"}},
		{name: "sentinel status", req: &models.UpdateArticleRequest{ID: "art-0001", Status: strPtr("all")}, wantFields: []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := validator.Update(tt.req)
			errs := FieldErrors(err)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Update() got %d errors, want %d. Errors: %v", len(errs), len(tt.wantFields), errs)
			}
			for _, f := range tt.wantFields {
				if !hasField(errs, f) {
					t.Errorf("Expected error for field '%s' but not found", f)
				}
			}
		})
	}
}

func TestValidateUpdate_OnlyPresentFields(t *testing.T) {
	id, update, err := NewValidator().Update(&models.UpdateArticleRequest{ID: "art-0002", Status: strPtr("published")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "art-0002" {
		t.Errorf("Expected id art-0002, got %s", id)
	}
	if update.Title != nil || update.Content != nil || update.Summary != nil || update.Tags != nil {
		t.Errorf("Absent fields must stay nil: %+v", update)
	}
	if update.Status == nil || *update.Status != models.StatusPublished {
		t.Errorf("Expected published status, got %v", update.Status)
	}
}

func TestValidateList(t *testing.T) {
	validator := NewValidator()

	opts, err := validator.List(&models.ListArticlesRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Status != models.StatusPublished || opts.Limit != DefaultListLimit {
		t.Errorf("Unexpected defaults: %+v", opts)
	}

	if _, err := validator.List(&models.ListArticlesRequest{Limit: numPtr(50)}); err != nil {
		t.Errorf("limit 50 should be accepted: %v", err)
	}
	if _, err := validator.List(&models.ListArticlesRequest{Limit: numPtr(51)}); err == nil {
		t.Error("limit 51 should be rejected")
	}
	if _, err := validator.List(&models.ListArticlesRequest{Status: strPtr("")}); err == nil {
		t.Error("empty status should be rejected")
	}
}

func TestDescribe(t *testing.T) {
	_, err := NewValidator().Create(&models.CreateArticleRequest{Title: "ab", Content: "long enough content", Tags: []string{"x"}})
	got := Describe(err)
	if !strings.HasPrefix(got, "title: ") {
		t.Errorf("Unexpected description: %q", got)
	}

	if got := Describe(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("Unexpected description for plain error: %q", got)
	}
	if got := Describe(nil); got != "" {
		t.Errorf("Expected empty description for nil, got %q", got)
	}
}
