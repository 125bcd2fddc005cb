package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/knowledge-base-server/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field limits enforced at the protocol boundary
const (
	MinQueryLength   = 1
	MaxQueryLength   = 200
	MinTitleLength   = 3
	MaxTitleLength   = 200
	MinContentLength = 10
	MaxSummaryLength = 500
	MaxTagLength     = 30
	MinTags          = 1
	MaxTags          = 10

	DefaultSearchLimit = 10
	MaxSearchLimit     = 20
	DefaultListLimit   = 20
	MaxListLimit       = 50
)

var (
	filterStatuses = []interface{}{"published", "draft", "archived", "all"}
	createStatuses = []interface{}{"draft", "published"}
	storedStatuses = []interface{}{"draft", "published", "archived"}
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// FieldErrors flattens a validation failure into per-field errors sorted
// by field name. Errors that are not field-level yield a single entry with
// an empty field.
func FieldErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return []ValidationError{{Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(errs))
	for field, fieldErr := range errs {
		out = append(out, ValidationError{Field: field, Message: fieldErr.Error()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// Describe renders a validation failure as a single line of text
func Describe(err error) string {
	parts := make([]string, 0)
	for _, e := range FieldErrors(err) {
		if e.Field == "" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator checks tool arguments and converts them into store inputs
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Search validates search-articles arguments and applies defaults
func (v *Validator) Search(req *models.SearchArticlesRequest) (models.SearchOptions, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Query,
			validation.Required,
			validation.RuneLength(MinQueryLength, MaxQueryLength),
		),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(filterStatuses...)),
		validation.Field(&req.Limit, validation.By(limitRule(MaxSearchLimit))),
		validation.Field(&req.Tags, validation.Each(validation.RuneLength(0, MaxTagLength))),
	)
	if err != nil {
		return models.SearchOptions{}, err
	}

	return models.SearchOptions{
		Query:  req.Query,
		Status: statusOr(req.Status, models.StatusPublished),
		Limit:  limitOr(req.Limit, DefaultSearchLimit),
		Tags:   req.Tags,
	}, nil
}

// Create validates create-article arguments and applies defaults
func (v *Validator) Create(req *models.CreateArticleRequest) (*models.ArticleFields, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.RuneLength(MinTitleLength, MaxTitleLength)),
		validation.Field(&req.Content, validation.Required, validation.RuneLength(MinContentLength, 0)),
		validation.Field(&req.Summary, validation.RuneLength(0, MaxSummaryLength)),
		validation.Field(&req.Tags,
			validation.Required,
			validation.Length(MinTags, MaxTags),
			validation.Each(validation.RuneLength(0, MaxTagLength)),
		),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(createStatuses...)),
	)
	if err != nil {
		return nil, err
	}

	author := models.DefaultAuthor
	if req.Author != nil {
		author = *req.Author
	}

	return &models.ArticleFields{
		Title:   req.Title,
		Content: req.Content,
		Summary: req.Summary,
		Tags:    req.Tags,
		Author:  author,
		Status:  statusOr(req.Status, models.StatusDraft),
	}, nil
}

// Update validates update-article arguments. Only fields present in the
// request are carried into the update.
func (v *Validator) Update(req *models.UpdateArticleRequest) (string, *models.ArticleUpdate, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ID, validation.Required),
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.RuneLength(MinTitleLength, MaxTitleLength)),
		validation.Field(&req.Content, validation.NilOrNotEmpty, validation.RuneLength(MinContentLength, 0)),
		validation.Field(&req.Summary, validation.RuneLength(0, MaxSummaryLength)),
		validation.Field(&req.Tags, validation.By(tagList)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(storedStatuses...)),
	)
	if err != nil {
		return "", nil, err
	}

	update := &models.ArticleUpdate{
		Title:   req.Title,
		Content: req.Content,
		Summary: req.Summary,
		Tags:    req.Tags,
	}
	if req.Status != nil {
		status := models.ArticleStatus(*req.Status)
		update.Status = &status
	}
	return req.ID, update, nil
}

// List validates list-articles arguments and applies defaults
func (v *Validator) List(req *models.ListArticlesRequest) (models.ListOptions, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(filterStatuses...)),
		validation.Field(&req.Limit, validation.By(limitRule(MaxListLimit))),
	)
	if err != nil {
		return models.ListOptions{}, err
	}

	return models.ListOptions{
		Status: statusOr(req.Status, models.StatusPublished),
		Limit:  limitOr(req.Limit, DefaultListLimit),
	}, nil
}

// limitRule accepts an absent limit or a whole number in [1, max]
func limitRule(max int) validation.RuleFunc {
	return func(value interface{}) error {
		f, ok := value.(*float64)
		if !ok || f == nil {
			return nil
		}
		if math.IsInf(*f, 0) || math.Trunc(*f) != *f {
			return errors.New("must be an integer")
		}
		if *f < 1 || *f > float64(max) {
			return fmt.Errorf("must be between 1 and %d", max)
		}
		return nil
	}
}

// tagList checks an optional replacement tag list. A present list follows
// the create bounds, so an empty list is rejected.
func tagList(value interface{}) error {
	tags, ok := value.(*[]string)
	if !ok || tags == nil {
		return nil
	}
	if n := len(*tags); n < MinTags || n > MaxTags {
		return fmt.Errorf("the length must be between %d and %d", MinTags, MaxTags)
	}
	for i, t := range *tags {
		if utf8.RuneCountInString(t) > MaxTagLength {
			return fmt.Errorf("tag %d must be at most %d characters", i, MaxTagLength)
		}
	}
	return nil
}

func statusOr(s *string, def models.ArticleStatus) models.ArticleStatus {
	if s == nil {
		return def
	}
	return models.ArticleStatus(*s)
}

func limitOr(l *float64, def int) int {
	if l == nil {
		return def
	}
	return int(*l)
}
