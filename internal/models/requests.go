package models

// Tool argument shapes as they arrive on the wire. Optional fields are
// pointers so an omitted field can be told apart from a zero value.

// SearchArticlesRequest is the input of the search-articles tool
type SearchArticlesRequest struct {
	Query  string   `json:"query"`
	Status *string  `json:"status,omitempty"`
	Limit  *float64 `json:"limit,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// CreateArticleRequest is the input of the create-article tool
type CreateArticleRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Summary *string  `json:"summary,omitempty"`
	Tags    []string `json:"tags"`
	Author  *string  `json:"author,omitempty"`
	Status  *string  `json:"status,omitempty"`
}

// UpdateArticleRequest is the input of the update-article tool
type UpdateArticleRequest struct {
	ID      string    `json:"id"`
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Summary *string   `json:"summary,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Status  *string   `json:"status,omitempty"`
}

// ListArticlesRequest is the input of the list-articles tool
type ListArticlesRequest struct {
	Status *string  `json:"status,omitempty"`
	Limit  *float64 `json:"limit,omitempty"`
}

// CreateArticleBody is the JSON body of POST /api/articles
type CreateArticleBody struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Summary *string  `json:"summary,omitempty"`
	Tags    []string `json:"tags"`
	Author  *string  `json:"author,omitempty"`
	Status  string   `json:"status,omitempty"`
}

// UpdateArticleBody is the JSON body of PUT /api/articles/:id
type UpdateArticleBody struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Summary *string   `json:"summary,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Status  *string   `json:"status,omitempty"`
}
