package blogservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

type Post struct {
	ID    int
	Title string
	// Content is stored in Markdown format.
	Content    string
	Excerpt    *string
	Slug       string
	Published  bool
	Views      int
	AuthorID   int
	Author     Author
	Tags       []Ref
	Categories []CategoryLink
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int
}

type Author struct {
	ID        int
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryLink is one row of the post/category join table.
type CategoryLink struct {
	CategoryID int
	Category   Ref
	AssignedAt time.Time
}

type Tag struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	PostCount *int      `json:"postCount,omitempty"`
	CreatedAt time.Time `json:"-"`
}

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	PostCount *int      `json:"postCount,omitempty"`
	CreatedAt time.Time `json:"-"`
}

type CreatePostInput struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Excerpt       *string       `json:"excerpt"`
	Published     *bool         `json:"published"`
	CategoryIDs   common.IDList `json:"categoryIds"`
	CategoryNames []string      `json:"categoryNames"`
	TagNames      []string      `json:"tagNames"`
}

// UpdatePostInput replaces the tag and category sets in full. Nil or empty scalar fields keep the stored value.
type UpdatePostInput struct {
	Title         *string       `json:"title"`
	Content       *string       `json:"content"`
	Excerpt       *string       `json:"excerpt"`
	Published     *bool         `json:"published"`
	CategoryIDs   common.IDList `json:"categoryIds"`
	CategoryNames []string      `json:"categoryNames"`
	TagNames      []string      `json:"tagNames"`
}

type PostQuery struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *int
	TagID      *int
	AuthorID   *int
	Published  *bool
	SortBy     string
	SortOrder  string

	// OnlyVisible restricts results to published posts and the viewer's own drafts.
	OnlyVisible bool
	ViewerID    int
}

type CategoryQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type PostModel struct {
	db *sql.DB
}

type TagModel struct {
	db *sql.DB
}

type CategoryModel struct {
	db *sql.DB
}

type BlogService struct {
	db         *sql.DB
	posts      *PostModel
	tags       *TagModel
	categories *CategoryModel
	now        func() time.Time
}
