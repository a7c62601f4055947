package blogservice

import (
	"time"
	"unicode/utf16"
)

const readTimeCharsPerMinute = 2000

type AuthorView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type PostListItem struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Slug        string     `json:"slug"`
	Published   bool       `json:"published"`
	Author      AuthorView `json:"author"`
	CategoryIDs []int      `json:"categoryIds"`
	Categories  []Ref      `json:"categories"`
	Tags        []Ref      `json:"tags"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
	ReadTime    int        `json:"readTime"`
	Views       int        `json:"views"`
}

type PostDetail struct {
	PostListItem
	Content string `json:"content"`
}

type RenderedPost struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	HTML     string `json:"html"`
	ReadTime int    `json:"readTime"`
}

// ReadTime estimates minutes of reading at 2000 characters per minute, rounded up. Characters are counted
// as UTF-16 code units, so a character outside the Basic Multilingual Plane counts twice.
func ReadTime(content string) int {
	n := 0
	for _, r := range content {
		n += len(utf16.Encode([]rune{r}))
	}
	return (n + readTimeCharsPerMinute - 1) / readTimeCharsPerMinute
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func NewPostListItem(p *Post) PostListItem {
	item := PostListItem{
		ID:        p.ID,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Slug:      p.Slug,
		Published: p.Published,
		Author: AuthorView{
			ID:        p.Author.ID,
			Name:      p.Author.Name,
			CreatedAt: formatTime(p.Author.CreatedAt),
			UpdatedAt: formatTime(p.Author.UpdatedAt),
		},
		CategoryIDs: make([]int, 0, len(p.Categories)),
		Categories:  make([]Ref, 0, len(p.Categories)),
		Tags:        make([]Ref, 0, len(p.Tags)),
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
		ReadTime:    ReadTime(p.Content),
		Views:       p.Views,
	}

	for _, link := range p.Categories {
		item.CategoryIDs = append(item.CategoryIDs, link.CategoryID)
		item.Categories = append(item.Categories, link.Category)
	}

	item.Tags = append(item.Tags, p.Tags...)

	return item
}

func NewPostDetail(p *Post) PostDetail {
	return PostDetail{
		PostListItem: NewPostListItem(p),
		Content:      p.Content,
	}
}

func newPage[T any](items []T, total, page, limit int) *Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
