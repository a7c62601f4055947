package blogservice

import (
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	maxTitleLength   = 255
	maxExcerptLength = 500
	maxNameLength    = 50
)

var postSortColumns = map[string]string{
	"createdAt": "p.created_at",
	"updatedAt": "p.updated_at",
	"title":     "p.title",
	"views":     "p.views",
	"id":        "p.id",
}

var categorySortColumns = map[string]string{
	"name":      "c.name",
	"id":        "c.id",
	"createdAt": "c.created_at",
}

func validateTitle(v *common.Validator, title string) {
	v.Check(common.NotBlank(title), "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, maxTitleLength), "title", "must not be more than 255 characters long")
	v.Check(Slugify(title) != "", "title", "must contain at least one letter or number")
}

func validateContent(v *common.Validator, content string) {
	v.Check(common.NotBlank(content), "content", "must be provided")
}

func validateExcerpt(v *common.Validator, excerpt *string) {
	if excerpt == nil {
		return
	}
	v.Check(v.CheckStringLength(*excerpt, 0, maxExcerptLength), "excerpt", "must not be more than 500 characters long")
}

func validateName(v *common.Validator, field, name string) {
	v.Check(common.NotBlank(name), field, "must be provided")
	v.Check(v.CheckStringLength(name, 0, maxNameLength), field, "must not be more than 50 characters long")
}

func validateNames(v *common.Validator, field string, names []string) {
	for _, n := range names {
		v.Check(v.CheckStringLength(strings.TrimSpace(n), 0, maxNameLength), field, "must not contain names longer than 50 characters")
	}
}

func validateID(v *common.Validator, field string, id int) {
	v.Check(id > 0, field, "must be a positive integer")
}

func validatePaging(v *common.Validator, page, limit int) {
	v.Check(page >= 1, "page", "must be greater than zero")
	v.Check(limit >= 1, "limit", "must be greater than zero")
	v.Check(limit <= MaxLimit, "limit", "must not be more than 100")
}

func validateSort(v *common.Validator, sortBy, sortOrder string, columns map[string]string) {
	_, ok := columns[sortBy]
	v.Check(ok, "sortBy", "is not a sortable field")
	v.Check(common.PermittedValue(sortOrder, "asc", "desc"), "sortOrder", "must be asc or desc")
}

func validatePostInput(v *common.Validator, in *CreatePostInput) {
	validateTitle(v, in.Title)
	validateContent(v, in.Content)
	validateExcerpt(v, in.Excerpt)
	validateNames(v, "categoryNames", in.CategoryNames)
	validateNames(v, "tagNames", in.TagNames)
}

func validateUpdateInput(v *common.Validator, in *UpdatePostInput) {
	if in.Title != nil {
		validateTitle(v, *in.Title)
	}
	if in.Content != nil {
		validateContent(v, *in.Content)
	}
	validateExcerpt(v, in.Excerpt)
	validateNames(v, "categoryNames", in.CategoryNames)
	validateNames(v, "tagNames", in.TagNames)
}

// normalizeNames trims names, drops blanks and removes duplicates while keeping order.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
