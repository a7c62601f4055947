package blogservice

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
)

// ListCategories returns one page of categories with their post counts. Zero values take defaults:
// page 1, limit 10, sorted by name ascending.
func (s *BlogService) ListCategories(ctx context.Context, q CategoryQuery) (*Page[Category], error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = "name"
	}
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}
	q.Search = strings.TrimSpace(q.Search)

	v := common.NewValidator()
	validatePaging(v, q.Page, q.Limit)
	validateSort(v, q.SortBy, q.SortOrder, categorySortColumns)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	categories, total, err := s.categories.list(ctx, q)
	if err != nil {
		return nil, err
	}

	return newPage(categories, total, q.Page, q.Limit), nil
}

func (s *BlogService) GetCategory(ctx context.Context, id int) (*Category, error) {
	v := common.NewValidator()
	validateID(v, "id", id)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.categories.get(ctx, id)
}

func (s *BlogService) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)

	v := common.NewValidator()
	validateName(v, "name", name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := &Category{Name: name}
	if err := s.categories.insert(ctx, c); err != nil {
		return nil, err
	}

	count := 0
	c.PostCount = &count

	return c, nil
}

func (s *BlogService) UpdateCategory(ctx context.Context, id int, name string) (*Category, error) {
	name = strings.TrimSpace(name)

	v := common.NewValidator()
	validateID(v, "id", id)
	validateName(v, "name", name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.categories.rename(ctx, id, name); err != nil {
		return nil, err
	}

	return s.categories.get(ctx, id)
}

// DeleteCategory removes the category after detaching it from every post.
func (s *BlogService) DeleteCategory(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateID(v, "id", id)
	if !v.Valid() {
		return v.ValidationError()
	}

	return common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := s.categories.deleteMany(ctx, tx, []int{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteCategories removes every listed category. Non-numeric entries are ignored; any unknown id rejects
// the whole batch.
func (s *BlogService) DeleteCategories(ctx context.Context, ids []int) (int, error) {
	unique := common.UniqueIDs(ids)

	v := common.NewValidator()
	v.Check(len(unique) > 0, "ids", "must contain at least one category id")
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	var deleted int64
	err := common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		missing, err := missingIDs(ctx, tx, "categories", unique)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &MissingIDsError{Entity: "categories", IDs: missing}
		}

		deleted, err = s.categories.deleteMany(ctx, tx, unique)
		return err
	})
	if err != nil {
		return 0, err
	}

	return int(deleted), nil
}
