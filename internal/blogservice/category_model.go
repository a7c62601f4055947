package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sushihentaime/inkwell/internal/common"
)

func newCategoryModel(db *sql.DB) *CategoryModel {
	return &CategoryModel{db: db}
}

func (m *CategoryModel) insert(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "categories_name_key"):
			return ErrDuplicateCategory
		default:
			return err
		}
	}

	return nil
}

func (m *CategoryModel) get(ctx context.Context, id int) (*Category, error) {
	query := `
		SELECT c.id, c.name, c.created_at, COUNT(cp.post_id)
		FROM categories c
		LEFT JOIN categories_on_posts cp ON cp.category_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`

	var c Category
	var count int
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &count)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}
	c.PostCount = &count

	return &c, nil
}

func (m *CategoryModel) list(ctx context.Context, q CategoryQuery) ([]Category, int, error) {
	pattern := escapeLike(q.Search)

	var total int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories c WHERE ($1::text = '' OR c.name ILIKE '%' || $1 || '%')`, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	if pastLastPage(total, q.Page, q.Limit) {
		return []Category{}, total, nil
	}

	order := strings.ToUpper(q.SortOrder)
	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.created_at, COUNT(cp.post_id)
		FROM categories c
		LEFT JOIN categories_on_posts cp ON cp.category_id = c.id
		WHERE ($1::text = '' OR c.name ILIKE '%%' || $1 || '%%')
		GROUP BY c.id
		ORDER BY %s %s, c.id %s
		LIMIT $2 OFFSET $3`, categorySortColumns[q.SortBy], order, order)

	rows, err := m.db.QueryContext(ctx, query, pattern, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		var count int
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &count); err != nil {
			return nil, 0, err
		}
		c.PostCount = &count
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (m *CategoryModel) rename(ctx context.Context, id int, name string) error {
	res, err := m.db.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "categories_name_key"):
			return ErrDuplicateCategory
		default:
			return err
		}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

// deleteMany removes the categories and their join rows. Callers run it inside a transaction.
func (m *CategoryModel) deleteMany(ctx context.Context, q common.DBTX, ids []int) (int64, error) {
	arr := pq.Array(common.Int64s(ids))

	if _, err := q.ExecContext(ctx, `DELETE FROM categories_on_posts WHERE category_id = ANY($1)`, arr); err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ANY($1)`, arr)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
