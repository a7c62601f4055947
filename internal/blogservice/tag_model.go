package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/inkwell/internal/common"
)

func newTagModel(db *sql.DB) *TagModel {
	return &TagModel{db: db}
}

func (m *TagModel) insert(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (name)
		VALUES ($1)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, t.Name).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "tags_name_key"):
			return ErrDuplicateTag
		default:
			return err
		}
	}

	return nil
}

func (m *TagModel) get(ctx context.Context, id int) (*Tag, error) {
	query := `
		SELECT t.id, t.name, t.created_at, COUNT(pt.post_id)
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		WHERE t.id = $1
		GROUP BY t.id`

	var t Tag
	var count int
	err := m.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt, &count)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}
	t.PostCount = &count

	return &t, nil
}

// list returns tags ordered by name. search matches names case-insensitively.
func (m *TagModel) list(ctx context.Context, search string, withCount bool) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.created_at, COUNT(pt.post_id)
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		WHERE ($1::text = '' OR t.name ILIKE '%' || $1 || '%')
		GROUP BY t.id
		ORDER BY t.name ASC, t.id ASC`

	rows, err := m.db.QueryContext(ctx, query, escapeLike(search))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		var count int
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &count); err != nil {
			return nil, err
		}
		if withCount {
			t.PostCount = &count
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

func (m *TagModel) rename(ctx context.Context, id int, name string) error {
	res, err := m.db.ExecContext(ctx, `UPDATE tags SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "tags_name_key"):
			return ErrDuplicateTag
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

// deleteMany removes the tags and their join rows. Callers run it inside a transaction.
func (m *TagModel) deleteMany(ctx context.Context, q common.DBTX, ids []int) (int64, error) {
	arr := pq.Array(common.Int64s(ids))

	if _, err := q.ExecContext(ctx, `DELETE FROM post_tags WHERE tag_id = ANY($1)`, arr); err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx, `DELETE FROM tags WHERE id = ANY($1)`, arr)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
