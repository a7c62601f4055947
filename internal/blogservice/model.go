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

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

const postColumns = `
	p.id, p.title, p.content, p.excerpt, p.slug, p.published, p.views, p.author_id,
	p.created_at, p.updated_at, p.version,
	u.id, u.name, u.created_at, u.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	var excerpt sql.NullString

	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &excerpt, &p.Slug, &p.Published, &p.Views, &p.AuthorID,
		&p.CreatedAt, &p.UpdatedAt, &p.Version,
		&p.Author.ID, &p.Author.Name, &p.Author.CreatedAt, &p.Author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if excerpt.Valid {
		p.Excerpt = &excerpt.String
	}

	return &p, nil
}

func (m *PostModel) insert(ctx context.Context, q common.DBTX, p *Post) error {
	query := `
		INSERT INTO posts (title, content, excerpt, slug, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, views, created_at, updated_at, version`

	args := []any{p.Title, p.Content, p.Excerpt, p.Slug, p.Published, p.AuthorID}

	err := q.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "posts_slug_key"):
			return ErrSlugTaken
		case common.IsForeignKeyViolation(err, "posts_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// get returns the post with its author, tags and categories.
func (m *PostModel) get(ctx context.Context, id int) (*Post, error) {
	return m.getWhere(ctx, "p.id = $1", id)
}

func (m *PostModel) getBySlug(ctx context.Context, slug string) (*Post, error) {
	return m.getWhere(ctx, "p.slug = $1", slug)
}

func (m *PostModel) getWhere(ctx context.Context, cond string, arg any) (*Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE %s`, postColumns, cond)

	p, err := scanPost(m.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.loadRelations(ctx, []*Post{p}); err != nil {
		return nil, err
	}

	return p, nil
}

// getAuthorID returns only the owner of a post.
func (m *PostModel) getAuthorID(ctx context.Context, id int) (int, error) {
	var authorID int
	err := m.db.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = $1`, id).Scan(&authorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return authorID, nil
}

func (m *PostModel) slugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`
	err := m.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	return exists, err
}

func (m *PostModel) update(ctx context.Context, q common.DBTX, p *Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, excerpt = $3, slug = $4, published = $5, updated_at = NOW(), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version`

	args := []any{p.Title, p.Content, p.Excerpt, p.Slug, p.Published, p.ID, p.Version}

	err := q.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt, &p.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		case common.IsUniqueViolation(err, "posts_slug_key"):
			return ErrSlugTaken
		default:
			return err
		}
	}

	return nil
}

func (m *PostModel) incrementViews(ctx context.Context, id int) (int, error) {
	var views int
	err := m.db.QueryRowContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return views, nil
}

// ownedIDs returns the subset of ids whose author is authorID.
func (m *PostModel) ownedIDs(ctx context.Context, ids []int, authorID int) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id FROM posts WHERE id = ANY($1) AND author_id = $2`, pq.Array(common.Int64s(ids)), authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[int]bool, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}

	return owned, rows.Err()
}

// deleteMany removes the posts and their join rows. Callers run it inside a transaction.
func (m *PostModel) deleteMany(ctx context.Context, q common.DBTX, ids []int) (int64, error) {
	arr := pq.Array(common.Int64s(ids))

	if _, err := q.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ANY($1)`, arr); err != nil {
		return 0, err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM categories_on_posts WHERE post_id = ANY($1)`, arr); err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx, `DELETE FROM posts WHERE id = ANY($1)`, arr)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (q PostQuery) where() (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if q.Search != "" {
		add("(p.title ILIKE ? OR p.excerpt ILIKE ? OR p.content ILIKE ?)", "%"+escapeLike(q.Search)+"%")
	}
	if q.CategoryID != nil {
		add("EXISTS (SELECT 1 FROM categories_on_posts cp WHERE cp.post_id = p.id AND cp.category_id = ?)", *q.CategoryID)
	}
	if q.TagID != nil {
		add("EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)", *q.TagID)
	}
	if q.AuthorID != nil {
		add("p.author_id = ?", *q.AuthorID)
	}
	if q.Published != nil {
		add("p.published = ?", *q.Published)
	}
	if q.OnlyVisible {
		if q.ViewerID > 0 {
			add("(p.published OR p.author_id = ?)", q.ViewerID)
		} else {
			conds = append(conds, "p.published")
		}
	}

	if len(conds) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// pastLastPage reports whether page starts after the last of total rows. Callers skip the page query, so
// no OFFSET is computed for such pages.
func pastLastPage(total, page, limit int) bool {
	return page > (total+limit-1)/limit
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// list returns one page of posts matching q together with the total number of matches.
func (m *PostModel) list(ctx context.Context, q PostQuery) ([]*Post, int, error) {
	where, args := q.where()

	var total int
	err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	if pastLastPage(total, q.Page, q.Limit) {
		return nil, total, nil
	}

	order := strings.ToUpper(q.SortOrder)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN users u ON u.id = p.author_id
		%s
		ORDER BY %s %s, p.id %s
		LIMIT $%d OFFSET $%d`, postColumns, where, postSortColumns[q.SortBy], order, order, len(args)+1, len(args)+2)

	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := m.loadRelations(ctx, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// loadRelations fills Tags and Categories of every post with two queries.
func (m *PostModel) loadRelations(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*Post, len(posts))
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		p.Tags = []Ref{}
		p.Categories = []CategoryLink{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	arr := pq.Array(common.Int64s(ids))

	tagQuery := `
		SELECT pt.post_id, t.id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name, t.id`

	rows, err := m.db.QueryContext(ctx, tagQuery, arr)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int
		var tag Ref
		if err := rows.Scan(&postID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		byID[postID].Tags = append(byID[postID].Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	categoryQuery := `
		SELECT cp.post_id, c.id, c.name, cp.assigned_at
		FROM categories_on_posts cp
		JOIN categories c ON c.id = cp.category_id
		WHERE cp.post_id = ANY($1)
		ORDER BY cp.assigned_at, c.id`

	crows, err := m.db.QueryContext(ctx, categoryQuery, arr)
	if err != nil {
		return err
	}
	defer crows.Close()

	for crows.Next() {
		var postID int
		var link CategoryLink
		if err := crows.Scan(&postID, &link.Category.ID, &link.Category.Name, &link.AssignedAt); err != nil {
			return err
		}
		link.CategoryID = link.Category.ID
		byID[postID].Categories = append(byID[postID].Categories, link)
	}

	return crows.Err()
}

func clearTags(ctx context.Context, q common.DBTX, postID int) error {
	_, err := q.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID)
	return err
}

// attachTags connects the post to each named tag, creating tags that do not exist yet.
func attachTags(ctx context.Context, q common.DBTX, postID int, names []string) error {
	for _, name := range normalizeNames(names) {
		tagID, err := upsertTag(ctx, q, name)
		if err != nil {
			return err
		}

		_, err = q.ExecContext(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, tagID)
		if err != nil {
			return err
		}
	}

	return nil
}

func upsertTag(ctx context.Context, q common.DBTX, name string) (int, error) {
	query := `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int
	err := q.QueryRowContext(ctx, query, name).Scan(&id)
	return id, err
}

func clearCategories(ctx context.Context, q common.DBTX, postID int) error {
	_, err := q.ExecContext(ctx, `DELETE FROM categories_on_posts WHERE post_id = $1`, postID)
	return err
}

// attachCategories inserts one join row per distinct category. ids must reference existing categories,
// names are reused when a category with that name exists and created otherwise.
func attachCategories(ctx context.Context, q common.DBTX, postID int, ids []int, names []string) error {
	ids = common.UniqueIDs(ids)

	if len(ids) > 0 {
		missing, err := missingIDs(ctx, q, "categories", ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &UnknownCategoryError{IDs: missing}
		}
	}

	for _, name := range normalizeNames(names) {
		id, err := upsertCategory(ctx, q, name)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	for _, id := range common.UniqueIDs(ids) {
		_, err := q.ExecContext(ctx, `INSERT INTO categories_on_posts (post_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, id)
		if err != nil {
			if common.IsForeignKeyViolation(err, "categories_on_posts_category_id_fkey") {
				return &UnknownCategoryError{IDs: []int{id}}
			}
			return err
		}
	}

	return nil
}

func upsertCategory(ctx context.Context, q common.DBTX, name string) (int, error) {
	query := `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int
	err := q.QueryRowContext(ctx, query, name).Scan(&id)
	return id, err
}

// missingIDs returns the ids that have no row in table. table is always a package constant.
func missingIDs(ctx context.Context, q common.DBTX, table string, ids []int) ([]int, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE id = ANY($1)`, table), pq.Array(common.Int64s(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int]bool, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	return missing, nil
}
