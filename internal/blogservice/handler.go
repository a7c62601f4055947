package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{
		db:         db,
		posts:      newPostModel(db),
		tags:       newTagModel(db),
		categories: newCategoryModel(db),
		now:        time.Now,
	}
}

// CreatePost stores a new post owned by authorID and attaches its tags and categories.
func (s *BlogService) CreatePost(ctx context.Context, authorID int, in *CreatePostInput) (*PostDetail, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = sanitizeMarkdown(in.Content)

	v := common.NewValidator()
	validatePostInput(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug := Slugify(in.Title)

	taken, err := s.posts.slugExists(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &SlugConflictError{Slug: slug, Suggested: suggestSlug(slug, s.now())}
	}

	p := &Post{
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  nonEmpty(in.Excerpt),
		Slug:     slug,
		AuthorID: authorID,
	}
	if in.Published != nil {
		p.Published = *in.Published
	}

	err = common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.posts.insert(ctx, tx, p); err != nil {
			return err
		}

		if err := attachTags(ctx, tx, p.ID, in.TagNames); err != nil {
			return err
		}

		return attachCategories(ctx, tx, p.ID, in.CategoryIDs.IDs, in.CategoryNames)
	})
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return nil, &SlugConflictError{Slug: slug, Suggested: suggestSlug(slug, s.now())}
		}
		return nil, err
	}

	return s.postDetail(ctx, p.ID)
}

// GetPost returns a post visible to viewerID (0 for anonymous callers). Reads by anyone but the author
// count as a view.
func (s *BlogService) GetPost(ctx context.Context, id, viewerID int) (*PostDetail, error) {
	v := common.NewValidator()
	validateID(v, "id", id)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.posts.get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.viewPost(ctx, p, viewerID)
}

// GetPostBySlug is GetPost keyed by slug.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string, viewerID int) (*PostDetail, error) {
	p, err := s.posts.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return s.viewPost(ctx, p, viewerID)
}

func (s *BlogService) viewPost(ctx context.Context, p *Post, viewerID int) (*PostDetail, error) {
	if !canView(p, viewerID) {
		return nil, ErrForbidden
	}

	if viewerID != p.AuthorID {
		views, err := s.posts.incrementViews(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Views = views
	}

	detail := NewPostDetail(p)
	return &detail, nil
}

// RenderPost returns the post content as sanitized HTML.
func (s *BlogService) RenderPost(ctx context.Context, id, viewerID int) (*RenderedPost, error) {
	p, err := s.posts.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canView(p, viewerID) {
		return nil, ErrForbidden
	}

	html, err := RenderContent(p.Content)
	if err != nil {
		return nil, err
	}

	return &RenderedPost{
		ID:       p.ID,
		Title:    p.Title,
		Slug:     p.Slug,
		HTML:     html,
		ReadTime: ReadTime(p.Content),
	}, nil
}

func canView(p *Post, viewerID int) bool {
	return p.Published || (viewerID != 0 && p.AuthorID == viewerID)
}

// UpdatePost edits a post owned by userID. Omitted or empty scalar fields keep their stored values; the
// tag and category sets are always replaced by the ones in the input.
func (s *BlogService) UpdatePost(ctx context.Context, id, userID int, in *UpdatePostInput) (*PostDetail, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if in.Content != nil {
		content := sanitizeMarkdown(*in.Content)
		in.Content = &content
	}

	v := common.NewValidator()
	validateID(v, "id", id)
	validateUpdateInput(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.posts.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.AuthorID != userID {
		return nil, ErrForbidden
	}

	if in.Title != nil && *in.Title != p.Title {
		slug := Slugify(*in.Title)
		if slug != p.Slug {
			taken, err := s.posts.slugExists(ctx, slug, p.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrSlugTaken
			}
		}
		p.Title = *in.Title
		p.Slug = slug
	}

	if in.Content != nil {
		p.Content = *in.Content
	}
	if excerpt := nonEmpty(in.Excerpt); excerpt != nil {
		p.Excerpt = excerpt
	}
	if in.Published != nil {
		p.Published = *in.Published
	}

	err = common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.posts.update(ctx, tx, p); err != nil {
			return err
		}

		if err := clearTags(ctx, tx, p.ID); err != nil {
			return err
		}
		if err := attachTags(ctx, tx, p.ID, in.TagNames); err != nil {
			return err
		}

		if err := clearCategories(ctx, tx, p.ID); err != nil {
			return err
		}
		return attachCategories(ctx, tx, p.ID, in.CategoryIDs.IDs, in.CategoryNames)
	})
	if err != nil {
		return nil, err
	}

	return s.postDetail(ctx, p.ID)
}

// DeletePost removes a post owned by userID together with its join rows.
func (s *BlogService) DeletePost(ctx context.Context, id, userID int) error {
	v := common.NewValidator()
	validateID(v, "id", id)
	if !v.Valid() {
		return v.ValidationError()
	}

	authorID, err := s.posts.getAuthorID(ctx, id)
	if err != nil {
		return err
	}

	if authorID != userID {
		return ErrForbidden
	}

	return common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := s.posts.deleteMany(ctx, tx, []int{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrRecordNotFound
		}
		return nil
	})
}

// DeletePosts removes every post in ids. The whole batch is rejected when any id is not owned by userID,
// including ids that do not exist.
func (s *BlogService) DeletePosts(ctx context.Context, ids []int, userID int) (int, error) {
	ids = common.UniqueIDs(ids)

	v := common.NewValidator()
	v.Check(len(ids) > 0, "ids", "must contain at least one valid post id")
	if !v.Valid() {
		return 0, v.ValidationError()
	}

	owned, err := s.posts.ownedIDs(ctx, ids, userID)
	if err != nil {
		return 0, err
	}

	var unauthorized []int
	for _, id := range ids {
		if !owned[id] {
			unauthorized = append(unauthorized, id)
		}
	}
	if len(unauthorized) > 0 {
		return 0, &UnauthorizedIDsError{IDs: unauthorized}
	}

	var deleted int64
	err = common.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		deleted, err = s.posts.deleteMany(ctx, tx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}

	return int(deleted), nil
}

// ListPosts returns one page of list projections. Zero values of Page, Limit, SortBy and SortOrder take
// their defaults.
func (s *BlogService) ListPosts(ctx context.Context, q PostQuery) (*Page[PostListItem], error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	q.Search = strings.TrimSpace(q.Search)

	v := common.NewValidator()
	validatePaging(v, q.Page, q.Limit)
	validateSort(v, q.SortBy, q.SortOrder, postSortColumns)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	posts, total, err := s.posts.list(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, NewPostListItem(p))
	}

	return newPage(items, total, q.Page, q.Limit), nil
}

func (s *BlogService) postDetail(ctx context.Context, id int) (*PostDetail, error) {
	p, err := s.posts.get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := NewPostDetail(p)
	return &detail, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
