package blogservice

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/inkwell/internal/common"
)

// setupTestUser inserts a user directly and returns its id.
func setupTestUser(t *testing.T, db *sql.DB, name string) int {
	t.Helper()

	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	require.NoError(t, err)

	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err = db.QueryRow(query, name, name+"@example.com", randomBytes).Scan(&id)
	require.NoError(t, err)

	return id
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB) {
	t.Helper()

	db := common.TestDB("file://../../migrations", t)
	s := NewBlogService(db)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return s, db
}

func cleanupContent(t *testing.T, db *sql.DB) {
	t.Helper()
	common.TruncateTables(t, db, "post_tags", "categories_on_posts", "posts", "tags", "categories")
}

func createTestPost(t *testing.T, s *BlogService, authorID int, title string, published bool, tags ...string) *PostDetail {
	t.Helper()

	p, err := s.CreatePost(context.Background(), authorID, &CreatePostInput{
		Title:     title,
		Content:   "Content of " + title,
		Published: &published,
		TagNames:  tags,
	})
	require.NoError(t, err)

	return p
}

func tagNames(refs []Ref) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

func TestCreatePost(t *testing.T) {
	s, db := setupTestEnvironment(t)
	authorID := setupTestUser(t, db, "ada")

	existingCategory, err := s.CreateCategory(context.Background(), "Tech")
	require.NoError(t, err)

	published := true

	testCases := []struct {
		name        string
		setup       func(t *testing.T)
		input       *CreatePostInput
		authorID    int
		expectedErr error
		check       func(t *testing.T, p *PostDetail)
	}{
		{
			name: "valid post with relations",
			input: &CreatePostInput{
				Title:         "Hello World",
				Content:       "Body <script>alert(1)</script>",
				Excerpt:       strptr("intro"),
				Published:     &published,
				CategoryIDs:   common.IDList{IDs: []int{existingCategory.ID}},
				CategoryNames: []string{"Notes", "Tech"},
				TagNames:      []string{"go", "web", "go"},
			},
			authorID: authorID,
			check: func(t *testing.T, p *PostDetail) {
				assert.Equal(t, "hello-world", p.Slug)
				assert.Equal(t, "Body ", p.Content)
				assert.True(t, p.Published)
				assert.Equal(t, "intro", *p.Excerpt)
				assert.Equal(t, 0, p.Views)
				assert.Equal(t, authorID, p.Author.ID)
				assert.ElementsMatch(t, []string{"go", "web"}, tagNames(p.Tags))
				assert.ElementsMatch(t, []string{"Tech", "Notes"}, tagNames(p.Categories))
				assert.Len(t, p.CategoryIDs, 2)
			},
		},
		{
			name:     "defaults to draft",
			input:    &CreatePostInput{Title: "Draft", Content: "Body"},
			authorID: authorID,
			check: func(t *testing.T, p *PostDetail) {
				assert.False(t, p.Published)
				assert.Nil(t, p.Excerpt)
				assert.Empty(t, p.Tags)
			},
		},
		{
			name: "slug collision suggests alternative",
			setup: func(t *testing.T) {
				createTestPost(t, s, authorID, "Hello, World!", true)
			},
			input:       &CreatePostInput{Title: "hello world", Content: "Body"},
			authorID:    authorID,
			expectedErr: &SlugConflictError{Slug: "hello-world", Suggested: "hello-world-1700000000000"},
		},
		{
			name:        "missing title",
			input:       &CreatePostInput{Content: "Body"},
			authorID:    authorID,
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}, Fields: []string{"title"}},
		},
		{
			name:        "unknown category id",
			input:       &CreatePostInput{Title: "Orphan", Content: "Body", CategoryIDs: common.IDList{IDs: []int{9999}}},
			authorID:    authorID,
			expectedErr: &UnknownCategoryError{IDs: []int{9999}},
		},
		{
			name:        "unknown author",
			input:       &CreatePostInput{Title: "Ghost", Content: "Body"},
			authorID:    9999,
			expectedErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(func() {
				common.TruncateTables(t, db, "post_tags", "categories_on_posts", "posts", "tags")
			})

			if tc.setup != nil {
				tc.setup(t)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			p, err := s.CreatePost(ctx, tc.authorID, tc.input)
			assert.Equal(t, tc.expectedErr, err)

			if tc.check != nil && err == nil {
				tc.check(t, p)
			}

			if err != nil {
				var count int
				require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM posts WHERE title = $1", tc.input.Title).Scan(&count))
				assert.Equal(t, 0, count)
			}
		})
	}
}

func TestGetPostVisibility(t *testing.T) {
	s, db := setupTestEnvironment(t)
	t.Cleanup(func() { cleanupContent(t, db) })

	authorID := setupTestUser(t, db, "ada")
	otherID := setupTestUser(t, db, "bob")

	draft := createTestPost(t, s, authorID, "Secret Draft", false)
	public := createTestPost(t, s, authorID, "Public Post", true)

	testCases := []struct {
		name        string
		id          int
		viewerID    int
		expectedErr error
		views       int
	}{
		{name: "author sees own draft", id: draft.ID, viewerID: authorID, views: 0},
		{name: "other user cannot see draft", id: draft.ID, viewerID: otherID, expectedErr: ErrForbidden},
		{name: "anonymous cannot see draft", id: draft.ID, viewerID: 0, expectedErr: ErrForbidden},
		{name: "anonymous sees published and counts a view", id: public.ID, viewerID: 0, views: 1},
		{name: "other user counts a view", id: public.ID, viewerID: otherID, views: 2},
		{name: "author read is not counted", id: public.ID, viewerID: authorID, views: 2},
		{name: "missing post", id: 9999, viewerID: authorID, expectedErr: common.ErrRecordNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := s.GetPost(context.Background(), tc.id, tc.viewerID)
			assert.Equal(t, tc.expectedErr, err)

			if tc.expectedErr == nil {
				require.NotNil(t, p)
				assert.Equal(t, tc.views, p.Views)
			}
		})
	}

	bySlug, err := s.GetPostBySlug(context.Background(), "public-post", otherID)
	require.NoError(t, err)
	assert.Equal(t, public.ID, bySlug.ID)

	_, err = s.GetPostBySlug(context.Background(), "secret-draft", otherID)
	assert.ErrorIs(t, err, ErrForbidden)

	rendered, err := s.RenderPost(context.Background(), public.ID, 0)
	require.NoError(t, err)
	assert.Contains(t, rendered.HTML, "Content of Public Post")
}

func TestUpdatePost(t *testing.T) {
	s, db := setupTestEnvironment(t)
	t.Cleanup(func() { cleanupContent(t, db) })

	authorID := setupTestUser(t, db, "ada")
	otherID := setupTestUser(t, db, "bob")
	ctx := context.Background()

	t.Run("unchanged title keeps slug", func(t *testing.T) {
		p := createTestPost(t, s, authorID, "Stable Title", true, "a", "b")

		updated, err := s.UpdatePost(ctx, p.ID, authorID, &UpdatePostInput{
			Title:    strptr("Stable Title"),
			Content:  strptr("new body"),
			TagNames: []string{"b", "c"},
		})
		require.NoError(t, err)

		assert.Equal(t, "stable-title", updated.Slug)
		assert.Equal(t, "new body", updated.Content)
		assert.Equal(t, []string{"b", "c"}, tagNames(updated.Tags))
	})

	t.Run("changed title regenerates slug", func(t *testing.T) {
		p := createTestPost(t, s, authorID, "Old Name", true)

		updated, err := s.UpdatePost(ctx, p.ID, authorID, &UpdatePostInput{Title: strptr("New Name")})
		require.NoError(t, err)

		assert.Equal(t, "new-name", updated.Slug)
		assert.Equal(t, "Content of Old Name", updated.Content)
	})

	t.Run("empty fields keep stored values", func(t *testing.T) {
		p, err := s.CreatePost(ctx, authorID, &CreatePostInput{Title: "Keep Me", Content: "Body", Excerpt: strptr("summary")})
		require.NoError(t, err)

		updated, err := s.UpdatePost(ctx, p.ID, authorID, &UpdatePostInput{Excerpt: strptr("")})
		require.NoError(t, err)

		assert.Equal(t, "Keep Me", updated.Title)
		assert.Equal(t, "summary", *updated.Excerpt)
	})

	t.Run("slug collision is rejected", func(t *testing.T) {
		createTestPost(t, s, authorID, "Taken", true)
		p := createTestPost(t, s, authorID, "Free", true)

		_, err := s.UpdatePost(ctx, p.ID, authorID, &UpdatePostInput{Title: strptr("TAKEN!")})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("categories are fully replaced", func(t *testing.T) {
		first, err := s.CreateCategory(ctx, "First")
		require.NoError(t, err)

		p, err := s.CreatePost(ctx, authorID, &CreatePostInput{
			Title:       "Categorized",
			Content:     "Body",
			CategoryIDs: common.IDList{IDs: []int{first.ID}},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{first.ID}, p.CategoryIDs)

		updated, err := s.UpdatePost(ctx, p.ID, authorID, &UpdatePostInput{CategoryNames: []string{"Second"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Second"}, tagNames(updated.Categories))
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		p := createTestPost(t, s, authorID, "Mine", true)

		_, err := s.UpdatePost(ctx, p.ID, otherID, &UpdatePostInput{Title: strptr("Yours")})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := s.UpdatePost(ctx, 9999, authorID, &UpdatePostInput{})
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	s, db := setupTestEnvironment(t)
	t.Cleanup(func() { cleanupContent(t, db) })

	authorID := setupTestUser(t, db, "ada")
	otherID := setupTestUser(t, db, "bob")
	ctx := context.Background()

	p, err := s.CreatePost(ctx, authorID, &CreatePostInput{
		Title:         "Doomed",
		Content:       "Body",
		CategoryNames: []string{"Temp"},
		TagNames:      []string{"bye"},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeletePost(ctx, p.ID, otherID), ErrForbidden)
	assert.ErrorIs(t, s.DeletePost(ctx, 9999, authorID), common.ErrRecordNotFound)
	require.NoError(t, s.DeletePost(ctx, p.ID, authorID))

	for _, table := range []string{"posts", "post_tags", "categories_on_posts"} {
		var count int
		require.NoError(t, db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count))
		assert.Equal(t, 0, count, table)
	}

	// tags and categories outlive the post
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tags").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestDeletePosts(t *testing.T) {
	s, db := setupTestEnvironment(t)
	authorID := setupTestUser(t, db, "ada")
	otherID := setupTestUser(t, db, "bob")
	ctx := context.Background()

	testCases := []struct {
		name          string
		ids           func(mine, theirs []int) []int
		expectedErr   func(mine, theirs []int) error
		expectedCount int
	}{
		{
			name:          "all owned",
			ids:           func(mine, theirs []int) []int { return mine },
			expectedCount: 1,
		},
		{
			name: "one foreign id rejects the batch",
			ids:  func(mine, theirs []int) []int { return append(append([]int{}, mine...), theirs[0]) },
			expectedErr: func(mine, theirs []int) error {
				return &UnauthorizedIDsError{IDs: []int{theirs[0]}}
			},
			expectedCount: 4,
		},
		{
			name:          "unknown ids are reported as unauthorized",
			ids:           func(mine, theirs []int) []int { return []int{mine[0], 9999} },
			expectedErr:   func(mine, theirs []int) error { return &UnauthorizedIDsError{IDs: []int{9999}} },
			expectedCount: 4,
		},
		{
			name: "empty batch",
			ids:  func(mine, theirs []int) []int { return nil },
			expectedErr: func(mine, theirs []int) error {
				return common.ValidationError{Errors: map[string]string{"ids": "must contain at least one valid post id"}, Fields: []string{"ids"}}
			},
			expectedCount: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(func() { cleanupContent(t, db) })

			var mine, theirs []int
			for i := 0; i < 3; i++ {
				mine = append(mine, createTestPost(t, s, authorID, fmt.Sprintf("mine %d", i), true, "shared").ID)
			}
			theirs = append(theirs, createTestPost(t, s, otherID, "theirs", true, "shared").ID)

			_, err := s.DeletePosts(ctx, tc.ids(mine, theirs), authorID)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr(mine, theirs), err)
			} else {
				assert.NoError(t, err)
			}

			var count int
			require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count))
			assert.Equal(t, tc.expectedCount, count)
		})
	}
}

func TestListPosts(t *testing.T) {
	s, db := setupTestEnvironment(t)
	t.Cleanup(func() { cleanupContent(t, db) })

	authorID := setupTestUser(t, db, "ada")
	otherID := setupTestUser(t, db, "bob")
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, "Go")
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		in := &CreatePostInput{Title: fmt.Sprintf("Post %02d", i), Content: "plain body", Published: ptr(true)}
		if i%3 == 0 {
			in.CategoryIDs = common.IDList{IDs: []int{category.ID}}
			in.TagNames = []string{"gopher"}
		}
		_, err := s.CreatePost(ctx, authorID, in)
		require.NoError(t, err)
	}

	_, err = s.CreatePost(ctx, otherID, &CreatePostInput{Title: "Bob Draft", Content: "Needle in a haystack"})
	require.NoError(t, err)

	var tagID int
	require.NoError(t, db.QueryRow("SELECT id FROM tags WHERE name = 'gopher'").Scan(&tagID))

	testCases := []struct {
		name       string
		query      PostQuery
		total      int
		items      int
		totalPages int
		firstTitle string
		err        bool
	}{
		{name: "defaults", query: PostQuery{}, total: 13, items: 10, totalPages: 2},
		{name: "second page", query: PostQuery{Page: 2}, total: 13, items: 3, totalPages: 2},
		{name: "beyond last page", query: PostQuery{Page: 5}, total: 13, items: 0, totalPages: 2},
		{name: "sorted by title", query: PostQuery{SortBy: "title", SortOrder: "asc", Limit: 1}, total: 13, items: 1, totalPages: 13, firstTitle: "Bob Draft"},
		{name: "search content case-insensitively", query: PostQuery{Search: "NEEDLE"}, total: 1, items: 1, totalPages: 1, firstTitle: "Bob Draft"},
		{name: "category filter", query: PostQuery{CategoryID: &category.ID}, total: 4, items: 4, totalPages: 1},
		{name: "tag filter", query: PostQuery{TagID: &tagID}, total: 4, items: 4, totalPages: 1},
		{name: "author filter", query: PostQuery{AuthorID: &otherID}, total: 1, items: 1, totalPages: 1},
		{name: "published filter", query: PostQuery{Published: ptr(false)}, total: 1, items: 1, totalPages: 1},
		{name: "anonymous visibility", query: PostQuery{OnlyVisible: true}, total: 12, items: 10, totalPages: 2},
		{name: "owner sees own draft", query: PostQuery{OnlyVisible: true, ViewerID: otherID}, total: 13, items: 10, totalPages: 2},
		{name: "limit over max", query: PostQuery{Limit: 101}, err: true},
		{name: "bad sort field", query: PostQuery{SortBy: "content"}, err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.ListPosts(ctx, tc.query)
			if tc.err {
				var vErr common.ValidationError
				assert.True(t, errors.As(err, &vErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.total, page.Total)
			assert.Len(t, page.Items, tc.items)
			assert.Equal(t, tc.totalPages, page.TotalPages)
			assert.LessOrEqual(t, len(page.Items), page.Limit)

			if tc.firstTitle != "" {
				assert.Equal(t, tc.firstTitle, page.Items[0].Title)
			}
		})
	}
}

func TestDeleteCategoryDetachesPosts(t *testing.T) {
	s, db := setupTestEnvironment(t)
	t.Cleanup(func() { cleanupContent(t, db) })

	authorID := setupTestUser(t, db, "ada")
	ctx := context.Background()

	p, err := s.CreatePost(ctx, authorID, &CreatePostInput{
		Title:         "Filed",
		Content:       "Body",
		Published:     ptr(true),
		CategoryNames: []string{"Keep", "Drop"},
	})
	require.NoError(t, err)

	var dropID int
	require.NoError(t, db.QueryRow("SELECT id FROM categories WHERE name = 'Drop'").Scan(&dropID))

	require.NoError(t, s.DeleteCategory(ctx, dropID))

	page, err := s.ListPosts(ctx, PostQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, p.ID, page.Items[0].ID)
	assert.Equal(t, []string{"Keep"}, tagNames(page.Items[0].Categories))
}

func ptr[T any](v T) *T {
	return &v
}
