package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/inkwell/internal/common"
)

func TestTagHandlers(t *testing.T) {
	app, db := newTestApplication(t)
	t.Cleanup(func() { common.TruncateTables(t, db, "posts", "tags", "tokens", "users") })

	ts := newTestServer(t, app.routes())

	token, _ := registerAndLogin(t, ts, "ada")

	status, _, _ := ts.post(t, "/v1/tags", nil, map[string]any{"name": "go"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, body := ts.post(t, "/v1/tags", token, map[string]any{"name": "  go  "})
	require.Equal(t, http.StatusCreated, status, body)
	tag := dataMap(t, body)
	assert.Equal(t, "go", tag["name"])
	assert.Equal(t, float64(0), tag["postCount"])
	path := fmt.Sprintf("/v1/tags/%d", int(tag["id"].(float64)))

	status, _, body = ts.post(t, "/v1/tags", token, map[string]any{"name": "go"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "tag already exists", body["error"])

	status, _, body = ts.post(t, "/v1/tags", token, map[string]any{"name": " "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name must be provided", body["error"])

	createPost(t, ts, token, map[string]any{"title": "Tagged", "content": "Body", "tagNames": []string{"go", "web"}})

	status, _, body = ts.get(t, "/v1/tags", nil)
	require.Equal(t, http.StatusOK, status)
	tags := body["data"].([]any)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].(map[string]any)["name"])
	assert.Equal(t, float64(1), tags[0].(map[string]any)["postCount"])

	status, _, body = ts.get(t, "/v1/tags?includeCount=false&search=WE", nil)
	require.Equal(t, http.StatusOK, status)
	tags = body["data"].([]any)
	require.Len(t, tags, 1)
	assert.NotContains(t, tags[0], "postCount")

	status, _, body = ts.put(t, path, token, map[string]any{"name": "golang"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "golang", dataMap(t, body)["name"])

	status, _, _ = ts.put(t, path, token, map[string]any{"name": "web"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = ts.get(t, "/v1/tags/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = ts.delete(t, path, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.delete(t, path, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTagsHandler(t *testing.T) {
	app, db := newTestApplication(t)
	t.Cleanup(func() { common.TruncateTables(t, db, "tags", "tokens", "users") })

	ts := newTestServer(t, app.routes())

	token, _ := registerAndLogin(t, ts, "ada")

	var ids []int
	for _, name := range []string{"a", "b"} {
		status, _, body := ts.post(t, "/v1/tags", token, map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, status)
		ids = append(ids, int(dataMap(t, body)["id"].(float64)))
	}

	status, _, body := ts.delete(t, "/v1/tags", token, map[string]any{"ids": []any{ids[0], "abc"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []any{`"abc"`}, dataMap(t, body)["invalidIds"])

	status, _, body = ts.delete(t, "/v1/tags", token, map[string]any{"ids": []any{ids[0], 9999}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, []any{float64(9999)}, dataMap(t, body)["missingIds"])

	status, _, body = ts.delete(t, "/v1/tags", token, map[string]any{"ids": []any{ids[0], ids[1]}})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(2), dataMap(t, body)["deleted"])
}
