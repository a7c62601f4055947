package main

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
)

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := common.NewValidator()

	q := blogservice.PostQuery{
		Page:        app.readInt(qs, "page", blogservice.DefaultPage, v),
		Limit:       app.readInt(qs, "limit", blogservice.DefaultLimit, v),
		Search:      app.readString(qs, "search", ""),
		CategoryID:  app.readOptionalInt(qs, "categoryId", v),
		TagID:       app.readOptionalInt(qs, "tagId", v),
		AuthorID:    app.readOptionalInt(qs, "authorId", v),
		Published:   app.readOptionalBool(qs, "published", v),
		SortBy:      app.readString(qs, "sortBy", "createdAt"),
		SortOrder:   app.readString(qs, "sortOrder", "desc"),
		OnlyVisible: true,
		ViewerID:    app.viewerID(r),
	}

	v.Check(q.Page >= 1, "page", "must be greater than zero")
	v.Check(q.Limit >= 1, "limit", "must be greater than zero")
	if !v.Valid() {
		app.serviceErrorResponse(w, r, v.ValidationError())
		return
	}

	page, err := app.blogService.ListPosts(r.Context(), q)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, page, "")
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreatePostInput

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	post, err := app.blogService.CreatePost(r.Context(), user.ID, &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusCreated, post, "post created successfully")
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id, app.viewerID(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, post, "")
}

func (app *application) getPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	post, err := app.blogService.GetPostBySlug(r.Context(), slug, app.viewerID(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, post, "")
}

func (app *application) renderPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	rendered, err := app.blogService.RenderPost(r.Context(), id, app.viewerID(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, rendered, "")
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input blogservice.UpdatePostInput

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	post, err := app.blogService.UpdatePost(r.Context(), id, user.ID, &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, post, "post updated successfully")
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.blogService.DeletePost(r.Context(), id, user.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, nil, "post deleted successfully")
}

type deleteIDsRequest struct {
	IDs common.IDList `json:"ids"`
}

func (app *application) deletePostsHandler(w http.ResponseWriter, r *http.Request) {
	var input deleteIDsRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	n, err := app.blogService.DeletePosts(r.Context(), input.IDs.IDs, user.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, envelope{"deleted": n}, fmt.Sprintf("%d posts deleted successfully", n))
}
