package main

import (
	"fmt"
	"net/http"
)

type tagRequest struct {
	Name string `json:"name"`
}

func (app *application) listTagsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	includeCount := true
	if s := qs.Get("includeCount"); s != "" {
		includeCount = s != "false"
	}

	tags, err := app.blogService.ListTags(r.Context(), qs.Get("search"), includeCount)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, tags, "")
}

func (app *application) getTagHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	tag, err := app.blogService.GetTag(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, tag, "")
}

func (app *application) createTagHandler(w http.ResponseWriter, r *http.Request) {
	var input tagRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	tag, err := app.blogService.CreateTag(r.Context(), input.Name)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusCreated, tag, "tag created successfully")
}

func (app *application) updateTagHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input tagRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	tag, err := app.blogService.UpdateTag(r.Context(), id, input.Name)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, tag, "tag updated successfully")
}

func (app *application) deleteTagHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.DeleteTag(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, nil, "tag deleted successfully")
}

func (app *application) deleteTagsHandler(w http.ResponseWriter, r *http.Request) {
	var input deleteIDsRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	n, err := app.blogService.DeleteTags(r.Context(), input.IDs)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, envelope{"deleted": n}, fmt.Sprintf("%d tags deleted successfully", n))
}
