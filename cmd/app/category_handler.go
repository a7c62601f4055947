package main

import (
	"fmt"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := common.NewValidator()

	q := blogservice.CategoryQuery{
		Page:      app.readInt(qs, "page", blogservice.DefaultPage, v),
		Limit:     app.readInt(qs, "limit", blogservice.DefaultLimit, v),
		Search:    app.readString(qs, "search", ""),
		SortBy:    app.readString(qs, "sortBy", "name"),
		SortOrder: app.readString(qs, "sortOrder", "asc"),
	}

	v.Check(q.Page >= 1, "page", "must be greater than zero")
	v.Check(q.Limit >= 1, "limit", "must be greater than zero")
	if !v.Valid() {
		app.serviceErrorResponse(w, r, v.ValidationError())
		return
	}

	page, err := app.blogService.ListCategories(r.Context(), q)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, page, "")
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	category, err := app.blogService.GetCategory(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, category, "")
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var input categoryRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	category, err := app.blogService.CreateCategory(r.Context(), input.Name)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusCreated, category, "category created successfully")
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input categoryRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	category, err := app.blogService.UpdateCategory(r.Context(), id, input.Name)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, category, "category updated successfully")
}

func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.DeleteCategory(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, nil, "category deleted successfully")
}

// deleteCategoriesHandler ignores entries of ids that are not numeric.
func (app *application) deleteCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var input deleteIDsRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	n, err := app.blogService.DeleteCategories(r.Context(), input.IDs.IDs)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.successResponse(w, r, http.StatusOK, envelope{"deleted": n}, fmt.Sprintf("%d categories deleted successfully", n))
}
