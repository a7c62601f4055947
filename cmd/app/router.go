package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.requireAuthenticatedUser(app.logoutUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/auth/me", app.requireAuthenticatedUser(app.currentUserHandler))

	// posts
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requireAuthenticatedUser(app.createPostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts", app.requireAuthenticatedUser(app.deletePostsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/:id", app.requireAuthenticatedUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:id", app.requireAuthenticatedUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id/html", app.renderPostHandler)
	router.HandlerFunc(http.MethodGet, "/v1/slugs/:slug", app.getPostBySlugHandler)

	// categories
	router.HandlerFunc(http.MethodGet, "/v1/categories", app.listCategoriesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/categories", app.requireAuthenticatedUser(app.createCategoryHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/categories", app.requireAuthenticatedUser(app.deleteCategoriesHandler))
	router.HandlerFunc(http.MethodGet, "/v1/categories/:id", app.getCategoryHandler)
	router.HandlerFunc(http.MethodPut, "/v1/categories/:id", app.requireAuthenticatedUser(app.updateCategoryHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/categories/:id", app.requireAuthenticatedUser(app.deleteCategoryHandler))

	// tags
	router.HandlerFunc(http.MethodGet, "/v1/tags", app.listTagsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tags", app.requireAuthenticatedUser(app.createTagHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/tags", app.requireAuthenticatedUser(app.deleteTagsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/tags/:id", app.getTagHandler)
	router.HandlerFunc(http.MethodPut, "/v1/tags/:id", app.requireAuthenticatedUser(app.updateTagHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/tags/:id", app.requireAuthenticatedUser(app.deleteTagHandler))

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(app.authenticate(router)))))
}
