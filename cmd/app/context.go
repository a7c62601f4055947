package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// getUserContext returns the anonymous user when the request did not pass through authenticate.
func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}

// viewerID is the caller's user id, or 0 for anonymous callers.
func (app *application) viewerID(r *http.Request) int {
	user := app.getUserContext(r)
	if user.IsAnonymous() {
		return 0
	}
	return user.ID
}
