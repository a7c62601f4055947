package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method  = r.Method
		url     = r.URL.RequestURI()
		message = err.Error()
	)

	app.logger.Error(message, slog.String("method", method), slog.String("url", url))
}

// writeErrorResponse writes {success: false, error: message}. data is included when it is not nil.
func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	env := envelope{"success": false, "error": message}
	if data != nil {
		env["data"] = data
	}

	err := app.writeJSON(w, status, env, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	app.writeErrorResponse(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) badRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidationErrorResponse(w http.ResponseWriter, r *http.Request, err common.ValidationError) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.First(), nil)
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusNotFound, "the requested resource could not be found", nil)
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.writeErrorResponse(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) editConflictErrorResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	app.writeErrorResponse(w, r, http.StatusConflict, message, nil)
}

func (app *application) invalidCredentialsErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "invalid authentication credentials", nil)
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "invalid or missing authentication token", nil)
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "you must be authenticated to access this resource", nil)
}

func (app *application) forbiddenErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusForbidden, err.Error(), nil)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded", nil)
}

// serviceErrorResponse maps errors returned by the services to their responses.
func (app *application) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr   common.ValidationError
		slugErr         *blogservice.SlugConflictError
		unauthorizedErr *blogservice.UnauthorizedIDsError
		missingErr      *blogservice.MissingIDsError
		invalidIDsErr   *blogservice.InvalidIDsError
		unknownCatErr   *blogservice.UnknownCategoryError
	)

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr)
	case errors.As(err, &slugErr):
		app.writeErrorResponse(w, r, http.StatusBadRequest, slugErr.Error(), envelope{"suggestedSlug": slugErr.Suggested})
	case errors.As(err, &unauthorizedErr):
		app.writeErrorResponse(w, r, http.StatusForbidden, unauthorizedErr.Error(), envelope{"unauthorizedIds": unauthorizedErr.IDs})
	case errors.As(err, &missingErr):
		app.writeErrorResponse(w, r, http.StatusNotFound, missingErr.Error(), envelope{"missingIds": missingErr.IDs})
	case errors.As(err, &invalidIDsErr):
		app.writeErrorResponse(w, r, http.StatusBadRequest, invalidIDsErr.Error(), envelope{"invalidIds": invalidIDsErr.Values})
	case errors.As(err, &unknownCatErr):
		app.writeErrorResponse(w, r, http.StatusBadRequest, unknownCatErr.Error(), nil)
	case errors.Is(err, common.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, common.ErrEditConflict):
		app.editConflictErrorResponse(w, r)
	case errors.Is(err, blogservice.ErrForbidden):
		app.forbiddenErrorResponse(w, r, err)
	case errors.Is(err, blogservice.ErrSlugTaken),
		errors.Is(err, blogservice.ErrDuplicateTag),
		errors.Is(err, blogservice.ErrDuplicateCategory),
		errors.Is(err, userservice.ErrDuplicateEmail):
		app.badRequestErrorResponse(w, r, err)
	case errors.Is(err, blogservice.ErrUserForeignKey),
		errors.Is(err, userservice.ErrInvalidToken):
		app.invalidAuthenticationTokenResponse(w, r)
	case errors.Is(err, userservice.ErrAuthenticationFailure):
		app.invalidCredentialsErrorResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
