package handlers

import (
	"net/http"
	"strconv"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/handlers/userctx"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

const (
	maxPageLimit = 100

	defaultUserLimit    = 50
	defaultProductLimit = 20
	defaultPageLimit    = 20
)

// pathID reads positive integer path value
// Writes 422 response and returns false if it is not valid
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		render.JSONWithStatus(w, render.ErrorResponse{
			Detail: render.ValidationFailedMessage,
			Fields: map[string]string{name: "Value must be a positive integer"},
		}, http.StatusUnprocessableEntity)
		return 0, false
	}
	return id, true
}

// pageParams reads limit and offset query params
// Limit must be in 1..100 range, offset must not be negative
func pageParams(w http.ResponseWriter, r *http.Request, limit int) (repository.Page, bool) {
	page := repository.Page{Limit: limit, Offset: 0}
	fields := make(map[string]string)

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			fields["limit"] = "Value must be between 1 and 100"
		}
		page.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			fields["offset"] = "Value must be greater than or equal to 0"
		}
		page.Offset = offset
	}

	if len(fields) > 0 {
		render.JSONWithStatus(w, render.ErrorResponse{Detail: render.ValidationFailedMessage, Fields: fields}, http.StatusUnprocessableEntity)
		return page, false
	}
	return page, true
}

// queryID reads optional positive integer query param
func queryID(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		render.JSONWithStatus(w, render.ErrorResponse{
			Detail: render.ValidationFailedMessage,
			Fields: map[string]string{name: "Value must be a positive integer"},
		}, http.StatusUnprocessableEntity)
		return nil, false
	}
	return &id, true
}

// currentUser returns user put into context by auth middleware
// Handlers behind auth middleware always have one, so absence is an internal error
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Error(w, apperrors.New(apperrors.ErrInternal, render.InternalErrorMessage), nil)
	}
	return user, ok
}
