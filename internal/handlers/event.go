package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
)

func handleListEvents(s eventService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		page, ok := pageParams(w, r, defaultPageLimit)
		if !ok {
			return
		}

		events, err := s.List(r.Context(), actor, page)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(events, newEventResponse))
	})
}

func handleGetEvent(s eventService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		e, err := s.Get(r.Context(), actor, id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newEventResponse(e))
	})
}
