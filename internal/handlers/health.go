package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
)

const healthTimeout = 2 * time.Second

func handleHealth(db pinger, l logger.Logger) http.Handler {
	type response struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			l.Warn("health check failed", "error", err)
			render.JSONWithStatus(w, response{Status: "unhealthy", Database: "unavailable"}, http.StatusServiceUnavailable)
			return
		}

		render.JSON(w, response{Status: "healthy", Database: "connected"})
	})
}
