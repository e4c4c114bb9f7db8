package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/pkg/db"
)

// Health wires GET /api/health: process liveness plus a db ping and pool
// snapshot.
func Health(client *db.Client, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		payload := map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if client != nil {
			if err := client.Ping(ctx); err != nil {
				payload["status"] = "degraded"
				payload["database"] = "unreachable"
				wr.JSON(w, http.StatusServiceUnavailable, payload)
				return
			}
			payload["database"] = "ok"
			payload["pool"] = client.Stats()
		}

		wr.JSON(w, http.StatusOK, payload)
	}
}
