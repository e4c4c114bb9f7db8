package controllers

import (
	"net/http"
	"strings"

	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/api/validators"
	"github.com/jeevaraksha/hospital-api/internal/audit"
)

// AuditLogsList wires GET /api/audit-logs with user_id/action/entity_type
// filters, newest first.
func AuditLogsList(svc *audit.QueryService, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		filter := audit.Filter{
			UserID:     userID,
			Action:     strings.TrimSpace(r.URL.Query().Get("action")),
			EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
			Page:       page,
		}

		result, err := svc.List(r.Context(), filter)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}
