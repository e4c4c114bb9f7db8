package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jeevaraksha/hospital-api/api/middleware"
	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/api/validators"
	"github.com/jeevaraksha/hospital-api/internal/beds"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// WardsList wires GET /api/wards.
func WardsList(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListWards(r.Context())
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, rows)
	}
}

// WardsCreate wires POST /api/wards.
func WardsCreate(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body beds.CreateWardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		created, err := svc.CreateWard(r.Context(), actor, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusCreated, created)
	}
}

// WardsUpdate wires PATCH /api/wards/{id}.
func WardsUpdate(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body beds.UpdateWardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		updated, err := svc.UpdateWard(r.Context(), actor, id, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, updated)
	}
}

// WardsDelete wires DELETE /api/wards/{id}.
func WardsDelete(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		result, err := svc.DeleteWard(r.Context(), actor, id)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}

// BedsList wires GET /api/beds with ward_id/status filters.
func BedsList(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wardID, err := validators.ParseQueryUUID(r, "ward_id")
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		filter := beds.ListBedsFilter{
			WardID: wardID,
			Status: enums.BedStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		}
		rows, err := svc.ListBeds(r.Context(), filter)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, rows)
	}
}

// BedsCreate wires POST /api/beds.
func BedsCreate(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body beds.CreateBedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		created, err := svc.CreateBed(r.Context(), actor, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusCreated, created)
	}
}

// BedsUpdate wires PATCH /api/beds/{id}. Non-admins can only flip status;
// the service enforces that split.
func BedsUpdate(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body beds.UpdateBedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		updated, err := svc.UpdateBed(r.Context(), actor, id, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, updated)
	}
}

// BedsDelete wires DELETE /api/beds/{id}.
func BedsDelete(svc beds.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		result, err := svc.DeleteBed(r.Context(), actor, id)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}
