package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jeevaraksha/hospital-api/api/middleware"
	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/api/validators"
	"github.com/jeevaraksha/hospital-api/internal/patients"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// PatientsList wires GET /api/patients with search/status/page filters.
func PatientsList(svc patients.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePage(r)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		filter := patients.ListFilter{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Status: enums.PatientStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
			Page:   page,
		}

		result, err := svc.List(r.Context(), filter)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}

// PatientsGet wires GET /api/patients/{id}.
func PatientsGet(svc patients.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		patient, err := svc.GetByID(r.Context(), id)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, patient)
	}
}

// PatientsGetByUHID wires GET /api/patients/uhid/{uhid}.
func PatientsGetByUHID(svc patients.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient, err := svc.GetByUHID(r.Context(), chi.URLParam(r, "uhid"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, patient)
	}
}

// PatientsCreate wires POST /api/patients.
func PatientsCreate(svc patients.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body patients.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		created, err := svc.Create(r.Context(), actor, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusCreated, created)
	}
}

// PatientsUpdate wires PATCH /api/patients/{id}.
func PatientsUpdate(svc patients.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		var body patients.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		updated, err := svc.Update(r.Context(), actor, id, body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, updated)
	}
}

// PatientsDelete wires DELETE /api/patients/{id}. ?hard=true removes the row
// permanently but is honored only for admins; everyone else gets the soft
// delete regardless of the flag.
func PatientsDelete(svc patients.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"))
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		hard := r.URL.Query().Get("hard") == "true" && actor.HasRole(enums.RoleAdmin)

		result, err := svc.Delete(r.Context(), actor, id, hard)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}
