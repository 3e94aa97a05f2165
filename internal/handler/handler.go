// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/service"
)

// ConferenceHandler holds all HTTP handlers for the conference API.
type ConferenceHandler struct {
	conferences   *service.ConferenceService
	registrations *service.RegistrationCoordinator
	profiles      *service.ProfileService
}

// NewConferenceHandler constructs a ConferenceHandler.
func NewConferenceHandler(
	conferences *service.ConferenceService,
	registrations *service.RegistrationCoordinator,
	profiles *service.ProfileService,
) *ConferenceHandler {
	return &ConferenceHandler{conferences: conferences, registrations: registrations, profiles: profiles}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", model.ErrValidation, err)
	}
	return nil
}

// identity is only called behind Authenticate.
func identity(r *http.Request) model.Identity {
	id, _ := IdentityFrom(r.Context())
	return id
}

// ─── Profile ──────────────────────────────────────────────────────────────────

// GetProfile handles GET /profile
// Returns the caller's profile, creating it on first access.
func (h *ConferenceHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := h.profiles.Get(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// SaveProfile handles POST /profile
func (h *ConferenceHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var form model.ProfileForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeServiceError(w, r, err)
		return
	}

	prof, err := h.profiles.Save(r.Context(), identity(r), form)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// ─── Conferences ──────────────────────────────────────────────────────────────

// CreateConference handles POST /conferences
func (h *ConferenceHandler) CreateConference(w http.ResponseWriter, r *http.Request) {
	var form model.ConferenceForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeServiceError(w, r, err)
		return
	}

	conf, err := h.conferences.Create(r.Context(), identity(r), form)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

// UpdateConference handles PUT /conferences/{key}
// Only fields present in the body change.
func (h *ConferenceHandler) UpdateConference(w http.ResponseWriter, r *http.Request) {
	var form model.ConferenceForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeServiceError(w, r, err)
		return
	}

	conf, err := h.conferences.Update(r.Context(), identity(r), chi.URLParam(r, "key"), form)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

// GetConference handles GET /conferences/{key}
func (h *ConferenceHandler) GetConference(w http.ResponseWriter, r *http.Request) {
	conf, err := h.conferences.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

// QueryConferences handles POST /conferences/query
// An empty body or empty filter list returns every conference by name.
func (h *ConferenceHandler) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req model.QueryRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeServiceError(w, r, err)
		return
	}

	confs, err := h.conferences.Query(r.Context(), req.Filters)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, confs)
}

// ListCreated handles GET /conferences/created
func (h *ConferenceHandler) ListCreated(w http.ResponseWriter, r *http.Request) {
	confs, err := h.conferences.Created(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, confs)
}

// ListAttending handles GET /conferences/attending
func (h *ConferenceHandler) ListAttending(w http.ResponseWriter, r *http.Request) {
	confs, err := h.conferences.Attending(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, confs)
}

// ─── Registration ─────────────────────────────────────────────────────────────

// Register handles POST /conferences/{key}/registration
// Books one seat for the caller.
func (h *ConferenceHandler) Register(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registrations.Register(r.Context(), identity(r), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.BooleanResult{Data: ok})
}

// Unregister handles DELETE /conferences/{key}/registration
// Returns data=false when the caller was not registered.
func (h *ConferenceHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registrations.Unregister(r.Context(), identity(r), chi.URLParam(r, "key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.BooleanResult{Data: ok})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
