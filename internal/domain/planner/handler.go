package planner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

// Handler exposes the planner over JSON/HTTP.
type Handler struct {
	logger *slog.Logger
	svc    Service
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/itineraries", h.createItinerary)
	mux.HandleFunc("GET /api/v1/itineraries/{id}", h.getSession)
	mux.HandleFunc("POST /api/v1/itineraries/{id}/waypoints", h.addWaypoint)
	mux.HandleFunc("DELETE /api/v1/itineraries/{id}/waypoints/{wid}", h.removeWaypoint)
	mux.HandleFunc("POST /api/v1/itineraries/{id}/waypoints/{wid}/move", h.moveWaypoint)
	mux.HandleFunc("POST /api/v1/itineraries/{id}/optimize", h.optimize)
	mux.HandleFunc("POST /api/v1/itineraries/{id}/reparse", h.reparse)
}

type createItineraryRequest struct {
	Text string `json:"text"`
	City string `json:"city"`
}

func (h *Handler) createItinerary(w http.ResponseWriter, r *http.Request) {
	var req createItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", "request body must be JSON with text and city")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	req.City = strings.TrimSpace(req.City)
	if req.Text == "" || req.City == "" {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", "text and city are required")
		return
	}

	session, err := h.svc.CreateItinerary(r.Context(), req.Text, req.City)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	session, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

type addWaypointRequest struct {
	Name string `json:"name"`
}

func (h *Handler) addWaypoint(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req addWaypointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	session, err := h.svc.AddWaypoint(r.Context(), id, strings.TrimSpace(req.Name))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) removeWaypoint(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	wid, ok := h.pathUUID(w, r, "wid")
	if !ok {
		return
	}

	session, err := h.svc.RemoveWaypoint(r.Context(), id, wid)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

type moveWaypointRequest struct {
	Direction string `json:"direction"`
}

func (h *Handler) moveWaypoint(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	wid, ok := h.pathUUID(w, r, "wid")
	if !ok {
		return
	}
	var req moveWaypointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", "direction is required")
		return
	}

	session, err := h.svc.MoveWaypoint(r.Context(), id, wid, req.Direction)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) optimize(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	session, err := h.svc.Optimize(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) reparse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathUUID(w, r, "id")
	if !ok {
		return
	}
	session, err := h.svc.Reparse(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeServiceError maps the sentinel taxonomy onto HTTP. The two terminal
// pipeline failures stay distinguishable so a client can tell "no names in
// the text" from "names found but nowhere located".
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrNoAttractionsFound):
		h.writeError(w, r, http.StatusUnprocessableEntity, "extraction_empty", err.Error())
	case errors.Is(err, types.ErrNoAttractionsLocated):
		h.writeError(w, r, http.StatusUnprocessableEntity, "resolution_total_failure", err.Error())
	case errors.Is(err, types.ErrTooFewWaypoints):
		h.writeError(w, r, http.StatusConflict, "optimization_precondition", err.Error())
	case errors.Is(err, types.ErrNameNotLocated):
		h.writeError(w, r, http.StatusNotFound, "name_not_located", err.Error())
	case errors.Is(err, types.ErrSessionNotFound):
		h.writeError(w, r, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, types.ErrWaypointNotFound):
		h.writeError(w, r, http.StatusNotFound, "waypoint_not_found", err.Error())
	case errors.Is(err, types.ErrInvalidMoveDirection):
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "unhandled service error", slog.Any("error", err))
		h.writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}
