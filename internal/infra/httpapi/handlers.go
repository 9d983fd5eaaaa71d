package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"proservis/internal/app"
	"proservis/internal/domain/recurrence"
	"proservis/internal/infra/calendar"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	maintenance app.MaintenanceService
	logger      *logrus.Entry
	now         func() time.Time
}

func NewHandler(maintenance app.MaintenanceService, logger *logrus.Entry) *Handler {
	return &Handler{
		maintenance: maintenance,
		logger:      logger,
		now:         time.Now,
	}
}

// NextDate previews the next maintenance date without persisting anything.
func (h *Handler) NextDate(w http.ResponseWriter, r *http.Request) {
	var req NextDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	ref, err := recurrence.ParseDate(req.ReferenceDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid referenceDate", err)
		return
	}
	if err := req.Policy.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}

	next := h.maintenance.PreviewNextDate(ref, req.Frequency, req.Policy)
	writeJSON(w, http.StatusOK, NextDateResponse{NextDate: optionPtr(next)})
}

// CompleteService closes a service and schedules its follow-up.
func (h *Handler) CompleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(w, r)
	if !ok {
		return
	}

	var req CompleteServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	completedOn := recurrence.DateOnly(h.now())
	if req.CompletedOn != "" {
		parsed, err := recurrence.ParseDate(req.CompletedOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid completedOn", err)
			return
		}
		completedOn = parsed
	}
	if err := req.Policy.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
		return
	}

	result, err := h.maintenance.CompleteService(r.Context(), id, completedOn, req.Frequency, req.Policy)
	if err != nil {
		h.writeServiceError(w, id, err)
		return
	}

	resp := CompleteServiceResponse{
		Service:  toServiceDTO(result.Service),
		NextDate: optionPtr(result.NextDate),
	}
	if result.FollowUp != nil {
		followUp := toServiceDTO(result.FollowUp)
		resp.FollowUp = &followUp
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListDue returns the services scheduled on ?date=, defaulting to today.
func (h *Handler) ListDue(w http.ResponseWriter, r *http.Request) {
	day := recurrence.DateOnly(h.now())
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := recurrence.ParseDate(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		day = parsed
	}

	services, err := h.maintenance.ListDue(r.Context(), day)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list due services")
		writeError(w, http.StatusInternalServerError, "Failed to list due services", err)
		return
	}

	dtos := make([]ServiceDTO, len(services))
	for i, s := range services {
		dtos[i] = toServiceDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Calendar serves the projected visits of a service as text/calendar.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	id, ok := serviceID(w, r)
	if !ok {
		return
	}

	horizon := calendar.DefaultHorizon
	if q := r.URL.Query().Get("horizon"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "horizon must be between 1 and 100", err)
			return
		}
		horizon = n
	}

	record, err := h.maintenance.GetService(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, id, err)
		return
	}

	var buf bytes.Buffer
	if err := calendar.Write(&buf, record, horizon, h.now()); err != nil {
		if errors.Is(err, calendar.ErrNoOccurrences) {
			writeError(w, http.StatusNotFound, "No upcoming maintenance", err)
			return
		}
		h.logger.WithError(err).WithField("service_id", id).Error("Failed to build calendar")
		writeError(w, http.StatusInternalServerError, "Failed to build calendar", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) writeServiceError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, app.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "Service not found", err)
	case errors.Is(err, app.ErrServiceAlreadyCompleted), errors.Is(err, app.ErrServiceCancelled):
		writeError(w, http.StatusConflict, "Service cannot be completed", err)
	case errors.Is(err, app.ErrInvalidNextDate):
		writeError(w, http.StatusUnprocessableEntity, "Invalid recurrence policy", err)
	default:
		h.logger.WithError(err).WithField("service_id", id).Error("Service request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func serviceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid service ID", err)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
