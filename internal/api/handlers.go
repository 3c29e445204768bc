package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/easytransfer/backend/internal/models"
	"github.com/easytransfer/backend/internal/service"
	"github.com/easytransfer/backend/internal/store"
	"github.com/easytransfer/backend/internal/validation"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Handler struct {
	requests *service.RequestService
	contacts *service.ContactService
	validate *validatorv10.Validate
	logger   *slog.Logger
}

func NewHandler(requests *service.RequestService, contacts *service.ContactService, logger *slog.Logger) *Handler {
	return &Handler{
		requests: requests,
		contacts: contacts,
		validate: validation.New(),
		logger:   logger,
	}
}

// PingHandler is the unauthenticated health probe.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// PingAuthHandler answers only behind the auth middleware, so a 200 means
// both the server and the caller's token are good.
func (h *Handler) PingAuthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "pong",
		"authenticated": true,
	})
}

func (h *Handler) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/requests"))
	defer timer.ObserveDuration()

	account, _ := accountID(r)

	var payload models.CreateRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respond(w, "POST", "/requests", http.StatusBadRequest, errorBody("malformed JSON body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		h.respond(w, "POST", "/requests", http.StatusBadRequest, errorBody(validation.Message(err)))
		return
	}

	id, err := h.requests.Create(r.Context(), account, payload.PhoneNumber, payload.Amount)
	if err != nil {
		h.serverError(w, r, "POST", "/requests", err)
		return
	}

	h.respond(w, "POST", "/requests", http.StatusCreated, map[string]interface{}{
		"request_id": id,
		"status":     models.StatusPending,
	})
}

func (h *Handler) ClaimNextHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/requests/next"))
	defer timer.ObserveDuration()

	account, _ := accountID(r)

	req, err := h.requests.ClaimNextPending(r.Context(), account)
	if err != nil {
		if errors.Is(err, store.ErrNoPendingRequests) {
			h.respond(w, "GET", "/requests/next", http.StatusOK, map[string]string{
				"message": "no pending requests",
				"status":  "empty",
			})
			return
		}
		h.serverError(w, r, "GET", "/requests/next", err)
		return
	}

	h.respond(w, "GET", "/requests/next", http.StatusOK, map[string]interface{}{
		"request_id":   req.ID,
		"phone_number": req.PhoneNumber,
		"amount":       req.Amount,
		"status":       "ok",
	})
}

func (h *Handler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/requests/{id}/result"))
	defer timer.ObserveDuration()

	account, _ := accountID(r)
	requestID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var payload models.RecordResultPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respond(w, "POST", "/requests/{id}/result", http.StatusBadRequest, errorBody("malformed JSON body"))
		return
	}

	finalStatus, err := h.requests.RecordResult(r.Context(), account, requestID, payload.Status, payload.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResultStatus):
			h.respond(w, "POST", "/requests/{id}/result", http.StatusBadRequest, errorBody("status must be Success or Failed"))
		case errors.Is(err, store.ErrRequestNotFound):
			h.respond(w, "POST", "/requests/{id}/result", http.StatusNotFound, errorBody("request not found"))
		case errors.Is(err, store.ErrRequestFinalized):
			h.respond(w, "POST", "/requests/{id}/result", http.StatusBadRequest, errorBody("request already finalized"))
		default:
			h.serverError(w, r, "POST", "/requests/{id}/result", err)
		}
		return
	}

	h.respond(w, "POST", "/requests/{id}/result", http.StatusOK, map[string]interface{}{
		"request_id":   requestID,
		"final_status": finalStatus,
		"message":      payload.Message,
	})
}

func (h *Handler) GetRequestStatusHandler(w http.ResponseWriter, r *http.Request) {
	account, _ := accountID(r)
	requestID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	req, err := h.requests.GetByID(r.Context(), account, requestID)
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			h.respond(w, "GET", "/requests/status/{id}", http.StatusNotFound, errorBody("request not found"))
			return
		}
		h.serverError(w, r, "GET", "/requests/status/{id}", err)
		return
	}

	h.respond(w, "GET", "/requests/status/{id}", http.StatusOK, map[string]interface{}{
		"request_id":   req.ID,
		"phone_number": req.PhoneNumber,
		"amount":       req.Amount,
		"status":       req.Status,
	})
}

func (h *Handler) ListContactsHandler(w http.ResponseWriter, r *http.Request) {
	account, _ := accountID(r)

	contacts, err := h.contacts.List(r.Context(), account)
	if err != nil {
		h.serverError(w, r, "GET", "/contacts", err)
		return
	}

	h.respond(w, "GET", "/contacts", http.StatusOK, map[string]interface{}{"contacts": contacts})
}

func (h *Handler) CreateContactHandler(w http.ResponseWriter, r *http.Request) {
	account, _ := accountID(r)

	var payload models.CreateContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respond(w, "POST", "/contacts", http.StatusBadRequest, errorBody("malformed JSON body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		h.respond(w, "POST", "/contacts", http.StatusBadRequest, errorBody(validation.Message(err)))
		return
	}

	id, err := h.contacts.Create(r.Context(), account, payload.PhoneNumber, payload.Name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrContactLimitReached):
			msg := fmt.Sprintf("contact limit reached: at most %d contacts per account", h.contacts.MaxPerAccount())
			h.respond(w, "POST", "/contacts", http.StatusBadRequest, errorBody(msg))
		case errors.Is(err, store.ErrDuplicateContactName):
			h.respond(w, "POST", "/contacts", http.StatusBadRequest, errorBody(fmt.Sprintf("contact named %q already exists", payload.Name)))
		default:
			h.serverError(w, r, "POST", "/contacts", err)
		}
		return
	}

	h.respond(w, "POST", "/contacts", http.StatusCreated, map[string]interface{}{
		"contact_id": id,
		"message":    "contact added successfully",
	})
}

func (h *Handler) DeleteContactHandler(w http.ResponseWriter, r *http.Request) {
	account, _ := accountID(r)
	contactID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if err := h.contacts.Delete(r.Context(), account, contactID); err != nil {
		if errors.Is(err, store.ErrContactNotFound) {
			h.respond(w, "DELETE", "/contacts/{id}", http.StatusNotFound, errorBody("contact not found"))
			return
		}
		h.serverError(w, r, "DELETE", "/contacts/{id}", err)
		return
	}

	h.respond(w, "DELETE", "/contacts/{id}", http.StatusOK, map[string]string{
		"message": "contact deleted successfully",
	})
}

// Helpers

func (h *Handler) respond(w http.ResponseWriter, method, endpoint string, code int, payload interface{}) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	respondWithJSON(w, code, payload)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, method, endpoint string, err error) {
	h.logger.Error("request failed", "method", method, "path", r.URL.Path, "error", err)
	h.respond(w, method, endpoint, http.StatusInternalServerError, errorBody("internal server error"))
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorBody(message))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
