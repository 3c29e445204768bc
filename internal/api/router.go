package api

import (
	"log/slog"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/easytransfer/backend/internal/auth"
)

// NewRouter wires every route. Only /ping and /metrics skip authentication.
func NewRouter(h *Handler, validator *auth.Validator, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(logger), SecurityHeaders)

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/ping", h.PingHandler).Methods("GET")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(Authenticate(validator))

	authed.HandleFunc("/ping-auth", h.PingAuthHandler).Methods("GET")

	authed.HandleFunc("/requests", h.CreateRequestHandler).Methods("POST")
	authed.HandleFunc("/requests/next", h.ClaimNextHandler).Methods("GET")
	authed.HandleFunc("/requests/{id:[0-9]+}/result", h.RecordResultHandler).Methods("POST")
	authed.HandleFunc("/requests/status/{id:[0-9]+}", h.GetRequestStatusHandler).Methods("GET")

	authed.HandleFunc("/contacts", h.ListContactsHandler).Methods("GET")
	authed.HandleFunc("/contacts", h.CreateContactHandler).Methods("POST")
	authed.HandleFunc("/contacts/{id:[0-9]+}", h.DeleteContactHandler).Methods("DELETE")

	return r
}
