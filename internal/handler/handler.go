// Package handler exposes the shop services over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/safar/labecommerce/internal/service"
	"github.com/safar/labecommerce/internal/validation"
)

const maxBodyBytes = 1 << 20

// Handler holds the services and registers routes.
type Handler struct {
	svc    *service.Services
	logger *slog.Logger
	mux    *http.ServeMux
}

func New(svc *service.Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{svc: svc, logger: logger, mux: http.NewServeMux()}
	h.routes()
	return h
}

// NewRouter returns the full HTTP stack: access log, panic recovery and CORS
// around the routes.
func NewRouter(svc *service.Services, allowedOrigins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return Chain(New(svc, logger),
		RequestLog(logger),
		Recover(logger),
		CORS(allowedOrigins),
	)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.mux.HandleFunc("GET /ping", h.ping)

	h.mux.HandleFunc("GET /users", h.listUsers)
	h.mux.HandleFunc("POST /users", h.createUser)
	h.mux.HandleFunc("PUT /users/{id}", h.updateUser)
	h.mux.HandleFunc("GET /users/{id}/purchases", h.listUserPurchases)

	h.mux.HandleFunc("GET /products", h.listProducts)
	h.mux.HandleFunc("POST /products", h.createProduct)
	h.mux.HandleFunc("GET /products/search", h.searchProducts)
	h.mux.HandleFunc("GET /products/{id}", h.getProduct)
	h.mux.HandleFunc("PUT /products/{id}", h.updateProduct)
	h.mux.HandleFunc("DELETE /products/{id}", h.deleteProduct)

	h.mux.HandleFunc("GET /purchases", h.listPurchases)
	h.mux.HandleFunc("POST /purchases", h.createPurchase)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Pong!"))
}

// ---------- helpers ----------

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// statusFor maps an error kind to a response status. Conflicts are client
// errors and share 400 with validation failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		serr *service.Error
		verr *validation.Error
	)
	switch {
	case errors.As(err, &serr):
		respondError(w, statusFor(serr), serr.Message)
	case errors.As(err, &verr):
		h.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "error", verr.Error())
		respondError(w, http.StatusBadRequest, verr.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "unexpected error")
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return validation.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), v)
}

// readPatch is readJSON for partial updates, where a missing body means no
// changes.
func readPatch(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return validation.DecodeOptional(http.MaxBytesReader(w, r.Body, maxBodyBytes), v)
}
