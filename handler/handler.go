// Package handler provides the HTTP handlers for the user API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stevemurr/simple-user-server/store"
	"github.com/stevemurr/simple-user-server/users"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handler holds the server dependencies and registers routes.
type Handler struct {
	users *users.Service
	log   *slog.Logger
	mux   *http.ServeMux
}

// New creates a Handler over s and wires up all routes.
func New(s store.Store, log *slog.Logger) *Handler {
	h := &Handler{users: users.NewService(s), log: log, mux: http.NewServeMux()}
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	// Health / status
	h.mux.HandleFunc("GET /", h.root)
	h.mux.HandleFunc("GET /health", h.health)

	h.mux.HandleFunc("GET /api/users", h.listUsers)
	h.mux.HandleFunc("GET /api/users/{id}", h.getUser)
	h.mux.HandleFunc("POST /api/users", h.createUser)
	h.mux.HandleFunc("PUT /api/users/{id}", h.replaceUser)
	h.mux.HandleFunc("PATCH /api/users/{id}", h.patchUser)
	h.mux.HandleFunc("DELETE /api/users/{id}", h.deleteUser)
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// statusFor maps an error kind to its HTTP status.
func statusFor(k users.Kind) int {
	switch k {
	case users.KindInvalidID, users.KindInvalidBody, users.KindMissingField,
		users.KindInvalidEmailFormat, users.KindEmptyPatch:
		return http.StatusBadRequest
	case users.KindNotFound:
		return http.StatusNotFound
	case users.KindEmailConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error response. Server-side failures are
// logged with their cause; clients only see a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var uerr *users.Error
	if !errors.As(err, &uerr) {
		uerr = &users.Error{Kind: users.KindStorageFailure, Message: users.ErrStorageFailure.Message, Err: err}
	}
	status := statusFor(uerr.Kind)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"kind", string(uerr.Kind),
			"err", uerr.Err,
		)
	}
	writeError(w, status, uerr.Message)
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	// Only match exact root path
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Simple User Server",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ---------- users ----------

type createdResponse struct {
	Message string     `json:"message"`
	NewUser store.User `json:"newUser"`
}

type deletedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type deletedResponse struct {
	Message string      `json:"message"`
	User    deletedUser `json:"user"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	all, err := h.users.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if all == nil {
		all = []store.User{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, users.OpCreate)
}

func (h *Handler) replaceUser(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, users.OpReplace)
}

func (h *Handler) patchUser(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, users.OpPatch)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, users.OpDelete)
}

// mutate runs one mutating request through the users pipeline and
// shapes the response for op.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op users.Op) {
	req := users.Request{Op: op, ID: r.PathValue("id")}
	if op != users.OpDelete {
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, users.ErrInvalidBody.Message)
			return
		}
		req.Body = body
	}

	u, err := h.users.Do(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch op {
	case users.OpCreate:
		writeJSON(w, http.StatusCreated, createdResponse{Message: "user created successfully", NewUser: u})
	case users.OpDelete:
		writeJSON(w, http.StatusOK, deletedResponse{
			Message: "user deleted successfully",
			User:    deletedUser{Name: u.Name, Email: u.Email},
		})
	default:
		writeJSON(w, http.StatusOK, u)
	}
}
