// Package httpapi exposes the credential service over HTTP. The wire
// contract (paths, bodies, status codes, message texts) is the one the
// service has always had, so existing clients keep working.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akozlov/custhub/internal/common"
	"github.com/akozlov/custhub/internal/iam/auth"
	"github.com/akozlov/custhub/internal/iam/models"
	"github.com/akozlov/custhub/internal/logging"
)

// Credentials is the orchestrator surface the handler needs.
type Credentials interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context)
}

// Handler wires the HTTP auth endpoints to the credential service.
type Handler struct {
	log   logging.Logger
	creds Credentials

	// checkReady reports whether the durable store is reachable; used by the
	// readiness probe only.
	checkReady func(ctx context.Context) error
}

func NewHandler(log logging.Logger, creds Credentials, checkReady func(ctx context.Context) error) *Handler {
	return &Handler{
		log:        log.With("module", "httpapi"),
		creds:      creds,
		checkReady: checkReady,
	}
}

// Register wires the auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/validate", h.handleValidate)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/health/live", h.handleLive)
	mux.HandleFunc("/health/ready", h.handleReady)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validateRequest struct {
	Token string `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type claimsResponse struct {
	Valid bool       `json:"valid"`
	User  claimsUser `json:"user"`
}

type claimsUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		h.log.Error(ctx, "malformed request body", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	_, err := h.creds.Register(ctx, req.Username, req.Password)
	switch {
	case err == nil:
		h.log.Info(ctx, "user created", "username", req.Username)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("User created"))
	case errors.Is(err, common.ErrorInvalidInput):
		http.Error(w, "Username and password are required", http.StatusBadRequest)
	case errors.Is(err, common.ErrorUsernameTaken):
		h.log.Warn(ctx, "registration failed: username already exists", "username", req.Username)
		http.Error(w, "Username already exists", http.StatusConflict)
	default:
		h.log.Error(ctx, "registration failed", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		h.log.Error(ctx, "malformed request body", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	token, err := h.creds.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
		h.log.Info(ctx, "user logged in", "username", req.Username)
		writeJSON(w, http.StatusOK, tokenResponse{Token: token})
	case errors.Is(err, common.ErrorInvalidCredentials):
		h.log.Warn(ctx, "invalid login attempt", "username", req.Username)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	default:
		h.log.Error(ctx, "login failed", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req validateRequest
	if err := decodeBody(r, &req); err != nil {
		h.log.Error(ctx, "malformed request body", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	claims, err := h.creds.ValidateToken(ctx, req.Token)
	switch {
	case err == nil:
		h.log.Info(ctx, "token validated", "username", claims.Username)
		writeJSON(w, http.StatusOK, claimsResponse{
			Valid: true,
			User:  claimsUser{ID: claims.UserID, Username: claims.Username},
		})
	case errors.Is(err, common.ErrorMissingToken):
		h.log.Warn(ctx, "token validation attempt with no token provided")
		http.Error(w, "No token provided", http.StatusUnauthorized)
	default:
		h.log.Warn(ctx, "invalid token provided for validation")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	h.creds.Logout(r.Context())
	h.log.Info(r.Context(), "user logged out")
	_, _ = w.Write([]byte("Logged out successfully"))
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("Live"))
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.checkReady(r.Context()); err != nil {
		h.log.Error(r.Context(), "readiness probe failed", "error", err.Error())
		http.Error(w, "Not Ready", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("Ready"))
}

// decodeBody parses the JSON request body into dst. An empty body is not an
// error: dst stays zero-valued, same as posting an empty JSON object.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
