// Package httpapi exposes the upload passthrough over HTTP: it accepts a
// bounded-size binary payload, forwards it to the object store under a fresh
// unique name, and returns the resulting public address.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/akozlov/custhub/internal/logging"
	"github.com/akozlov/custhub/internal/media/storage"
)

// Store is the object-store surface the handler needs.
type Store interface {
	Upload(ctx context.Context, key, contentType string, payload []byte) (string, error)
	CheckBucket(ctx context.Context) error
}

type Handler struct {
	log      logging.Logger
	store    Store
	maxBytes int64

	// uploadTimeout bounds the store round trip per request; zero means no
	// deadline.
	uploadTimeout time.Duration
}

func NewHandler(log logging.Logger, store Store, maxBytes int64, uploadTimeout time.Duration) *Handler {
	return &Handler{
		log:           log.With("module", "httpapi"),
		store:         store,
		maxBytes:      maxBytes,
		uploadTimeout: uploadTimeout,
	}
}

// Register wires the upload routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/upload", h.handleUpload)
	mux.HandleFunc("/health/live", h.handleLive)
	mux.HandleFunc("/health/ready", h.handleReady)
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warn(ctx, "upload rejected: payload too large")
			http.Error(w, "File too large", http.StatusBadRequest)
			return
		}
		h.log.Warn(ctx, "no file uploaded")
		http.Error(w, "No file uploaded.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warn(ctx, "upload rejected: payload too large")
			http.Error(w, "File too large", http.StatusBadRequest)
			return
		}
		h.log.Error(ctx, "error reading upload", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	key := storage.RandomObjectKey(header.Filename)
	contentType := header.Header.Get("Content-Type")

	if h.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.uploadTimeout)
		defer cancel()
	}

	url, err := h.store.Upload(ctx, key, contentType, payload)
	if err != nil {
		h.log.Error(ctx, "error uploading to object store", "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.log.Info(ctx, "file uploaded", "filename", header.Filename, "key", key)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(uploadResponse{URL: url})
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("Live"))
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.CheckBucket(r.Context()); err != nil {
		h.log.Error(r.Context(), "readiness probe failed", "error", err.Error())
		http.Error(w, "Not Ready", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("Ready"))
}
