package handlers

import (
	"bytes"
	"net/http"

	log "github.com/sirupsen/logrus"

	"image-gallery/pkg/services"
)

// Handler serves the preview endpoints for one service
type Handler struct {
	service *services.Service
}

// New creates a handler backed by the given service
func New(service *services.Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the preview endpoints on mux
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/feed", h.FeedHandler)
	mux.HandleFunc("/index", h.IndexHandler)
	mux.HandleFunc("/refresh", h.RefreshHandler)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Unable to write healthcheck: %v", err)
		}
	})
}

// FeedHandler handles requests for the gallery manifest (JSON)
func (h *Handler) FeedHandler(w http.ResponseWriter, _ *http.Request) {
	log.Println("Generating Feed")

	gallery, err := h.service.GetGalleryInternal()
	if err != nil {
		log.Printf("Error building gallery: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := services.EncodeManifest(&buf, gallery); err != nil {
		log.Printf("Error encoding gallery: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return
	}
}

// IndexHandler handles requests for the rendered index page
func (h *Handler) IndexHandler(w http.ResponseWriter, _ *http.Request) {
	log.Println("Generating Index")

	gallery, err := h.service.GetGalleryInternal()
	if err != nil {
		log.Printf("Error building gallery: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderIndex(&buf, h.service.Index(gallery), h.service.Template()); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return
	}
}

// RefreshHandler drops the cached gallery so the next request rebuilds it
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	log.Println("Refreshing gallery")
	h.service.Refresh()
	w.WriteHeader(http.StatusNoContent)
}
