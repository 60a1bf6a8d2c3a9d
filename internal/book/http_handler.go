package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"loanapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Missing title", details)
		return
	}

	created, err := h.service.Create(r.Context(), req.Title, req.Author)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Missing title", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, created)
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	var status Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = Status(strings.ToUpper(raw))
		if !status.Valid() {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Unknown status filter", nil)
			return
		}
	}

	books, err := h.service.List(r.Context(), status)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if books == nil {
		books = []Book{}
	}

	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}
