package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"loanapi/internal/book"
	"loanapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Request ids arrive as JSON numbers or numeric strings depending on the
// client, so the DTO keeps them loose and coerces below.
type borrowRequest struct {
	UserID any `json:"user_id"`
	BookID any `json:"book_id"`
	Days   any `json:"days"`
}

type returnRequest struct {
	BookID any `json:"book_id"`
}

// coerceID accepts a JSON number or a numeric string. Zero means absent or
// malformed; the coordinator rejects those as invalid input.
func coerceID(v any) int64 {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// coerceDays is deliberately permissive: anything that is not a positive
// whole number means "no due date" rather than a rejected request.
func coerceDays(v any) int {
	switch t := v.(type) {
	case float64:
		if t > 0 && t == float64(int(t)) {
			return int(t)
		}
	case string:
		if n, err := strconv.Atoi(t); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Borrow handles POST /api/borrow
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	userID := coerceID(req.UserID)
	bookID := coerceID(req.BookID)
	days := coerceDays(req.Days)

	created, err := h.service.Borrow(r.Context(), httpx.ClientKey(r), userID, bookID, days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, map[string]any{"loan_id": created.ID})
}

// Return handles POST /api/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	closed, err := h.service.Return(r.Context(), coerceID(req.BookID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{"loan_id": closed.ID}, nil)
}

// List handles GET /api/loans
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var f Filter
	if raw := query.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id must be an integer", nil)
			return
		}
		f.UserID = &id
	}
	if raw := query.Get("open"); raw == "true" || raw == "false" {
		open := raw == "true"
		f.OpenOnly = &open
	}

	loans, err := h.service.Loans(r.Context(), f)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}

	httpx.JSONSuccess(w, r, loans, map[string]any{"count": len(loans)})
}

// Overdue handles GET /api/overdue
func (h *HTTPHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.Overdue(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}

	httpx.JSONSuccess(w, r, loans, map[string]any{"count": len(loans)})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrRateLimited):
		httpx.JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many borrow requests, retry later", nil)
	case errors.Is(err, ErrInvalidRequest):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Missing user_id or book_id", nil)
	case errors.Is(err, ErrUserNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrBookUnavailable):
		httpx.JSONError(w, r, http.StatusConflict, "BOOK_UNAVAILABLE", "Book not available", nil)
	case errors.Is(err, ErrAlreadyOnLoan):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_ON_LOAN", "Book already on loan", nil)
	case errors.Is(err, ErrBookNotBorrowed):
		httpx.JSONError(w, r, http.StatusConflict, "BOOK_NOT_BORROWED", "Book not borrowed", nil)
	case errors.Is(err, ErrNoOpenLoan):
		httpx.JSONError(w, r, http.StatusConflict, "NO_OPEN_LOAN", "No open loan for this book", nil)
	case errors.Is(err, ErrUserLookupFailed):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Could not reach users service", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
