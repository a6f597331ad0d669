package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/service"
)

type BookHandler struct {
	bookService *service.BookService
	log         *zap.Logger
}

func NewBookHandler(bookService *service.BookService, log *zap.Logger) *BookHandler {
	return &BookHandler{bookService: bookService, log: log}
}

func (h *BookHandler) ByISBN(w http.ResponseWriter, r *http.Request) {
	defer h.timed("book by isbn", time.Now())

	book, err := h.bookService.ByISBN(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.bookError(w, "book by isbn", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) ByOLID(w http.ResponseWriter, r *http.Request) {
	defer h.timed("book by olid", time.Now())

	book, err := h.bookService.ByOLID(r.Context(), r.PathValue("olid"))
	if err != nil {
		h.bookError(w, "book by olid", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	defer h.timed("book search", time.Now())

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "QUERY_REQUIRED", "Query parameter q is required")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_PAGE", "Page must be an integer")
			return
		}
		page = n
	}

	results, err := h.bookService.Search(r.Context(), query, page)
	if err != nil {
		h.bookError(w, "book search", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *BookHandler) timed(op string, start time.Time) {
	h.log.Info("book lookup", zap.String("op", op), zap.Duration("took", time.Since(start)))
}

func (h *BookHandler) bookError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
	case errors.Is(err, service.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Book metadata service unavailable")
	default:
		internalError(w, h.log, op, err)
	}
}
