package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/obcq/quoter-api/internal/domain"
	"github.com/obcq/quoter-api/internal/service"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// List handles GET /api/quotes
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.quoteService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch quotes")
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/quotes/{id}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to get quote", zap.String("quote_id", id.String()), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Save handles POST /api/quotes — create when the body has no id,
// otherwise a full update replacing cost items and flight segments
func (h *QuoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.quoteService.Save(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuoteNotFound):
			respondWithError(w, http.StatusNotFound, "Quote not found")
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidMarginType):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to save quote", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to save quote")
		}
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// EmailDraft handles GET /api/quotes/{id}/email-draft
func (h *QuoteHandler) EmailDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID")
		return
	}

	draft, err := h.quoteService.EmailDraft(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to render email draft", zap.String("quote_id", id.String()), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to render email draft")
		return
	}
	respondJSON(w, http.StatusOK, draft)
}
