package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/obcq/quoter-api/internal/domain"
	"github.com/obcq/quoter-api/internal/service"
	"go.uber.org/zap"
)

type FlightHandler struct {
	flightService *service.FlightService
	logger        *zap.Logger
}

func NewFlightHandler(flightService *service.FlightService, logger *zap.Logger) *FlightHandler {
	return &FlightHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// Search handles POST /api/flights/search
func (h *FlightHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req domain.FlightSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.flightService.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrFlightSearchFailed) {
			respondWithError(w, http.StatusBadGateway, "Flight search failed")
			return
		}
		h.logger.Error("flight search failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Flight search failed")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
