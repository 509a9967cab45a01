package service

import (
	"context"
	"fmt"

	"github.com/obcq/quoter-api/internal/domain"
	"github.com/obcq/quoter-api/internal/pricing"
	"go.uber.org/zap"
)

// FlightSearcher is the provider boundary the service depends on
type FlightSearcher interface {
	Search(ctx context.Context, req domain.FlightSearchRequest) ([]domain.FlightOffer, error)
}

// FlightService runs provider searches and enriches each offer with its
// derived trip-duration facts so the wizard can prefill hotel and
// per-diem quantities.
type FlightService struct {
	client FlightSearcher
	logger *zap.Logger
}

func NewFlightService(client FlightSearcher, logger *zap.Logger) *FlightService {
	return &FlightService{
		client: client,
		logger: logger,
	}
}

// Search returns provider offers with duration facts attached. Provider
// failures surface to the caller; there is no retry.
func (s *FlightService) Search(ctx context.Context, req domain.FlightSearchRequest) (*domain.FlightSearchResponse, error) {
	offers, err := s.client.Search(ctx, req)
	if err != nil {
		s.logger.Warn("flight provider search failed",
			zap.String("origin", req.OriginLocationCode),
			zap.String("destination", req.DestinationLocationCode),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrFlightSearchFailed, err)
	}

	dtos := make([]domain.FlightOfferDTO, len(offers))
	for i, offer := range offers {
		dtos[i] = domain.FlightOfferDTO{
			FlightOffer:   offer,
			DurationFacts: pricing.DeriveDurationFacts(offer),
		}
	}

	return &domain.FlightSearchResponse{Offers: dtos}, nil
}
