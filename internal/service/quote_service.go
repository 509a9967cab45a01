package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/obcq/quoter-api/internal/domain"
	"github.com/obcq/quoter-api/internal/email"
	"github.com/obcq/quoter-api/internal/pricing"
	"github.com/obcq/quoter-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService owns the quote lifecycle. Every save runs the full totals
// recomputation over the submitted snapshot before anything is persisted;
// client-supplied totals are never written.
type QuoteService struct {
	quoteRepo *repository.QuoteRepository
	logger    *zap.Logger
}

func NewQuoteService(quoteRepo *repository.QuoteRepository, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// Save creates the quote when the request has no ID, otherwise performs a
// full update with delete-then-reinsert of the child rows. Totals and
// line totals are recomputed from the snapshot; duration facts are
// derived when a flight offer is selected and otherwise carried over
// from the stored quote.
func (s *QuoteService) Save(ctx context.Context, req *domain.SaveQuoteRequest) (*domain.SaveQuoteResponse, error) {
	status := req.Status
	if status == "" {
		status = domain.QuoteStatusDraft
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !req.MarginType.IsValid() {
		return nil, ErrInvalidMarginType
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	quote := &domain.Quote{
		CustomerName:       req.CustomerName,
		CustomerCompany:    req.CustomerCompany,
		CustomerContact:    req.CustomerContact,
		OriginCity:         req.OriginCity,
		DestinationCity:    req.DestinationCity,
		PickupTime:         req.PickupTime,
		DeliveryDeadline:   req.DeliveryDeadline,
		PackageDescription: req.PackageDescription,
		WeightKg:           req.WeightKg,
		Traveler:           req.Traveler,
		Status:             status,
		Currency:           currency,
		MarginType:         req.MarginType,
		MarginValue:        req.MarginValue,
		InternalNote:       req.InternalNote,
		CostItems:          buildCostItems(req.CostItems),
		FlightSegments:     buildSegments(req.FlightSegments),
	}

	flightCostTotal := req.FlightCostTotal
	facts := domain.TripDurationFacts{NightsAtDestination: 0, DaysOutTotal: 1}

	if req.SelectedOffer != nil {
		// a fresh selection overrides submitted segments and flight cost
		flightCostTotal = req.SelectedOffer.TotalPrice
		facts = pricing.DeriveDurationFacts(*req.SelectedOffer)
		quote.FlightSegments = flattenOffer(*req.SelectedOffer)
	} else if req.ID != nil {
		// no re-selection: carry the stored facts, do not re-derive
		existing, err := s.quoteRepo.GetByID(ctx, *req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQuoteNotFound
			}
			return nil, fmt.Errorf("failed to load quote: %w", err)
		}
		facts = domain.TripDurationFacts{
			NightsAtDestination: existing.NightsAtDest,
			DaysOutTotal:        existing.DaysOutTotal,
		}
	}

	quote.NightsAtDest = facts.NightsAtDestination
	quote.DaysOutTotal = facts.DaysOutTotal

	totals := pricing.Recompute(quote.CostItems, flightCostTotal, req.TimeCostTotal, quote.MarginPolicy())
	applyTotals(quote, totals)

	if req.ID == nil {
		if err := s.quoteRepo.Create(ctx, quote); err != nil {
			return nil, fmt.Errorf("failed to create quote: %w", err)
		}
		s.logger.Info("quote created",
			zap.String("quote_id", quote.ID.String()),
			zap.String("route", quote.Route()),
			zap.Float64("price", quote.PriceToCustomer),
		)
		return &domain.SaveQuoteResponse{ID: quote.ID}, nil
	}

	quote.ID = *req.ID
	if err := s.quoteRepo.Replace(ctx, quote); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	s.logger.Info("quote updated",
		zap.String("quote_id", quote.ID.String()),
		zap.String("status", string(quote.Status)),
		zap.Float64("price", quote.PriceToCustomer),
	)
	return &domain.SaveQuoteResponse{ID: quote.ID}, nil
}

// Get returns one quote with its cost items and flight segments
func (s *QuoteService) Get(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	dto := toQuoteDTO(quote)
	return &dto, nil
}

// List returns quote summaries, newest first
func (s *QuoteService) List(ctx context.Context) ([]domain.QuoteSummaryDTO, error) {
	quotes, err := s.quoteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	summaries := make([]domain.QuoteSummaryDTO, len(quotes))
	for i, q := range quotes {
		summaries[i] = domain.QuoteSummaryDTO{
			ID:              q.ID,
			CreatedAt:       q.CreatedAt.Format(time.RFC3339),
			CustomerName:    q.CustomerName,
			CustomerCompany: q.CustomerCompany,
			OriginCity:      q.OriginCity,
			DestinationCity: q.DestinationCity,
			PriceToCustomer: q.PriceToCustomer,
			Currency:        q.Currency,
			Status:          q.Status,
		}
	}
	return summaries, nil
}

// EmailDraft renders the customer-facing email for a stored quote
func (s *QuoteService) EmailDraft(ctx context.Context, id uuid.UUID) (*domain.EmailDraftResponse, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}

	draft, err := email.Draft(quote)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// buildCostItems maps request lines to models. Line totals are derived
// here once so the stored value matches quantity * unit price at rest;
// the aggregator re-derives them anyway and never trusts this field.
func buildCostItems(reqs []domain.SaveCostItemRequest) []domain.CostItem {
	items := make([]domain.CostItem, len(reqs))
	for i, r := range reqs {
		category := r.Category
		if category == "" {
			category = domain.CostCategoryOther
		}
		items[i] = domain.CostItem{
			Description: r.Description,
			Quantity:    r.Quantity,
			Unit:        r.Unit,
			UnitPrice:   r.UnitPrice,
			LineTotal:   r.Quantity * r.UnitPrice,
			Category:    category,
		}
	}
	return items
}

func buildSegments(reqs []domain.SaveSegmentRequest) []domain.FlightSegment {
	segments := make([]domain.FlightSegment, len(reqs))
	for i, r := range reqs {
		segments[i] = domain.FlightSegment{
			FromIATA:       r.From,
			ToIATA:         r.To,
			Departure:      r.Departure,
			Arrival:        r.Arrival,
			CarrierCode:    r.CarrierCode,
			FlightNumber:   r.FlightNumber,
			PriceComponent: r.PriceComponent,
		}
	}
	return segments
}

// flattenOffer turns the selected offer's itineraries into the stored
// flight segment rows
func flattenOffer(offer domain.FlightOffer) []domain.FlightSegment {
	var segments []domain.FlightSegment
	for _, itinerary := range offer.Itineraries {
		for _, seg := range itinerary.Segments {
			segment := domain.FlightSegment{
				FromIATA:     seg.From,
				ToIATA:       seg.To,
				CarrierCode:  seg.CarrierCode,
				FlightNumber: seg.FlightNumber,
			}
			if t, ok := parseOfferTime(seg.Departure); ok {
				segment.Departure = &t
			}
			if t, ok := parseOfferTime(seg.Arrival); ok {
				segment.Arrival = &t
			}
			segments = append(segments, segment)
		}
	}
	return segments
}

var offerTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseOfferTime(value string) (time.Time, bool) {
	for _, layout := range offerTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// applyTotals writes one complete QuoteTotals snapshot onto the quote
func applyTotals(quote *domain.Quote, totals domain.QuoteTotals) {
	quote.GroundCostTotal = totals.GroundCostTotal
	quote.OtherCostTotal = totals.OtherCostTotal
	quote.FlightCostTotal = totals.FlightCostTotal
	quote.TimeCostTotal = totals.TimeCostTotal
	quote.TotalCost = totals.TotalCost
	quote.MarginAmount = totals.MarginAmount
	quote.PriceToCustomer = totals.PriceToCustomer
}

func toQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	dto := domain.QuoteDTO{
		ID:                 quote.ID,
		CreatedAt:          quote.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          quote.UpdatedAt.Format(time.RFC3339),
		CustomerName:       quote.CustomerName,
		CustomerCompany:    quote.CustomerCompany,
		CustomerContact:    quote.CustomerContact,
		OriginCity:         quote.OriginCity,
		DestinationCity:    quote.DestinationCity,
		PickupTime:         quote.PickupTime,
		DeliveryDeadline:   quote.DeliveryDeadline,
		PackageDescription: quote.PackageDescription,
		WeightKg:           quote.WeightKg,
		Traveler:           quote.Traveler,
		Status:             quote.Status,
		Currency:           quote.Currency,
		MarginType:         quote.MarginType,
		MarginValue:        quote.MarginValue,
		InternalNote:       quote.InternalNote,
		Totals: domain.QuoteTotals{
			GroundCostTotal: quote.GroundCostTotal,
			OtherCostTotal:  quote.OtherCostTotal,
			FlightCostTotal: quote.FlightCostTotal,
			TimeCostTotal:   quote.TimeCostTotal,
			TotalCost:       quote.TotalCost,
			MarginAmount:    quote.MarginAmount,
			PriceToCustomer: quote.PriceToCustomer,
		},
		DurationFacts: domain.TripDurationFacts{
			NightsAtDestination: quote.NightsAtDest,
			DaysOutTotal:        quote.DaysOutTotal,
		},
		CostItems:      make([]domain.CostItemDTO, len(quote.CostItems)),
		FlightSegments: make([]domain.FlightSegmentDTO, len(quote.FlightSegments)),
	}

	for i, item := range quote.CostItems {
		dto.CostItems[i] = domain.CostItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Category:    item.Category,
		}
	}
	for i, seg := range quote.FlightSegments {
		dto.FlightSegments[i] = domain.FlightSegmentDTO{
			ID:             seg.ID,
			From:           seg.FromIATA,
			To:             seg.ToIATA,
			Departure:      seg.Departure,
			Arrival:        seg.Arrival,
			CarrierCode:    seg.CarrierCode,
			FlightNumber:   seg.FlightNumber,
			PriceComponent: seg.PriceComponent,
		}
	}

	return dto
}
