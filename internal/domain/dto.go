package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuoteSummaryDTO is the list-view projection of a quote
type QuoteSummaryDTO struct {
	ID              uuid.UUID   `json:"id"`
	CreatedAt       string      `json:"createdAt"` // ISO 8601
	CustomerName    string      `json:"customerName"`
	CustomerCompany string      `json:"customerCompany,omitempty"`
	OriginCity      string      `json:"originCity"`
	DestinationCity string      `json:"destinationCity"`
	PriceToCustomer float64     `json:"priceToCustomer"`
	Currency        string      `json:"currency"`
	Status          QuoteStatus `json:"status"`
}

// QuoteDTO is the full API representation of a quote with its children
type QuoteDTO struct {
	ID                 uuid.UUID          `json:"id"`
	CreatedAt          string             `json:"createdAt"`
	UpdatedAt          string             `json:"updatedAt"`
	CustomerName       string             `json:"customerName"`
	CustomerCompany    string             `json:"customerCompany,omitempty"`
	CustomerContact    string             `json:"customerContact,omitempty"`
	OriginCity         string             `json:"originCity"`
	DestinationCity    string             `json:"destinationCity"`
	PickupTime         *time.Time         `json:"pickupTime,omitempty"`
	DeliveryDeadline   *time.Time         `json:"deliveryDeadline,omitempty"`
	PackageDescription string             `json:"packageDescription,omitempty"`
	WeightKg           float64            `json:"weightKg,omitempty"`
	Traveler           string             `json:"traveler,omitempty"`
	Status             QuoteStatus        `json:"status"`
	Currency           string             `json:"currency"`
	MarginType         MarginType         `json:"marginType"`
	MarginValue        float64            `json:"marginValue"`
	Totals             QuoteTotals        `json:"totals"`
	DurationFacts      TripDurationFacts  `json:"durationFacts"`
	InternalNote       string             `json:"internalNote,omitempty"`
	CostItems          []CostItemDTO      `json:"costItems"`
	FlightSegments     []FlightSegmentDTO `json:"flightSegments"`
}

// CostItemDTO is the API representation of a cost line
type CostItemDTO struct {
	ID          uuid.UUID    `json:"id,omitempty"`
	Description string       `json:"description"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit,omitempty"`
	UnitPrice   float64      `json:"unitPrice"`
	LineTotal   float64      `json:"lineTotal"`
	Category    CostCategory `json:"category"`
}

// FlightSegmentDTO is the API representation of a stored flight leg
type FlightSegmentDTO struct {
	ID             uuid.UUID  `json:"id,omitempty"`
	From           string     `json:"from"`
	To             string     `json:"to"`
	Departure      *time.Time `json:"departure,omitempty"`
	Arrival        *time.Time `json:"arrival,omitempty"`
	CarrierCode    string     `json:"carrierCode,omitempty"`
	FlightNumber   string     `json:"flightNumber,omitempty"`
	PriceComponent float64    `json:"priceComponent,omitempty"`
}

// SaveQuoteRequest creates a quote when ID is nil, otherwise performs a
// full update. The request carries the complete current snapshot: child
// cost items and flight segments replace whatever is stored
// (delete-then-reinsert, never a merge). Totals are not accepted from
// the client; they are recomputed server-side from the snapshot.
type SaveQuoteRequest struct {
	ID                 *uuid.UUID              `json:"id,omitempty"`
	CustomerName       string                  `json:"customerName" validate:"required,max=200"`
	CustomerCompany    string                  `json:"customerCompany,omitempty" validate:"max=200"`
	CustomerContact    string                  `json:"customerContact,omitempty" validate:"max=200"`
	OriginCity         string                  `json:"originCity" validate:"required,max=100"`
	DestinationCity    string                  `json:"destinationCity" validate:"required,max=100"`
	PickupTime         *time.Time              `json:"pickupTime,omitempty"`
	DeliveryDeadline   *time.Time              `json:"deliveryDeadline,omitempty"`
	PackageDescription string                  `json:"packageDescription,omitempty"`
	WeightKg           float64                 `json:"weightKg,omitempty"`
	Traveler           string                  `json:"traveler,omitempty" validate:"max=100"`
	Status             QuoteStatus             `json:"status,omitempty"`
	Currency           string                  `json:"currency,omitempty" validate:"omitempty,len=3"`
	FlightCostTotal    float64                 `json:"flightCostTotal"`
	TimeCostTotal      float64                 `json:"timeCostTotal"`
	MarginType         MarginType              `json:"marginType" validate:"required,oneof=percent fixed"`
	MarginValue        float64                 `json:"marginValue"`
	InternalNote       string                  `json:"internalNote,omitempty"`
	CostItems          []SaveCostItemRequest   `json:"costItems,omitempty" validate:"dive"`
	FlightSegments     []SaveSegmentRequest    `json:"flightSegments,omitempty" validate:"dive"`
	SelectedOffer      *FlightOffer            `json:"selectedOffer,omitempty"`
}

// SaveCostItemRequest is one cost line in a save request. LineTotal is
// intentionally absent: it is always derived server-side.
type SaveCostItemRequest struct {
	Description string       `json:"description" validate:"required,max=500"`
	Quantity    float64      `json:"quantity"`
	Unit        string       `json:"unit,omitempty" validate:"max=50"`
	UnitPrice   float64      `json:"unitPrice"`
	Category    CostCategory `json:"category,omitempty"`
}

// SaveSegmentRequest is one flight leg in a save request
type SaveSegmentRequest struct {
	From           string     `json:"from" validate:"max=3"`
	To             string     `json:"to" validate:"max=3"`
	Departure      *time.Time `json:"departure,omitempty"`
	Arrival        *time.Time `json:"arrival,omitempty"`
	CarrierCode    string     `json:"carrierCode,omitempty" validate:"max=10"`
	FlightNumber   string     `json:"flightNumber,omitempty" validate:"max=10"`
	PriceComponent float64    `json:"priceComponent,omitempty"`
}

// SaveQuoteResponse is returned from POST /api/quotes
type SaveQuoteResponse struct {
	ID uuid.UUID `json:"id"`
}

// FlightSearchRequest mirrors the provider's flight-offers search inputs
type FlightSearchRequest struct {
	OriginLocationCode      string `json:"originLocationCode" validate:"required,len=3,alpha"`
	DestinationLocationCode string `json:"destinationLocationCode" validate:"required,len=3,alpha"`
	DepartureDate           string `json:"departureDate" validate:"required,datetime=2006-01-02"`
	ReturnDate              string `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Adults                  int    `json:"adults" validate:"omitempty,gte=1,lte=9"`
	TravelClass             string `json:"travelClass,omitempty" validate:"omitempty,oneof=ECONOMY PREMIUM_ECONOMY BUSINESS FIRST"`
}

// FlightOfferDTO pairs a provider offer with its derived duration facts
// so the wizard can prefill hotel/per-diem quantities on selection.
type FlightOfferDTO struct {
	FlightOffer
	DurationFacts TripDurationFacts `json:"durationFacts"`
}

// FlightSearchResponse is returned from POST /api/flights/search
type FlightSearchResponse struct {
	Offers []FlightOfferDTO `json:"offers"`
}

// EmailDraftResponse carries the rendered customer-facing email draft
type EmailDraftResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
