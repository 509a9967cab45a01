package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key in application code so the models
// also work on databases without gen_random_uuid() (the sqlite test driver).
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft QuoteStatus = "draft"
	QuoteStatusSent  QuoteStatus = "sent"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (qs QuoteStatus) IsValid() bool {
	switch qs {
	case QuoteStatusDraft, QuoteStatusSent:
		return true
	}
	return false
}

// CostCategory classifies a cost line. The enumeration is open: values
// outside the known set are accepted and roll up into the "other" bucket.
type CostCategory string

const (
	CostCategoryGround  CostCategory = "ground"
	CostCategoryHotel   CostCategory = "hotel"
	CostCategoryMeals   CostCategory = "meals"
	CostCategoryPerDiem CostCategory = "per_diem"
	CostCategoryOther   CostCategory = "other"
)

// MarginType represents how the margin value is interpreted
type MarginType string

const (
	MarginTypePercent MarginType = "percent"
	MarginTypeFixed   MarginType = "fixed"
)

// IsValid checks if the MarginType is a valid enum value
func (mt MarginType) IsValid() bool {
	switch mt {
	case MarginTypePercent, MarginTypeFixed:
		return true
	}
	return false
}

// MarginPolicy describes the markup applied on top of total cost.
// Value is a percentage of total cost for percent, an absolute currency
// amount for fixed. Negative values are allowed (quoting below cost).
type MarginPolicy struct {
	Type  MarginType
	Value float64
}

// Quote represents one on-board-courier price quote (aggregate root)
type Quote struct {
	BaseModel
	CustomerName       string          `gorm:"type:varchar(200);not null;index;column:customer_name"`
	CustomerCompany    string          `gorm:"type:varchar(200);column:customer_company"`
	CustomerContact    string          `gorm:"type:varchar(200);column:customer_contact"`
	OriginCity         string          `gorm:"type:varchar(100);not null;column:origin_city"`
	DestinationCity    string          `gorm:"type:varchar(100);not null;column:destination_city"`
	PickupTime         *time.Time      `gorm:"column:pickup_time"`
	DeliveryDeadline   *time.Time      `gorm:"column:delivery_deadline"`
	PackageDescription string          `gorm:"type:text;column:package_description"`
	WeightKg           float64         `gorm:"type:decimal(10,2);column:weight_kg"`
	Traveler           string          `gorm:"type:varchar(100)"`
	Status             QuoteStatus     `gorm:"type:varchar(50);not null;default:'draft';index"`
	FlightCostTotal    float64         `gorm:"type:decimal(15,2);not null;default:0;column:flight_cost_total"`
	GroundCostTotal    float64         `gorm:"type:decimal(15,2);not null;default:0;column:ground_cost_total"`
	TimeCostTotal      float64         `gorm:"type:decimal(15,2);not null;default:0;column:time_cost_total"`
	OtherCostTotal     float64         `gorm:"type:decimal(15,2);not null;default:0;column:other_cost_total"`
	TotalCost          float64         `gorm:"type:decimal(15,2);not null;default:0;column:total_cost"`
	MarginType         MarginType      `gorm:"type:varchar(50);column:margin_type"`
	MarginValue        float64         `gorm:"type:decimal(15,2);column:margin_value"`
	MarginAmount       float64         `gorm:"type:decimal(15,2);not null;default:0;column:margin_amount"`
	PriceToCustomer    float64         `gorm:"type:decimal(15,2);not null;default:0;column:price_to_customer"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'EUR'"`
	NightsAtDest       int             `gorm:"not null;default:0;column:nights_at_destination"`
	DaysOutTotal       int             `gorm:"not null;default:1;column:days_out_total"`
	InternalNote       string          `gorm:"type:text;column:internal_note"`
	CostItems          []CostItem      `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	FlightSegments     []FlightSegment `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// MarginPolicy returns the margin policy stored on the quote
func (q *Quote) MarginPolicy() MarginPolicy {
	return MarginPolicy{Type: q.MarginType, Value: q.MarginValue}
}

// Route returns the quote's route as "Origin -> Destination"
func (q *Quote) Route() string {
	return q.OriginCity + " -> " + q.DestinationCity
}

// CostItem represents a billable cost line on a quote.
// LineTotal is derived (quantity * unit price) and recomputed on every
// save; a stored value is never trusted over the factors.
type CostItem struct {
	BaseModel
	QuoteID     uuid.UUID    `gorm:"type:uuid;not null;index;column:quote_id"`
	Quote       *Quote       `gorm:"foreignKey:QuoteID"`
	Description string       `gorm:"type:varchar(500);not null"`
	Quantity    float64      `gorm:"type:decimal(10,2)"`
	Unit        string       `gorm:"type:varchar(50)"`
	UnitPrice   float64      `gorm:"type:decimal(15,2);column:unit_price"`
	LineTotal   float64      `gorm:"type:decimal(15,2);column:line_total"`
	Category    CostCategory `gorm:"type:varchar(50);index"`
}

// FlightSegment represents one leg of the selected flight offer,
// flattened from the offer's itineraries when the quote is saved.
type FlightSegment struct {
	BaseModel
	QuoteID        uuid.UUID  `gorm:"type:uuid;not null;index;column:quote_id"`
	Quote          *Quote     `gorm:"foreignKey:QuoteID"`
	FromIATA       string     `gorm:"type:varchar(3);column:from_iata"`
	ToIATA         string     `gorm:"type:varchar(3);column:to_iata"`
	Departure      *time.Time `gorm:"column:departure"`
	Arrival        *time.Time `gorm:"column:arrival"`
	CarrierCode    string     `gorm:"type:varchar(10);column:carrier_code"`
	FlightNumber   string     `gorm:"type:varchar(10);column:flight_number"`
	PriceComponent float64    `gorm:"type:decimal(15,2);column:price_component"`
}

// QuoteTotals is the authoritative derived snapshot of a quote's money
// fields. It is produced only by pricing.Recompute and written as a
// whole; updating individual totals in isolation is an invariant
// violation (stale-totals bug the recompute entry point exists to kill).
type QuoteTotals struct {
	GroundCostTotal float64 `json:"groundCostTotal"`
	OtherCostTotal  float64 `json:"otherCostTotal"`
	FlightCostTotal float64 `json:"flightCostTotal"`
	TimeCostTotal   float64 `json:"timeCostTotal"`
	TotalCost       float64 `json:"totalCost"`
	MarginAmount    float64 `json:"marginAmount"`
	PriceToCustomer float64 `json:"priceToCustomer"`
}

// TripDurationFacts holds the trip-duration figures derived from a
// selected round-trip flight offer. Nights count midnight boundaries at
// the destination (hotel billing unit); days out is the hour-ceiling of
// the full door-to-door duration (per-diem billing unit).
type TripDurationFacts struct {
	NightsAtDestination int `json:"nightsAtDestination"`
	DaysOutTotal        int `json:"daysOutTotal"`
}

// FlightOffer is the slim flight-search result returned by the provider
// integration. The pricing core only reads TotalPrice and the segment
// timestamps.
type FlightOffer struct {
	ID          string      `json:"id"`
	TotalPrice  float64     `json:"totalPrice"`
	Currency    string      `json:"currency"`
	Cabin       string      `json:"cabin,omitempty"`
	Itineraries []Itinerary `json:"itineraries"`
}

// Itinerary is one direction of a journey, composed of one or more segments
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flight leg inside an itinerary
type Segment struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	CarrierCode  string `json:"carrierCode"`
	FlightNumber string `json:"flightNumber"`
}
