// Package pricing is the quote cost/pricing computation engine. All
// functions are pure: they take a full input snapshot and return a full
// output snapshot, so callers can invoke them from any concurrency model
// without locks. The package performs no I/O and never returns an error;
// malformed flight data resolves to documented safe defaults so the
// pricing step can never fail on incomplete input.
package pricing

import (
	"math"
	"time"

	"github.com/obcq/quoter-api/internal/domain"
)

// bucket is the roll-up classification of a cost category
type bucket int

const (
	bucketGround bucket = iota
	bucketOther
)

// categoryBuckets maps cost categories to their roll-up bucket. Bucket
// membership is data, not conditionals: adding a category means adding a
// row here. Categories missing from the table fall into the other bucket,
// keeping the enumeration open.
var categoryBuckets = map[domain.CostCategory]bucket{
	domain.CostCategoryGround:  bucketGround,
	domain.CostCategoryHotel:   bucketOther,
	domain.CostCategoryMeals:   bucketOther,
	domain.CostCategoryPerDiem: bucketOther,
	domain.CostCategoryOther:   bucketOther,
}

func bucketFor(category domain.CostCategory) bucket {
	if b, ok := categoryBuckets[category]; ok {
		return b
	}
	return bucketOther
}

// CostBuckets holds the per-bucket cost subtotals
type CostBuckets struct {
	GroundCostTotal float64
	OtherCostTotal  float64
}

// MarginResult holds the outcome of applying a margin policy
type MarginResult struct {
	MarginAmount    float64
	PriceToCustomer float64
}

// LineTotal derives a cost item's line total from its factors. The stored
// LineTotal field may be stale relative to quantity/unit price, so every
// aggregation path goes through this instead.
func LineTotal(item domain.CostItem) float64 {
	return item.Quantity * item.UnitPrice
}

// Aggregate sums cost lines into ground and other buckets. Line totals
// are freshly derived from quantity and unit price. An empty list yields
// zero for both buckets.
func Aggregate(items []domain.CostItem) CostBuckets {
	var buckets CostBuckets
	for _, item := range items {
		total := LineTotal(item)
		switch bucketFor(item.Category) {
		case bucketGround:
			buckets.GroundCostTotal += total
		default:
			buckets.OtherCostTotal += total
		}
	}
	return buckets
}

// ApplyMargin computes the margin amount and customer price for a total
// cost under the given policy. Negative margin values are deliberately
// not clamped: the operator may quote below cost.
func ApplyMargin(totalCost float64, policy domain.MarginPolicy) MarginResult {
	var amount float64
	switch policy.Type {
	case domain.MarginTypeFixed:
		amount = policy.Value
	default:
		// percent, also the fallback when the type is unset
		amount = totalCost * policy.Value / 100
	}
	return MarginResult{
		MarginAmount:    amount,
		PriceToCustomer: totalCost + amount,
	}
}

// Recompute is the single authoritative totals pipeline. It must be
// called with the full snapshot whenever any contributing input changes:
// a cost line added or edited, the margin policy changed, a flight
// re-selected, or the time cost edited. There is no partial variant.
func Recompute(items []domain.CostItem, flightCostTotal, timeCostTotal float64, policy domain.MarginPolicy) domain.QuoteTotals {
	buckets := Aggregate(items)
	totalCost := flightCostTotal + timeCostTotal + buckets.GroundCostTotal + buckets.OtherCostTotal
	margin := ApplyMargin(totalCost, policy)

	return domain.QuoteTotals{
		GroundCostTotal: buckets.GroundCostTotal,
		OtherCostTotal:  buckets.OtherCostTotal,
		FlightCostTotal: flightCostTotal,
		TimeCostTotal:   timeCostTotal,
		TotalCost:       totalCost,
		MarginAmount:    margin.MarginAmount,
		PriceToCustomer: margin.PriceToCustomer,
	}
}

// defaultDurationFacts is the safe fallback for one-way or malformed
// offers: no nights away, a single day out.
var defaultDurationFacts = domain.TripDurationFacts{
	NightsAtDestination: 0,
	DaysOutTotal:        1,
}

// DeriveDurationFacts computes nights-at-destination and total days out
// from a round-trip flight offer. A one-way offer, or any offer with
// missing or unparseable segment timestamps, yields the fallback defaults
// instead of an error: pricing never fails on incomplete flight data.
//
// Nights use the calendar-date difference between the return arrival and
// the outbound arrival (midnight boundaries, the hotel unit). Days out
// use the hour ceiling of the whole away duration (the per-diem unit).
// Two rounding rules on the same timestamps, on purpose.
func DeriveDurationFacts(offer domain.FlightOffer) domain.TripDurationFacts {
	if len(offer.Itineraries) < 2 {
		return defaultDurationFacts
	}

	outbound := offer.Itineraries[0]
	inbound := offer.Itineraries[len(offer.Itineraries)-1]
	if len(outbound.Segments) == 0 || len(inbound.Segments) == 0 {
		return defaultDurationFacts
	}

	departHome, ok := parseSegmentTime(outbound.Segments[0].Departure)
	if !ok {
		return defaultDurationFacts
	}
	arriveDest, ok := parseSegmentTime(outbound.Segments[len(outbound.Segments)-1].Arrival)
	if !ok {
		return defaultDurationFacts
	}
	arriveHome, ok := parseSegmentTime(inbound.Segments[len(inbound.Segments)-1].Arrival)
	if !ok {
		return defaultDurationFacts
	}

	nights := wholeDaysBetween(dateOf(arriveDest), dateOf(arriveHome))
	if nights < 0 {
		nights = 0
	}

	daysOut := int(math.Ceil(arriveHome.Sub(departHome).Hours() / 24))
	if daysOut < 1 {
		daysOut = 1
	}

	return domain.TripDurationFacts{
		NightsAtDestination: nights,
		DaysOutTotal:        daysOut,
	}
}

// segmentTimeLayouts are the timestamp shapes the flight provider emits:
// RFC 3339 with offset, and local datetime without one.
var segmentTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseSegmentTime(value string) (time.Time, bool) {
	for _, layout := range segmentTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateOf truncates a timestamp to its calendar date, keeping the
// location so the midnight boundary is the traveler's local one.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func wholeDaysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
