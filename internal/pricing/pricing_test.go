package pricing

import (
	"testing"

	"github.com/obcq/quoter-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func item(category domain.CostCategory, quantity, unitPrice float64) domain.CostItem {
	return domain.CostItem{
		Description: "test line",
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Category:    category,
	}
}

func TestAggregate_EmptyListYieldsZeroBuckets(t *testing.T) {
	buckets := Aggregate(nil)

	assert.Zero(t, buckets.GroundCostTotal)
	assert.Zero(t, buckets.OtherCostTotal)
}

func TestAggregate_SplitsGroundFromOther(t *testing.T) {
	items := []domain.CostItem{
		item(domain.CostCategoryGround, 2, 30),
		item(domain.CostCategoryHotel, 3, 120),
		item(domain.CostCategoryPerDiem, 4, 50),
		item(domain.CostCategoryGround, 1, 15),
	}

	buckets := Aggregate(items)

	assert.InDelta(t, 75, buckets.GroundCostTotal, 1e-9)
	assert.InDelta(t, 560, buckets.OtherCostTotal, 1e-9)
}

func TestAggregate_UnknownCategoryFallsIntoOther(t *testing.T) {
	items := []domain.CostItem{
		item(domain.CostCategory("visa_fee"), 1, 80),
		item(domain.CostCategory(""), 2, 10),
	}

	buckets := Aggregate(items)

	assert.Zero(t, buckets.GroundCostTotal)
	assert.InDelta(t, 100, buckets.OtherCostTotal, 1e-9)
}

func TestAggregate_IgnoresStaleLineTotal(t *testing.T) {
	stale := item(domain.CostCategoryGround, 2, 30)
	stale.LineTotal = 9999 // stale relative to quantity * unit price

	buckets := Aggregate([]domain.CostItem{stale})

	assert.InDelta(t, 60, buckets.GroundCostTotal, 1e-9)
}

func TestAggregate_BucketSumEqualsLineSum(t *testing.T) {
	items := []domain.CostItem{
		item(domain.CostCategoryGround, 2, 30),
		item(domain.CostCategoryMeals, -1, 25),
		item(domain.CostCategory("customs"), 3, 7.5),
		item(domain.CostCategoryOther, 0, 100),
	}

	buckets := Aggregate(items)

	var lineSum float64
	for _, it := range items {
		lineSum += LineTotal(it)
	}
	assert.InDelta(t, lineSum, buckets.GroundCostTotal+buckets.OtherCostTotal, 1e-9)
}

func TestApplyMargin_Percent(t *testing.T) {
	result := ApplyMargin(560, domain.MarginPolicy{Type: domain.MarginTypePercent, Value: 30})

	assert.InDelta(t, 168, result.MarginAmount, 1e-9)
	assert.InDelta(t, 728, result.PriceToCustomer, 1e-9)
}

func TestApplyMargin_PercentRoundTrip(t *testing.T) {
	for _, value := range []float64{0, 12.5, 30, 100, -20} {
		result := ApplyMargin(400, domain.MarginPolicy{Type: domain.MarginTypePercent, Value: value})
		assert.InDelta(t, 1+value/100, result.PriceToCustomer/400, 1e-9)
	}
}

func TestApplyMargin_PercentOnZeroCostIsZero(t *testing.T) {
	result := ApplyMargin(0, domain.MarginPolicy{Type: domain.MarginTypePercent, Value: 30})

	assert.Zero(t, result.MarginAmount)
	assert.Zero(t, result.PriceToCustomer)
}

func TestApplyMargin_NegativeFixedIsNotClamped(t *testing.T) {
	// quoting below cost is allowed
	result := ApplyMargin(200, domain.MarginPolicy{Type: domain.MarginTypeFixed, Value: -50})

	assert.InDelta(t, -50, result.MarginAmount, 1e-9)
	assert.InDelta(t, 150, result.PriceToCustomer, 1e-9)
}

func TestApplyMargin_FixedAddsAbsoluteAmount(t *testing.T) {
	result := ApplyMargin(1234.5, domain.MarginPolicy{Type: domain.MarginTypeFixed, Value: 99.5})

	assert.InDelta(t, 99.5, result.MarginAmount, 1e-9)
	assert.InDelta(t, 1334, result.PriceToCustomer, 1e-9)
}

func TestRecompute_OneWayOfferScenario(t *testing.T) {
	// one-way offer at 500, single ground line 2 x 30, 30% margin
	items := []domain.CostItem{item(domain.CostCategoryGround, 2, 30)}
	policy := domain.MarginPolicy{Type: domain.MarginTypePercent, Value: 30}

	totals := Recompute(items, 500, 0, policy)

	assert.InDelta(t, 60, totals.GroundCostTotal, 1e-9)
	assert.Zero(t, totals.OtherCostTotal)
	assert.InDelta(t, 560, totals.TotalCost, 1e-9)
	assert.InDelta(t, 168, totals.MarginAmount, 1e-9)
	assert.InDelta(t, 728, totals.PriceToCustomer, 1e-9)
}

func TestRecompute_EmptyItemsFlightOnly(t *testing.T) {
	totals := Recompute(nil, 300, 0, domain.MarginPolicy{Type: domain.MarginTypePercent, Value: 0})

	assert.InDelta(t, 300, totals.TotalCost, 1e-9)
	assert.Zero(t, totals.MarginAmount)
	assert.InDelta(t, 300, totals.PriceToCustomer, 1e-9)
}

func TestRecompute_TotalCostIncludesAllComponents(t *testing.T) {
	items := []domain.CostItem{
		item(domain.CostCategoryGround, 1, 40),
		item(domain.CostCategoryHotel, 2, 110),
	}

	totals := Recompute(items, 820, 150, domain.MarginPolicy{Type: domain.MarginTypeFixed, Value: 200})

	assert.InDelta(t, 820+150+40+220, totals.TotalCost, 1e-9)
	assert.InDelta(t, totals.TotalCost+200, totals.PriceToCustomer, 1e-9)
}

func TestRecompute_IsIdempotent(t *testing.T) {
	items := []domain.CostItem{
		item(domain.CostCategoryGround, 3, 22),
		item(domain.CostCategoryPerDiem, 5, 60),
	}
	policy := domain.MarginPolicy{Type: domain.MarginTypePercent, Value: 17.5}

	first := Recompute(items, 640, 80, policy)
	second := Recompute(items, 640, 80, policy)

	assert.Equal(t, first, second)
}

func roundTripOffer(depart, arriveOut, departBack, arriveBack string) domain.FlightOffer {
	return domain.FlightOffer{
		ID:         "offer-1",
		TotalPrice: 500,
		Currency:   "EUR",
		Itineraries: []domain.Itinerary{
			{Segments: []domain.Segment{{From: "FRA", To: "JFK", Departure: depart, Arrival: arriveOut}}},
			{Segments: []domain.Segment{{From: "JFK", To: "FRA", Departure: departBack, Arrival: arriveBack}}},
		},
	}
}

func TestDeriveDurationFacts_RoundTrip(t *testing.T) {
	// out 2024-03-01 08:00Z -> 14:00Z, home arrival 2024-03-05 20:00Z:
	// 4 calendar nights, ceil(108h/24) = 5 days out
	offer := roundTripOffer(
		"2024-03-01T08:00:00Z",
		"2024-03-01T14:00:00Z",
		"2024-03-05T14:00:00Z",
		"2024-03-05T20:00:00Z",
	)

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 4, facts.NightsAtDestination)
	assert.Equal(t, 5, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_OneWayDefaults(t *testing.T) {
	offer := domain.FlightOffer{
		Itineraries: []domain.Itinerary{
			{Segments: []domain.Segment{{Departure: "2024-03-01T08:00:00Z", Arrival: "2024-03-01T14:00:00Z"}}},
		},
	}

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 0, facts.NightsAtDestination)
	assert.Equal(t, 1, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_MalformedTimestampsDefault(t *testing.T) {
	offer := roundTripOffer("not-a-time", "also-bad", "nope", "still-bad")

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, domain.TripDurationFacts{NightsAtDestination: 0, DaysOutTotal: 1}, facts)
}

func TestDeriveDurationFacts_MissingSegmentsDefault(t *testing.T) {
	offer := domain.FlightOffer{
		Itineraries: []domain.Itinerary{{}, {}},
	}

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 0, facts.NightsAtDestination)
	assert.Equal(t, 1, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_SameDayReturnClampsToMinimums(t *testing.T) {
	offer := roundTripOffer(
		"2024-03-01T06:00:00Z",
		"2024-03-01T08:00:00Z",
		"2024-03-01T18:00:00Z",
		"2024-03-01T20:00:00Z",
	)

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 0, facts.NightsAtDestination)
	assert.Equal(t, 1, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_OvernightReturnCountsOneNight(t *testing.T) {
	// arrival just before midnight, return just after: one midnight boundary
	offer := roundTripOffer(
		"2024-03-01T18:00:00Z",
		"2024-03-01T23:30:00Z",
		"2024-03-02T00:30:00Z",
		"2024-03-02T02:00:00Z",
	)

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 1, facts.NightsAtDestination)
	assert.Equal(t, 1, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_LocalTimestampsWithoutOffset(t *testing.T) {
	// provider local datetimes without zone offset still parse
	offer := roundTripOffer(
		"2024-03-01T08:00:00",
		"2024-03-01T14:00:00",
		"2024-03-03T10:00:00",
		"2024-03-03T16:00:00",
	)

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 2, facts.NightsAtDestination)
	assert.Equal(t, 3, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_UsesLastSegmentOfEachItinerary(t *testing.T) {
	offer := domain.FlightOffer{
		Itineraries: []domain.Itinerary{
			{Segments: []domain.Segment{
				{Departure: "2024-03-01T08:00:00Z", Arrival: "2024-03-01T10:00:00Z"},
				{Departure: "2024-03-01T12:00:00Z", Arrival: "2024-03-01T18:00:00Z"},
			}},
			{Segments: []domain.Segment{
				{Departure: "2024-03-04T09:00:00Z", Arrival: "2024-03-04T11:00:00Z"},
				{Departure: "2024-03-04T13:00:00Z", Arrival: "2024-03-04T19:00:00Z"},
			}},
		},
	}

	facts := DeriveDurationFacts(offer)

	assert.Equal(t, 3, facts.NightsAtDestination)
	// 2024-03-01 08:00 -> 2024-03-04 19:00 is 83h, ceil(83/24) = 4
	assert.Equal(t, 4, facts.DaysOutTotal)
}

func TestDeriveDurationFacts_IsDeterministic(t *testing.T) {
	offer := roundTripOffer(
		"2024-03-01T08:00:00Z",
		"2024-03-01T14:00:00Z",
		"2024-03-05T14:00:00Z",
		"2024-03-05T20:00:00Z",
	)

	first := DeriveDurationFacts(offer)
	second := DeriveDurationFacts(offer)

	assert.Equal(t, first, second)
}
