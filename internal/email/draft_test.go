package email

import (
	"testing"
	"time"

	"github.com/obcq/quoter-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_ContainsQuoteFacts(t *testing.T) {
	pickup := time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC)
	deadline := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	quote := &domain.Quote{
		CustomerName:     "Acme Logistics",
		OriginCity:       "Frankfurt",
		DestinationCity:  "New York",
		PickupTime:       &pickup,
		DeliveryDeadline: &deadline,
		PriceToCustomer:  728,
		Currency:         "EUR",
	}

	draft, err := Draft(quote)
	require.NoError(t, err)

	assert.Equal(t, "OBC quote Frankfurt -> New York", draft.Subject)
	assert.Contains(t, draft.Body, "Dear Acme Logistics,")
	assert.Contains(t, draft.Body, "Frankfurt -> New York")
	assert.Contains(t, draft.Body, "728.00 EUR")
	assert.Contains(t, draft.Body, "01 Mar 2024 06:30 UTC")
	assert.Contains(t, draft.Body, "01 Mar 2024 22:00 UTC")
}

func TestDraft_MissingWindowFallsBackToPlaceholder(t *testing.T) {
	quote := &domain.Quote{
		CustomerName:    "Acme Logistics",
		OriginCity:      "Frankfurt",
		DestinationCity: "Tokyo",
		PriceToCustomer: 1500,
		Currency:        "EUR",
	}

	draft, err := Draft(quote)
	require.NoError(t, err)

	assert.Contains(t, draft.Body, "Pickup:            to be confirmed")
	assert.Contains(t, draft.Body, "Delivery deadline: to be confirmed")
}
