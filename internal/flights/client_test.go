package flights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/obcq/quoter-api/internal/config"
	"github.com/obcq/quoter-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleSearchPayload = `{
  "data": [
    {
      "id": "1",
      "price": {"total": "512.40", "currency": "EUR"},
      "travelerPricings": [
        {"fareDetailsBySegment": [{"cabin": "ECONOMY"}]}
      ],
      "itineraries": [
        {
          "duration": "PT9H20M",
          "segments": [
            {
              "departure": {"iataCode": "FRA", "at": "2024-03-01T08:00:00"},
              "arrival": {"iataCode": "JFK", "at": "2024-03-01T14:00:00"},
              "carrierCode": "LH",
              "number": "400"
            }
          ]
        },
        {
          "duration": "PT8H05M",
          "segments": [
            {
              "departure": {"iataCode": "JFK", "at": "2024-03-05T14:00:00"},
              "arrival": {"iataCode": "FRA", "at": "2024-03-05T20:00:00"},
              "carrierCode": "LH",
              "number": "401"
            }
          ]
        }
      ]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.AmadeusConfig{
		BaseURL:      server.URL,
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		Timeout:      5,
		MaxOffers:    10,
		Currency:     "EUR",
	}
	return NewClient(cfg, zap.NewNop()), server
}

func tokenHandler(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": "token-123",
		"expires_in":   1799,
	})
}

func TestSearch_MapsProviderOffers(t *testing.T) {
	var searchQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenHandler(w)
		case searchPath:
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			searchQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleSearchPayload))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	offers, err := client.Search(context.Background(), domain.FlightSearchRequest{
		OriginLocationCode:      "FRA",
		DestinationLocationCode: "JFK",
		DepartureDate:           "2024-03-01",
		ReturnDate:              "2024-03-05",
		Adults:                  1,
		TravelClass:             "ECONOMY",
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)

	offer := offers[0]
	assert.Equal(t, "1", offer.ID)
	assert.InDelta(t, 512.40, offer.TotalPrice, 1e-9)
	assert.Equal(t, "EUR", offer.Currency)
	assert.Equal(t, "ECONOMY", offer.Cabin)
	require.Len(t, offer.Itineraries, 2)
	require.Len(t, offer.Itineraries[0].Segments, 1)
	assert.Equal(t, "FRA", offer.Itineraries[0].Segments[0].From)
	assert.Equal(t, "JFK", offer.Itineraries[0].Segments[0].To)
	assert.Equal(t, "LH", offer.Itineraries[0].Segments[0].CarrierCode)
	assert.Equal(t, "400", offer.Itineraries[0].Segments[0].FlightNumber)

	assert.Equal(t, "EUR", searchQuery["currencyCode"][0])
	assert.Equal(t, "10", searchQuery["max"][0])
	assert.Equal(t, "2024-03-05", searchQuery["returnDate"][0])
	assert.Equal(t, "ECONOMY", searchQuery["travelClass"][0])
}

func TestSearch_OmitsOptionalParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenHandler(w)
		case searchPath:
			q := r.URL.Query()
			assert.False(t, q.Has("returnDate"))
			assert.False(t, q.Has("travelClass"))
			assert.Equal(t, "1", q.Get("adults"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": []}`))
		}
	})

	offers, err := client.Search(context.Background(), domain.FlightSearchRequest{
		OriginLocationCode:      "FRA",
		DestinationLocationCode: "JFK",
		DepartureDate:           "2024-03-01",
	})
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestSearch_ReusesCachedToken(t *testing.T) {
	tokenCalls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenCalls++
			tokenHandler(w)
		case searchPath:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": []}`))
		}
	})

	req := domain.FlightSearchRequest{
		OriginLocationCode:      "FRA",
		DestinationLocationCode: "JFK",
		DepartureDate:           "2024-03-01",
	}

	_, err := client.Search(context.Background(), req)
	require.NoError(t, err)
	_, err = client.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestSearch_ProviderErrorSurfaces(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenHandler(w)
		case searchPath:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	_, err := client.Search(context.Background(), domain.FlightSearchRequest{
		OriginLocationCode:      "FRA",
		DestinationLocationCode: "JFK",
		DepartureDate:           "2024-03-01",
	})
	assert.Error(t, err)
}

func TestSearch_TokenFailureSurfaces(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Search(context.Background(), domain.FlightSearchRequest{
		OriginLocationCode:      "FRA",
		DestinationLocationCode: "JFK",
		DepartureDate:           "2024-03-01",
	})
	assert.Error(t, err)
}
