// Package flights integrates the Amadeus flight-offers search API. The
// client is a plain data source for the quoting flow: no retries, no
// result caching, and provider failures surface to the caller.
package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/obcq/quoter-api/internal/config"
	"github.com/obcq/quoter-api/internal/domain"
	"go.uber.org/zap"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	searchPath = "/v2/shopping/flight-offers"
)

// Client calls the Amadeus self-service API using the OAuth2
// client-credentials flow. Tokens are cached in memory until shortly
// before expiry.
type Client struct {
	cfg        *config.AmadeusConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a flight search client from configuration
func NewClient(cfg *config.AmadeusConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:     logger,
	}
}

// tokenResponse is the OAuth2 token endpoint payload
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// searchResponse mirrors the provider's flight-offers payload, reduced
// to the fields the quoting flow reads
type searchResponse struct {
	Data []providerOffer `json:"data"`
}

type providerOffer struct {
	ID    string `json:"id"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Duration string `json:"duration"`
		Segments []struct {
			Departure struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"arrival"`
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
		} `json:"segments"`
	} `json:"itineraries"`
	TravelerPricings []struct {
		FareDetailsBySegment []struct {
			Cabin string `json:"cabin"`
		} `json:"fareDetailsBySegment"`
	} `json:"travelerPricings"`
}

// Search runs a flight-offers search and maps the provider payload to
// the slim FlightOffer shape. Offers are priced in the configured
// settlement currency and capped at the configured maximum.
func (c *Client) Search(ctx context.Context, req domain.FlightSearchRequest) ([]domain.FlightOffer, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	adults := req.Adults
	if adults < 1 {
		adults = 1
	}

	params := url.Values{}
	params.Set("originLocationCode", req.OriginLocationCode)
	params.Set("destinationLocationCode", req.DestinationLocationCode)
	params.Set("departureDate", req.DepartureDate)
	params.Set("adults", strconv.Itoa(adults))
	params.Set("currencyCode", c.cfg.Currency)
	params.Set("max", strconv.Itoa(c.cfg.MaxOffers))
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	if req.TravelClass != "" {
		params.Set("travelClass", req.TravelClass)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("flight search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("flight search returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("flight search failed with status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode flight search response: %w", err)
	}

	offers := make([]domain.FlightOffer, 0, len(payload.Data))
	for _, po := range payload.Data {
		offers = append(offers, mapOffer(po))
	}

	c.logger.Info("flight search completed",
		zap.String("origin", req.OriginLocationCode),
		zap.String("destination", req.DestinationLocationCode),
		zap.Int("offers", len(offers)),
		zap.Duration("duration", time.Since(start)),
	)

	return offers, nil
}

func mapOffer(po providerOffer) domain.FlightOffer {
	// price.total arrives as a decimal string
	totalPrice, _ := strconv.ParseFloat(po.Price.Total, 64)

	// cabin lives on the first traveler pricing's first fare detail
	var cabin string
	if len(po.TravelerPricings) > 0 && len(po.TravelerPricings[0].FareDetailsBySegment) > 0 {
		cabin = po.TravelerPricings[0].FareDetailsBySegment[0].Cabin
	}

	offer := domain.FlightOffer{
		ID:         po.ID,
		TotalPrice: totalPrice,
		Currency:   po.Price.Currency,
		Cabin:      cabin,
	}

	for _, it := range po.Itineraries {
		itinerary := domain.Itinerary{Duration: it.Duration}
		for _, seg := range it.Segments {
			itinerary.Segments = append(itinerary.Segments, domain.Segment{
				From:         seg.Departure.IataCode,
				To:           seg.Arrival.IataCode,
				Departure:    seg.Departure.At,
				Arrival:      seg.Arrival.At,
				CarrierCode:  seg.CarrierCode,
				FlightNumber: seg.Number,
			})
		}
		offer.Itineraries = append(offer.Itineraries, itinerary)
	}

	return offer
}

// token returns a valid access token, fetching a new one when the cached
// token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.accessToken = tr.AccessToken
	// renew a minute early so in-flight searches don't race expiry
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)

	return c.accessToken, nil
}
