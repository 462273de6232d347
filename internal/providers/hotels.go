// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/trip-engine/internal/cache"
	"github.com/pdiddy/trip-engine/internal/httputil"
	"github.com/pdiddy/trip-engine/pkg/types"
)

// Upstream endpoints. Package-level vars for httptest substitution.
var (
	amadeusHotelsBase = "https://api.amadeus.com/v3/shopping/hotel-offers"
	cupidAPIBase      = "https://api.cupid.travel/v3/properties/search"
	hotelbedsAPIBase  = "https://api.hotelbeds.com/hotel-api/1.0/hotels"
)

// HotelQuery is the normalized hotel search input.
type HotelQuery struct {
	City    string
	CheckIn time.Time
	Nights  int
	Guests  int
}

func (q HotelQuery) params() map[string]string {
	return map[string]string{
		"city":    strings.ToLower(q.City),
		"checkin": q.CheckIn.Format("2006-01-02"),
		"nights":  strconv.Itoa(q.Nights),
		"guests":  strconv.Itoa(q.Guests),
	}
}

// NewHotelCascade wires the hotel providers in priority order: Amadeus,
// then Cupid, then Hotelbeds. Providers without an API key are left out.
func NewHotelCascade(cfg types.HotelsConfig, store *cache.Store, ttl time.Duration, log *logrus.Logger) *Cascade[HotelQuery, types.Hotel] {
	if log == nil {
		log = logrus.New()
	}
	client := httputil.NewClient(cfg.HTTPConfig, nil)

	var list []Provider[HotelQuery, types.Hotel]
	if cfg.AmadeusAPIKey != "" {
		list = append(list, &amadeusHotels{apiKey: cfg.AmadeusAPIKey, userAgent: cfg.UserAgent, client: client})
	}
	if cfg.CupidAPIKey != "" {
		list = append(list, &cupidHotels{apiKey: cfg.CupidAPIKey, userAgent: cfg.UserAgent, client: client})
	}
	if cfg.HotelbedsAPIKey != "" {
		list = append(list, &hotelbedsHotels{apiKey: cfg.HotelbedsAPIKey, userAgent: cfg.UserAgent, client: client})
	}

	sufficiency := cfg.Sufficiency
	if sufficiency <= 0 {
		sufficiency = 5
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}

	return &Cascade[HotelQuery, types.Hotel]{
		kind:        "hotels",
		providers:   list,
		fallback:    fallbackHotels,
		identity:    hotelIdentity,
		less:        func(a, b types.Hotel) bool { return a.NightlyRate < b.NightlyRate },
		sufficiency: func(HotelQuery) int { return sufficiency },
		topN:        func(HotelQuery) int { return topN },
		ttl:         ttl,
		store:       store,
		params:      HotelQuery.params,
		log:         log,
	}
}

// hotelIdentity is the dedup key: normalized name + city. Two providers
// listing the same property collapse to the first (higher-priority) entry.
func hotelIdentity(h types.Hotel) string {
	return strings.ToLower(h.Name) + "|" + strings.ToLower(h.City)
}

// --- Amadeus ---

type amadeusHotels struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *amadeusHotels) Name() string { return "amadeus" }

type amadeusHotelPayload struct {
	Data []struct {
		Hotel struct {
			HotelID  string `json:"hotelId"`
			Name     string `json:"name"`
			Rating   string `json:"rating"`
			CityCode string `json:"cityCode"`
		} `json:"hotel"`
		Offers []struct {
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

func (p *amadeusHotels) Search(ctx context.Context, q HotelQuery) ([]types.Hotel, error) {
	u := fmt.Sprintf("%s?cityCode=%s&checkInDate=%s&adults=%d&roomQuantity=1",
		amadeusHotelsBase, url.QueryEscape(q.City), q.CheckIn.Format("2006-01-02"), q.Guests)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amadeus returned HTTP %d", resp.StatusCode)
	}

	var payload amadeusHotelPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing amadeus response: %w", err)
	}

	nights := max(q.Nights, 1)
	now := time.Now().UTC()
	var hotels []types.Hotel
	for _, entry := range payload.Data {
		if len(entry.Offers) == 0 {
			continue
		}
		total, err := strconv.ParseFloat(entry.Offers[0].Price.Total, 64)
		if err != nil {
			continue
		}
		rating, _ := strconv.ParseFloat(entry.Hotel.Rating, 64)

		hotels = append(hotels, types.Hotel{
			ID:          entry.Hotel.HotelID,
			Name:        entry.Hotel.Name,
			City:        q.City,
			Rating:      rating,
			NightlyRate: total / float64(nights),
			Currency:    entry.Offers[0].Price.Currency,
			Source:      p.Name(),
			LastUpdated: now,
		})
	}
	return hotels, nil
}

// --- Cupid ---

type cupidHotels struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *cupidHotels) Name() string { return "cupid" }

type cupidPayload struct {
	Properties []struct {
		ID        int      `json:"id"`
		Name      string   `json:"name"`
		Rating    float64  `json:"rating"`
		Rate      float64  `json:"nightly_rate"`
		Currency  string   `json:"currency"`
		Amenities []string `json:"amenities"`
	} `json:"properties"`
}

func (p *cupidHotels) Search(ctx context.Context, q HotelQuery) ([]types.Hotel, error) {
	u := fmt.Sprintf("%s?city=%s&checkin=%s&nights=%d&guests=%d",
		cupidAPIBase, url.QueryEscape(q.City), q.CheckIn.Format("2006-01-02"), q.Nights, q.Guests)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cupid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cupid returned HTTP %d", resp.StatusCode)
	}

	var payload cupidPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing cupid response: %w", err)
	}

	now := time.Now().UTC()
	var hotels []types.Hotel
	for _, prop := range payload.Properties {
		hotels = append(hotels, types.Hotel{
			ID:          strconv.Itoa(prop.ID),
			Name:        prop.Name,
			City:        q.City,
			Rating:      prop.Rating,
			NightlyRate: prop.Rate,
			Currency:    prop.Currency,
			Amenities:   prop.Amenities,
			Source:      p.Name(),
			LastUpdated: now,
		})
	}
	return hotels, nil
}

// --- Hotelbeds ---

type hotelbedsHotels struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *hotelbedsHotels) Name() string { return "hotelbeds" }

type hotelbedsPayload struct {
	Hotels struct {
		Hotels []struct {
			Code         int    `json:"code"`
			Name         string `json:"name"`
			CategoryName string `json:"categoryName"`
			MinRate      string `json:"minRate"`
			Currency     string `json:"currency"`
		} `json:"hotels"`
	} `json:"hotels"`
}

func (p *hotelbedsHotels) Search(ctx context.Context, q HotelQuery) ([]types.Hotel, error) {
	u := fmt.Sprintf("%s?destination=%s&checkIn=%s&checkOut=%s",
		hotelbedsAPIBase, url.QueryEscape(q.City),
		q.CheckIn.Format("2006-01-02"),
		q.CheckIn.AddDate(0, 0, max(q.Nights, 1)).Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Api-key", p.apiKey)
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotelbeds request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotelbeds returned HTTP %d", resp.StatusCode)
	}

	var payload hotelbedsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing hotelbeds response: %w", err)
	}

	nights := max(q.Nights, 1)
	now := time.Now().UTC()
	var hotels []types.Hotel
	for _, h := range payload.Hotels.Hotels {
		minRate, err := strconv.ParseFloat(h.MinRate, 64)
		if err != nil {
			continue
		}
		hotels = append(hotels, types.Hotel{
			ID:          strconv.Itoa(h.Code),
			Name:        h.Name,
			City:        q.City,
			Rating:      categoryToRating(h.CategoryName),
			NightlyRate: minRate / float64(nights),
			Currency:    h.Currency,
			Source:      p.Name(),
			LastUpdated: now,
		})
	}
	return hotels, nil
}

// categoryToRating maps Hotelbeds category names ("4 STARS") to a 0-5 rating.
func categoryToRating(category string) float64 {
	fields := strings.Fields(category)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return n
}

// --- Synthetic fallback ---

var fallbackProperties = []struct {
	name   string
	rating float64
	rate   float64
}{
	{"Central Plaza Hotel", 4.1, 140},
	{"Old Town Guesthouse", 3.8, 85},
	{"Riverside Boutique", 4.5, 190},
}

// fallbackHotels deterministically synthesizes listings for a city. The same
// query always yields the same listings; every record is tagged "fallback".
func fallbackHotels(q HotelQuery) []types.Hotel {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s", strings.ToLower(q.City), q.CheckIn.Format("2006-01-02"))
	seed := h.Sum32()

	now := time.Now().UTC()
	hotels := make([]types.Hotel, 0, len(fallbackProperties))
	for i, prop := range fallbackProperties {
		hotels = append(hotels, types.Hotel{
			ID:          fmt.Sprintf("fb-hotel-%d-%d", i, seed%1000),
			Name:        prop.name,
			City:        q.City,
			Rating:      prop.rating,
			NightlyRate: prop.rate + float64((seed>>(uint(i)*5))%40),
			Currency:    "USD",
			Amenities:   []string{"wifi"},
			Source:      types.SourceFallback,
			LastUpdated: now,
		})
	}
	return hotels
}
