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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/trip-engine/internal/cache"
	"github.com/pdiddy/trip-engine/internal/httputil"
	"github.com/pdiddy/trip-engine/pkg/types"
)

// Upstream endpoints. Package-level vars for httptest substitution.
var (
	amadeusFlightsBase = "https://api.amadeus.com/v2/shopping/flight-offers"
	duffelAPIBase      = "https://api.duffel.com/air/offers"
	kiwiAPIBase        = "https://api.tequila.kiwi.com/v2/search"
)

// FlightQuery is the normalized flight search input.
type FlightQuery struct {
	Origin    string
	Dest      string
	Departure time.Time
	Travelers int
}

func (q FlightQuery) params() map[string]string {
	return map[string]string{
		"origin":    q.Origin,
		"dest":      q.Dest,
		"departure": q.Departure.Format("2006-01-02"),
		"travelers": strconv.Itoa(q.Travelers),
	}
}

// NewFlightCascade wires the flight providers in priority order: Amadeus,
// then Duffel, then Kiwi. Providers without an API key are left out.
func NewFlightCascade(cfg types.FlightsConfig, store *cache.Store, ttl time.Duration, log *logrus.Logger) *Cascade[FlightQuery, types.Flight] {
	if log == nil {
		log = logrus.New()
	}
	client := httputil.NewClient(cfg.HTTPConfig, nil)

	var list []Provider[FlightQuery, types.Flight]
	if cfg.AmadeusAPIKey != "" {
		list = append(list, &amadeusFlights{apiKey: cfg.AmadeusAPIKey, userAgent: cfg.UserAgent, client: client})
	}
	if cfg.DuffelAPIKey != "" {
		list = append(list, &duffelFlights{apiKey: cfg.DuffelAPIKey, userAgent: cfg.UserAgent, client: client})
	}
	if cfg.KiwiAPIKey != "" {
		list = append(list, &kiwiFlights{apiKey: cfg.KiwiAPIKey, userAgent: cfg.UserAgent, client: client})
	}

	sufficiency := cfg.Sufficiency
	if sufficiency <= 0 {
		sufficiency = 5
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}

	return &Cascade[FlightQuery, types.Flight]{
		kind:        "flights",
		providers:   list,
		fallback:    fallbackFlights,
		identity:    flightIdentity,
		less:        func(a, b types.Flight) bool { return a.Price < b.Price },
		sufficiency: func(FlightQuery) int { return sufficiency },
		topN:        func(FlightQuery) int { return topN },
		ttl:         ttl,
		store:       store,
		params:      FlightQuery.params,
		log:         log,
	}
}

// flightIdentity is the dedup key: airline + flight number + departure time.
func flightIdentity(f types.Flight) string {
	return f.Airline + "|" + f.FlightNumber + "|" + f.DepartureTime.UTC().Format(time.RFC3339)
}

// --- Amadeus ---

type amadeusFlights struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *amadeusFlights) Name() string { return "amadeus" }

type amadeusOfferPayload struct {
	Data []struct {
		ID          string `json:"id"`
		Itineraries []struct {
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
				Departure   struct {
					At string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					At string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"data"`
}

func (p *amadeusFlights) Search(ctx context.Context, q FlightQuery) ([]types.Flight, error) {
	u := fmt.Sprintf("%s?originLocationCode=%s&destinationLocationCode=%s&departureDate=%s&adults=%d",
		amadeusFlightsBase, url.QueryEscape(q.Origin), url.QueryEscape(q.Dest),
		q.Departure.Format("2006-01-02"), q.Travelers)

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

	var payload amadeusOfferPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing amadeus response: %w", err)
	}

	now := time.Now().UTC()
	var flights []types.Flight
	for _, offer := range payload.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		segs := offer.Itineraries[0].Segments
		first, last := segs[0], segs[len(segs)-1]

		price, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			continue
		}
		dep, err := time.Parse("2006-01-02T15:04:05", first.Departure.At)
		if err != nil {
			continue
		}
		arr, _ := time.Parse("2006-01-02T15:04:05", last.Arrival.At)

		flights = append(flights, types.Flight{
			ID:            offer.ID,
			Airline:       first.CarrierCode,
			FlightNumber:  first.CarrierCode + first.Number,
			Origin:        q.Origin,
			Dest:          q.Dest,
			DepartureTime: dep,
			ArrivalTime:   arr,
			Stops:         len(segs) - 1,
			Price:         price,
			Currency:      offer.Price.Currency,
			Source:        p.Name(),
			LastUpdated:   now,
		})
	}
	return flights, nil
}

// --- Duffel ---

type duffelFlights struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *duffelFlights) Name() string { return "duffel" }

type duffelOfferPayload struct {
	Data []struct {
		ID          string `json:"id"`
		TotalAmount string `json:"total_amount"`
		Currency    string `json:"total_currency"`
		Owner       struct {
			Name     string `json:"name"`
			IATACode string `json:"iata_code"`
		} `json:"owner"`
		Slices []struct {
			Segments []struct {
				FlightNumber string    `json:"marketing_carrier_flight_number"`
				DepartingAt  time.Time `json:"departing_at"`
				ArrivingAt   time.Time `json:"arriving_at"`
			} `json:"segments"`
		} `json:"slices"`
	} `json:"data"`
}

func (p *duffelFlights) Search(ctx context.Context, q FlightQuery) ([]types.Flight, error) {
	u := fmt.Sprintf("%s?origin=%s&destination=%s&departure_date=%s&passengers=%d",
		duffelAPIBase, url.QueryEscape(q.Origin), url.QueryEscape(q.Dest),
		q.Departure.Format("2006-01-02"), q.Travelers)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Duffel-Version", "v2")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duffel request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duffel returned HTTP %d", resp.StatusCode)
	}

	var payload duffelOfferPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing duffel response: %w", err)
	}

	now := time.Now().UTC()
	var flights []types.Flight
	for _, offer := range payload.Data {
		if len(offer.Slices) == 0 || len(offer.Slices[0].Segments) == 0 {
			continue
		}
		segs := offer.Slices[0].Segments
		price, err := strconv.ParseFloat(offer.TotalAmount, 64)
		if err != nil {
			continue
		}

		flights = append(flights, types.Flight{
			ID:            offer.ID,
			Airline:       offer.Owner.Name,
			FlightNumber:  offer.Owner.IATACode + segs[0].FlightNumber,
			Origin:        q.Origin,
			Dest:          q.Dest,
			DepartureTime: segs[0].DepartingAt,
			ArrivalTime:   segs[len(segs)-1].ArrivingAt,
			Stops:         len(segs) - 1,
			Price:         price,
			Currency:      offer.Currency,
			Source:        p.Name(),
			LastUpdated:   now,
		})
	}
	return flights, nil
}

// --- Kiwi (Tequila) ---

type kiwiFlights struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *kiwiFlights) Name() string { return "kiwi" }

type kiwiPayload struct {
	Data []struct {
		ID       string   `json:"id"`
		Airlines []string `json:"airlines"`
		Price    float64  `json:"price"`
		Route    []struct {
			Airline  string `json:"airline"`
			FlightNo int    `json:"flight_no"`
		} `json:"route"`
		LocalDeparture time.Time `json:"local_departure"`
		LocalArrival   time.Time `json:"local_arrival"`
	} `json:"data"`
	Currency string `json:"currency"`
}

func (p *kiwiFlights) Search(ctx context.Context, q FlightQuery) ([]types.Flight, error) {
	date := q.Departure.Format("02/01/2006")
	u := fmt.Sprintf("%s?fly_from=%s&fly_to=%s&date_from=%s&date_to=%s&adults=%d",
		kiwiAPIBase, url.QueryEscape(q.Origin), url.QueryEscape(q.Dest),
		url.QueryEscape(date), url.QueryEscape(date), q.Travelers)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kiwi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kiwi returned HTTP %d", resp.StatusCode)
	}

	var payload kiwiPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing kiwi response: %w", err)
	}

	now := time.Now().UTC()
	var flights []types.Flight
	for _, itin := range payload.Data {
		if len(itin.Route) == 0 {
			continue
		}
		first := itin.Route[0]

		flights = append(flights, types.Flight{
			ID:            itin.ID,
			Airline:       first.Airline,
			FlightNumber:  fmt.Sprintf("%s%d", first.Airline, first.FlightNo),
			Origin:        q.Origin,
			Dest:          q.Dest,
			DepartureTime: itin.LocalDeparture,
			ArrivalTime:   itin.LocalArrival,
			Stops:         len(itin.Route) - 1,
			Price:         itin.Price,
			Currency:      payload.Currency,
			Source:        p.Name(),
			LastUpdated:   now,
		})
	}
	return flights, nil
}

// --- Synthetic fallback ---

var fallbackCarriers = []struct {
	name string
	code string
}{
	{"Meridian Air", "MD"},
	{"Northline", "NL"},
	{"Pacific Crest", "PC"},
}

// fallbackFlights deterministically synthesizes offers for a route. The same
// query always yields the same flights; every record is tagged "fallback".
func fallbackFlights(q FlightQuery) []types.Flight {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s", q.Origin, q.Dest, q.Departure.Format("2006-01-02"))
	seed := h.Sum32()

	base := q.Departure.Truncate(24 * time.Hour)
	now := time.Now().UTC()

	flights := make([]types.Flight, 0, len(fallbackCarriers))
	for i, carrier := range fallbackCarriers {
		price := 160 + float64((seed>>(uint(i)*7))%240) + float64(i)*45
		dep := base.Add(time.Duration(7+4*i) * time.Hour)

		flights = append(flights, types.Flight{
			ID:            fmt.Sprintf("fb-%s-%d", carrier.code, seed%1000),
			Airline:       carrier.name,
			FlightNumber:  fmt.Sprintf("%s%d", carrier.code, 100+seed%800),
			Origin:        q.Origin,
			Dest:          q.Dest,
			DepartureTime: dep,
			ArrivalTime:   dep.Add(time.Duration(3+i) * time.Hour),
			Stops:         i % 2,
			Price:         price * float64(max(q.Travelers, 1)),
			Currency:      "USD",
			Source:        types.SourceFallback,
			LastUpdated:   now,
		})
	}
	return flights
}
