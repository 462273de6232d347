// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"encoding/json"
	"fmt"
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
	openWeatherAPIBase = "https://api.openweathermap.org/data/3.0/onecall"
	weatherAPIBase     = "https://api.weatherapi.com/v1/forecast.json"
	openMeteoAPIBase   = "https://api.open-meteo.com/v1/forecast"
)

// WeatherQuery is the normalized forecast input. Climate feeds the synthetic
// fallback so even a fully offline run produces plausible conditions.
type WeatherQuery struct {
	City    string
	Lat     float64
	Lon     float64
	Start   time.Time
	Days    int
	Climate types.Climate
}

func (q WeatherQuery) params() map[string]string {
	return map[string]string{
		"city":  strings.ToLower(q.City),
		"start": q.Start.Format("2006-01-02"),
		"days":  strconv.Itoa(q.Days),
	}
}

// NewWeatherCascade wires the forecast providers in priority order:
// OpenWeather, then WeatherAPI, then Open-Meteo (keyless). Weather results
// keep date order; there is no price sort. Sufficiency is the requested day
// count: once one provider covers the whole window the rest are skipped.
func NewWeatherCascade(cfg types.WeatherConfig, store *cache.Store, ttl time.Duration, log *logrus.Logger) *Cascade[WeatherQuery, types.WeatherDay] {
	if log == nil {
		log = logrus.New()
	}
	client := httputil.NewClient(cfg.HTTPConfig, nil)

	var list []Provider[WeatherQuery, types.WeatherDay]
	if cfg.OpenWeatherAPIKey != "" {
		list = append(list, &openWeather{apiKey: cfg.OpenWeatherAPIKey, userAgent: cfg.UserAgent, client: client})
	}
	if cfg.WeatherAPIKey != "" {
		list = append(list, &weatherAPI{apiKey: cfg.WeatherAPIKey, userAgent: cfg.UserAgent, client: client})
	}
	list = append(list, &openMeteo{userAgent: cfg.UserAgent, client: client})

	return &Cascade[WeatherQuery, types.WeatherDay]{
		kind:      "weather",
		providers: list,
		fallback:  fallbackWeather,
		identity: func(d types.WeatherDay) string {
			return d.Date.Format("2006-01-02")
		},
		less:        func(a, b types.WeatherDay) bool { return a.Date.Before(b.Date) },
		sufficiency: func(q WeatherQuery) int { return max(q.Days, 1) },
		topN:        func(q WeatherQuery) int { return max(q.Days, 1) },
		ttl:         ttl,
		store:       store,
		params:      WeatherQuery.params,
		log:         log,
	}
}

// --- OpenWeather ---

type openWeather struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *openWeather) Name() string { return "openweather" }

type openWeatherPayload struct {
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Rain    float64 `json:"rain"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"daily"`
}

func (p *openWeather) Search(ctx context.Context, q WeatherQuery) ([]types.WeatherDay, error) {
	u := fmt.Sprintf("%s?lat=%.2f&lon=%.2f&units=metric&exclude=minutely,hourly&appid=%s",
		openWeatherAPIBase, q.Lat, q.Lon, url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather returned HTTP %d", resp.StatusCode)
	}

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing openweather response: %w", err)
	}

	now := time.Now().UTC()
	var days []types.WeatherDay
	for _, d := range payload.Daily {
		date := time.Unix(d.Dt, 0).UTC().Truncate(24 * time.Hour)
		if date.Before(q.Start.Truncate(24 * time.Hour)) {
			continue
		}
		condition := "clear"
		if len(d.Weather) > 0 {
			condition = d.Weather[0].Description
		}
		days = append(days, types.WeatherDay{
			Date:            date,
			Condition:       condition,
			HighC:           d.Temp.Max,
			LowC:            d.Temp.Min,
			PrecipitationMM: d.Rain,
			Source:          p.Name(),
			LastUpdated:     now,
		})
		if len(days) == q.Days {
			break
		}
	}
	return days, nil
}

// --- WeatherAPI ---

type weatherAPI struct {
	apiKey    string
	userAgent string
	client    *http.Client
}

func (p *weatherAPI) Name() string { return "weatherapi" }

type weatherAPIPayload struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC      float64 `json:"maxtemp_c"`
				MinTempC      float64 `json:"mintemp_c"`
				TotalPrecipMM float64 `json:"totalprecip_mm"`
				Condition     struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *weatherAPI) Search(ctx context.Context, q WeatherQuery) ([]types.WeatherDay, error) {
	u := fmt.Sprintf("%s?key=%s&q=%s&days=%d",
		weatherAPIBase, url.QueryEscape(p.apiKey), url.QueryEscape(q.City), q.Days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weatherapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weatherapi returned HTTP %d", resp.StatusCode)
	}

	var payload weatherAPIPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing weatherapi response: %w", err)
	}

	now := time.Now().UTC()
	var days []types.WeatherDay
	for _, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse("2006-01-02", fd.Date)
		if err != nil {
			continue
		}
		days = append(days, types.WeatherDay{
			Date:            date,
			Condition:       strings.ToLower(fd.Day.Condition.Text),
			HighC:           fd.Day.MaxTempC,
			LowC:            fd.Day.MinTempC,
			PrecipitationMM: fd.Day.TotalPrecipMM,
			Source:          p.Name(),
			LastUpdated:     now,
		})
	}
	return days, nil
}

// --- Open-Meteo (keyless) ---

type openMeteo struct {
	userAgent string
	client    *http.Client
}

func (p *openMeteo) Name() string { return "openmeteo" }

type openMeteoPayload struct {
	Daily struct {
		Time            []string  `json:"time"`
		TempMax         []float64 `json:"temperature_2m_max"`
		TempMin         []float64 `json:"temperature_2m_min"`
		PrecipitationMM []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func (p *openMeteo) Search(ctx context.Context, q WeatherQuery) ([]types.WeatherDay, error) {
	u := fmt.Sprintf("%s?latitude=%.2f&longitude=%.2f&daily=temperature_2m_max,temperature_2m_min,precipitation_sum&start_date=%s&end_date=%s",
		openMeteoAPIBase, q.Lat, q.Lon,
		q.Start.Format("2006-01-02"),
		q.Start.AddDate(0, 0, max(q.Days-1, 0)).Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo returned HTTP %d", resp.StatusCode)
	}

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing open-meteo response: %w", err)
	}

	now := time.Now().UTC()
	var days []types.WeatherDay
	for i, ds := range payload.Daily.Time {
		date, err := time.Parse("2006-01-02", ds)
		if err != nil {
			continue
		}
		day := types.WeatherDay{
			Date:        date,
			Condition:   "partly cloudy",
			Source:      p.Name(),
			LastUpdated: now,
		}
		if i < len(payload.Daily.TempMax) {
			day.HighC = payload.Daily.TempMax[i]
		}
		if i < len(payload.Daily.TempMin) {
			day.LowC = payload.Daily.TempMin[i]
		}
		if i < len(payload.Daily.PrecipitationMM) {
			day.PrecipitationMM = payload.Daily.PrecipitationMM[i]
		}
		days = append(days, day)
	}
	return days, nil
}

// --- Synthetic fallback ---

// climateProfiles drives the synthetic forecast per destination climate.
var climateProfiles = map[types.Climate]struct {
	condition string
	high, low float64
	precip    float64
}{
	types.ClimateTropical:      {"scattered showers", 31, 24, 6},
	types.ClimateTemperate:     {"partly cloudy", 21, 12, 2},
	types.ClimateCold:          {"overcast", 4, -3, 1},
	types.ClimateArid:          {"sunny", 33, 19, 0},
	types.ClimateMediterranean: {"sunny", 26, 16, 0.5},
}

// fallbackWeather deterministically synthesizes one forecast day per
// requested day from the destination's climate profile.
func fallbackWeather(q WeatherQuery) []types.WeatherDay {
	profile, ok := climateProfiles[q.Climate]
	if !ok {
		profile = climateProfiles[types.ClimateTemperate]
	}

	now := time.Now().UTC()
	start := q.Start.Truncate(24 * time.Hour)
	days := make([]types.WeatherDay, 0, max(q.Days, 1))
	for i := 0; i < max(q.Days, 1); i++ {
		// Small deterministic day-to-day wobble so the window isn't flat.
		wobble := float64(i%3) - 1
		days = append(days, types.WeatherDay{
			Date:            start.AddDate(0, 0, i),
			Condition:       profile.condition,
			HighC:           profile.high + wobble,
			LowC:            profile.low + wobble,
			PrecipitationMM: profile.precip,
			Source:          types.SourceFallback,
			LastUpdated:     now,
		})
	}
	return days
}
