// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trip-engine/pkg/types"
)

func weatherTestQuery() WeatherQuery {
	return WeatherQuery{
		City:    "Lisbon",
		Lat:     38.72,
		Lon:     -9.14,
		Start:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Days:    3,
		Climate: types.ClimateMediterranean,
	}
}

func TestOpenMeteoTransform(t *testing.T) {
	body := `{
	  "daily": {
	    "time": ["2026-09-01", "2026-09-02", "2026-09-03"],
	    "temperature_2m_max": [27.1, 26.4, 25.9],
	    "temperature_2m_min": [17.2, 16.8, 16.1],
	    "precipitation_sum": [0.0, 1.2, 0.0]
	  }
	}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-09-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-09-03", r.URL.Query().Get("end_date"))
		w.Write([]byte(body))
	}))
	defer ts.Close()

	prev := openMeteoAPIBase
	openMeteoAPIBase = ts.URL
	defer func() { openMeteoAPIBase = prev }()

	p := &openMeteo{client: ts.Client()}
	days, err := p.Search(context.Background(), weatherTestQuery())
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.InDelta(t, 27.1, days[0].HighC, 1e-9)
	assert.InDelta(t, 1.2, days[1].PrecipitationMM, 1e-9)
	assert.Equal(t, "openmeteo", days[0].Source)
}

func TestWeatherAPITransform(t *testing.T) {
	body := `{
	  "forecast": {
	    "forecastday": [
	      {"date": "2026-09-01", "day": {"maxtemp_c": 28.0, "mintemp_c": 18.0, "totalprecip_mm": 0.3, "condition": {"text": "Sunny"}}}
	    ]
	  }
	}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(body))
	}))
	defer ts.Close()

	prev := weatherAPIBase
	weatherAPIBase = ts.URL
	defer func() { weatherAPIBase = prev }()

	p := &weatherAPI{apiKey: "test-key", client: ts.Client()}
	days, err := p.Search(context.Background(), weatherTestQuery())
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "sunny", days[0].Condition)
	assert.Equal(t, "weatherapi", days[0].Source)
}

func TestFallbackWeatherCoversWindowInDateOrder(t *testing.T) {
	q := weatherTestQuery()
	days := fallbackWeather(q)
	require.Len(t, days, 3)

	for i, d := range days {
		assert.Equal(t, q.Start.AddDate(0, 0, i), d.Date)
		assert.Equal(t, types.SourceFallback, d.Source)
		assert.Equal(t, "sunny", d.Condition)
	}
}

func TestFallbackWeatherUnknownClimateDefaultsTemperate(t *testing.T) {
	q := weatherTestQuery()
	q.Climate = types.Climate("volcanic")
	days := fallbackWeather(q)
	require.NotEmpty(t, days)
	assert.Equal(t, "partly cloudy", days[0].Condition)
}
