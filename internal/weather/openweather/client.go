// Package openweather implements weather.Source against the
// OpenWeatherMap "weather" and "forecast" endpoints.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nimbusweather/nimbus-backend/internal/weather"
)

// DefaultBaseURL is the production OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

var (
	errNoAPIKey      = errors.New("openweathermap api key is not configured")
	errUnexpected    = errors.New("unexpected status code")
	errEmptyPayload  = errors.New("payload missing weather condition")
	errEmptySeries   = errors.New("payload contains no forecast samples")
	errMissingDtTxt  = errors.New("forecast sample missing dt_txt")
	errCoordsMissing = errors.New("locator has neither city nor coordinates")
)

// Client talks to OpenWeatherMap. One circuit breaker guards both
// endpoints; a single failed round is reported as-is, never retried.
type Client struct {
	apiKey  string
	baseURL string
	units   string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client. baseURL falls back to DefaultBaseURL when empty;
// the http.Client carries the per-call timeout.
func New(client *http.Client, apiKey, baseURL, units string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if units == "" {
		units = "metric"
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		units:   units,
		client:  client,
		circuit: cb,
	}
}

// Current fetches and normalizes current conditions for the locator.
func (c *Client) Current(ctx context.Context, loc weather.Locator) (weather.Observation, error) {
	resp, err := c.get(ctx, "/weather", loc)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain struct {
			OneH float64 `json:"1h"`
		} `json:"rain"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("decoding current conditions: %w", err)
	}
	if len(payload.Weather) == 0 {
		return weather.Observation{}, errEmptyPayload
	}

	return weather.Observation{
		City:        payload.Name,
		Temperature: payload.Main.Temp,
		WindSpeedMS: payload.Wind.Speed,
		HumidityPct: payload.Main.Humidity,
		RainMM:      payload.Rain.OneH,
		Icon:        payload.Weather[0].Icon,
		Description: payload.Weather[0].Description,
		Sunrise:     payload.Sys.Sunrise,
		Sunset:      payload.Sys.Sunset,
	}, nil
}

// Forecast fetches and normalizes the 3-hour forecast series for the
// locator. Timestamps are parsed as naive wall clock in the process-local
// zone, matching how the aggregation compares them against "now".
func (c *Client) Forecast(ctx context.Context, loc weather.Locator) ([]weather.Sample, error) {
	resp, err := c.get(ctx, "/forecast", loc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
			Rain struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	if len(payload.List) == 0 {
		return nil, errEmptySeries
	}

	samples := make([]weather.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		if item.DtTxt == "" {
			return nil, errMissingDtTxt
		}
		if len(item.Weather) == 0 {
			return nil, errEmptyPayload
		}

		ts, err := time.ParseInLocation(weather.TimestampLayout, item.DtTxt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parsing forecast timestamp %q: %w", item.DtTxt, err)
		}

		samples = append(samples, weather.Sample{
			Timestamp:   ts,
			Label:       item.DtTxt,
			Temperature: item.Main.Temp,
			Icon:        item.Weather[0].Icon,
			Description: item.Weather[0].Description,
			RainMM:      item.Rain.ThreeH,
		})
	}

	return samples, nil
}

// get issues one GET through the circuit breaker. Transport errors and
// non-2xx statuses trip the breaker; there is no retry.
func (c *Client) get(ctx context.Context, path string, loc weather.Locator) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, errNoAPIKey
	}

	values := url.Values{}
	values.Set("appid", c.apiKey)
	values.Set("units", c.units)

	switch {
	case loc.City != "":
		values.Set("q", loc.City)
	case loc.Lat != nil && loc.Lon != nil:
		values.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	default:
		return nil, errCoordsMissing
	}

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
