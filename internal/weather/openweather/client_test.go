package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nimbusweather/nimbus-backend/internal/weather"
)

const currentPayload = `{
	"name": "Madrid",
	"main": {"temp": 20.4, "humidity": 64},
	"wind": {"speed": 5},
	"weather": [{"description": "few clouds", "icon": "02d"}],
	"sys": {"sunrise": 1714539153, "sunset": 1714591685}
}`

const forecastPayload = `{
	"list": [
		{
			"dt_txt": "2024-05-01 15:00:00",
			"main": {"temp": 19.0},
			"weather": [{"description": "light rain", "icon": "10d"}],
			"rain": {"3h": 0.02}
		},
		{
			"dt_txt": "2024-05-01 18:00:00",
			"main": {"temp": 17.3},
			"weather": [{"description": "few clouds", "icon": "02d"}]
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.Client(), "test-key", srv.URL, "metric")
}

func TestCurrent(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(currentPayload))
	})

	obs, err := client.Current(context.Background(), weather.Locator{City: "Madrid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "Madrid" {
		t.Errorf("q = %q, want Madrid", gotQuery)
	}
	if obs.City != "Madrid" || obs.Temperature != 20.4 || obs.WindSpeedMS != 5 {
		t.Errorf("unexpected observation: %+v", obs)
	}
	// rain.1h absent means no precipitation.
	if obs.RainMM != 0 {
		t.Errorf("rain = %v, want 0", obs.RainMM)
	}
	if obs.Sunrise != 1714539153 || obs.Sunset != 1714591685 {
		t.Errorf("sun times = %d/%d", obs.Sunrise, obs.Sunset)
	}
}

func TestCurrentCoordinates(t *testing.T) {
	var gotLat, gotLon string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("lat")
		gotLon = r.URL.Query().Get("lon")
		w.Write([]byte(currentPayload))
	})

	lat, lon := 40.4168, -3.7038
	if _, err := client.Current(context.Background(), weather.Locator{Lat: &lat, Lon: &lon}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLat != "40.4168" || gotLon != "-3.7038" {
		t.Errorf("lat/lon = %q/%q", gotLat, gotLon)
	}
}

func TestCurrentMissingWeatherArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Madrid", "main": {"temp": 20}, "weather": []}`))
	})

	if _, err := client.Current(context.Background(), weather.Locator{City: "Madrid"}); err == nil {
		t.Fatal("expected error for missing weather condition")
	}
}

func TestCurrentNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "city not found"}`, http.StatusNotFound)
	})

	if _, err := client.Current(context.Background(), weather.Locator{City: "Nowhere"}); err == nil {
		t.Fatal("expected error for non-success status")
	}
}

func TestForecast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(forecastPayload))
	})

	samples, err := client.Forecast(context.Background(), weather.Locator{City: "Madrid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	s := samples[0]
	if s.Label != "2024-05-01 15:00:00" {
		t.Errorf("label = %q", s.Label)
	}
	want := time.Date(2024, 5, 1, 15, 0, 0, 0, time.Local)
	if !s.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", s.Timestamp, want)
	}
	if s.Temperature != 19.0 || s.RainMM != 0.02 {
		t.Errorf("unexpected sample: %+v", s)
	}
	// Second sample has no rain bucket.
	if samples[1].RainMM != 0 {
		t.Errorf("rain = %v, want 0", samples[1].RainMM)
	}
}

func TestForecastEmptySeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": []}`))
	})

	if _, err := client.Forecast(context.Background(), weather.Locator{City: "Madrid"}); err == nil {
		t.Fatal("expected error for empty forecast series")
	}
}

func TestMissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := New(srv.Client(), "", srv.URL, "metric")
	if _, err := client.Current(context.Background(), weather.Locator{City: "Madrid"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if called {
		t.Fatal("request was issued without an api key")
	}
}
