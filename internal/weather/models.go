package weather

import (
	"fmt"
	"time"
)

// Locator identifies the place a weather report is requested for.
// Exactly one selection mode is used: City, or a complete Lat/Lon pair.
type Locator struct {
	City string
	Lat  *float64
	Lon  *float64
}

// Valid reports whether the locator selects a place in one of the two modes.
func (l Locator) Valid() bool {
	if l.City != "" {
		return true
	}
	return l.Lat != nil && l.Lon != nil
}

// Key returns a short string form for logging.
func (l Locator) Key() string {
	if l.City != "" {
		return l.City
	}
	if l.Lat != nil && l.Lon != nil {
		return fmt.Sprintf("%.4f,%.4f", *l.Lat, *l.Lon)
	}
	return "<no locator>"
}

// Observation is the normalized current-conditions reading from the upstream provider.
type Observation struct {
	City        string  // place name as reported by the provider
	Temperature float64 // in the configured units
	WindSpeedMS float64 // metres per second
	HumidityPct float64
	RainMM      float64 // 1-hour precipitation volume, 0 when not reported
	Icon        string
	Description string
	Sunrise     int64 // epoch seconds, 0 when not reported
	Sunset      int64
}

// Sample is one normalized timestep of the 3-hour forecast series.
type Sample struct {
	Timestamp   time.Time // naive wall clock, see BuildReport
	Label       string    // original "2006-01-02 15:04:05" form from the provider
	Temperature float64
	Icon        string
	Description string
	RainMM      float64 // 3-hour precipitation volume, 0 when not reported
}

// CurrentWeather is the UI-ready snapshot of current conditions.
type CurrentWeather struct {
	Temperature     int     `json:"temperature"`
	Sunrise         string  `json:"sunrise"` // "HH:MM" in UTC, or "N/A"
	Sunset          string  `json:"sunset"`
	WindSpeed       float64 `json:"wind_speed"` // km/h, one decimal
	Humidity        int     `json:"humidity"`
	Icon            string  `json:"icon"`
	RainProbability int     `json:"rain_probability"`
}

// TodayForecast summarizes the samples falling on the current calendar date.
type TodayForecast struct {
	Date            string `json:"date"`
	Temperature     int    `json:"temperature"` // day average
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	RainProbability int    `json:"rain_probability"`
}

// HourlyForecast is one entry of the rolling hourly window.
type HourlyForecast struct {
	Time            string `json:"time"`
	Temperature     int    `json:"temperature"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	RainProbability int    `json:"rain_probability"`
}

// DailyForecast is one entry of the multi-day rollup.
type DailyForecast struct {
	Date            string `json:"date"`
	TemperatureMax  int    `json:"temperature_max"`
	TemperatureMin  int    `json:"temperature_min"`
	Icon            string `json:"icon"`
	Description     string `json:"description"`
	RainProbability int    `json:"rain_probability"`
}

// Report is the complete response for one weather request.
// Forecast is nil when no sample for today's date exists in the series.
type Report struct {
	City           string           `json:"city"`
	CurrentWeather CurrentWeather   `json:"current_weather"`
	Forecast       *TodayForecast   `json:"forecast"`
	HourlyForecast []HourlyForecast `json:"hourly_forecast"`
	DailyForecast  []DailyForecast  `json:"daily_forecast"`
}
