package weather

import (
	"math"
	"time"
)

// TimestampLayout is the naive local-format timestamp used by the
// provider's forecast series ("dt_txt").
const TimestampLayout = "2006-01-02 15:04:05"

const (
	dateLayout = "2006-01-02"

	// hourlyHorizon bounds the rolling hourly window relative to "now".
	hourlyHorizon = 15 * time.Hour

	// maxForecastDays caps the daily rollup.
	maxForecastDays = 5

	// sunUnavailable is reported when the provider omits sunrise/sunset.
	sunUnavailable = "N/A"
)

// RainProbability converts a raw precipitation volume (mm over the
// provider's bucket) into a bounded percentage. This is a deliberately
// simplistic UI proxy, not a meteorological probability; the 100x scale
// and the 100 cap are kept for output compatibility.
func RainProbability(mm float64) int {
	if mm <= 0 {
		return 0
	}
	p := int(math.Round(mm * 100))
	if p > 100 {
		p = 100
	}
	return p
}

// BuildReport derives the full report from one current-conditions
// observation and the normalized forecast series. now is captured once
// by the caller so the hourly window and the today lookup stay
// consistent across the whole computation.
//
// Provider timestamps are naive; they are compared against now as plain
// wall-clock values with no timezone reconciliation. Known fidelity gap,
// kept on purpose: reconciling zones would change which samples land in
// the hourly window.
func BuildReport(obs Observation, samples []Sample, now time.Time) *Report {
	daily, today := dailyRollup(samples, now)

	return &Report{
		City:           obs.City,
		CurrentWeather: currentWeather(obs),
		Forecast:       today,
		HourlyForecast: selectHourly(samples, now),
		DailyForecast:  daily,
	}
}

func currentWeather(obs Observation) CurrentWeather {
	return CurrentWeather{
		Temperature:     roundInt(obs.Temperature),
		Sunrise:         formatSunTime(obs.Sunrise),
		Sunset:          formatSunTime(obs.Sunset),
		WindSpeed:       math.Round(obs.WindSpeedMS*3.6*10) / 10, // m/s -> km/h
		Humidity:        roundInt(obs.HumidityPct),
		Icon:            obs.Icon,
		RainProbability: RainProbability(obs.RainMM),
	}
}

// selectHourly keeps the samples with now <= t <= now+15h, in original order.
// An empty result is valid, e.g. when the series starts beyond the horizon.
func selectHourly(samples []Sample, now time.Time) []HourlyForecast {
	horizon := now.Add(hourlyHorizon)

	out := make([]HourlyForecast, 0, len(samples))
	for _, s := range samples {
		if s.Timestamp.Before(now) || s.Timestamp.After(horizon) {
			continue
		}
		out = append(out, HourlyForecast{
			Time:            s.Label,
			Temperature:     roundInt(s.Temperature),
			Description:     s.Description,
			Icon:            s.Icon,
			RainProbability: RainProbability(s.RainMM),
		})
	}
	return out
}

// dayAccum accumulates one calendar date's samples. Description and icon
// come from the first sample seen for the date; rain keeps the running
// maximum volume, so a single heavy burst dominates the day's score.
type dayAccum struct {
	date        string
	description string
	icon        string
	sum         float64
	min         float64
	max         float64
	maxRain     float64
	count       int
}

// dailyRollup groups the series by the date portion of each sample's
// label, in first-seen order. Today's summary is located in the full
// group sequence before the 5-entry truncation, so it is present even
// when today does not survive the cut.
func dailyRollup(samples []Sample, now time.Time) ([]DailyForecast, *TodayForecast) {
	byDate := make(map[string]*dayAccum)
	var days []*dayAccum

	for _, s := range samples {
		date := s.Label
		if len(date) >= len(dateLayout) {
			date = date[:len(dateLayout)]
		}

		acc, ok := byDate[date]
		if !ok {
			acc = &dayAccum{
				date:        date,
				description: s.Description,
				icon:        s.Icon,
				min:         s.Temperature,
				max:         s.Temperature,
			}
			byDate[date] = acc
			days = append(days, acc)
		}

		acc.sum += s.Temperature
		acc.count++
		if s.Temperature < acc.min {
			acc.min = s.Temperature
		}
		if s.Temperature > acc.max {
			acc.max = s.Temperature
		}
		if s.RainMM > acc.maxRain {
			acc.maxRain = s.RainMM
		}
	}

	var today *TodayForecast
	todayDate := now.Format(dateLayout)
	for _, d := range days {
		if d.date == todayDate {
			today = &TodayForecast{
				Date:            d.date,
				Temperature:     roundInt(d.sum / float64(d.count)),
				Description:     d.description,
				Icon:            d.icon,
				RainProbability: RainProbability(d.maxRain),
			}
			break
		}
	}

	if len(days) > maxForecastDays {
		days = days[:maxForecastDays]
	}

	out := make([]DailyForecast, 0, len(days))
	for _, d := range days {
		out = append(out, DailyForecast{
			Date:            d.date,
			TemperatureMax:  roundInt(d.max),
			TemperatureMin:  roundInt(d.min),
			Icon:            d.icon,
			Description:     d.description,
			RainProbability: RainProbability(d.maxRain),
		})
	}
	return out, today
}

func formatSunTime(epoch int64) string {
	if epoch == 0 {
		return sunUnavailable
	}
	return time.Unix(epoch, 0).UTC().Format("15:04")
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
