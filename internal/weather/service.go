package weather

import (
	"context"
	"log"
	"sync"
	"time"
)

// Source abstracts the upstream weather data provider.
type Source interface {
	// Current fetches the normalized current-conditions observation.
	Current(ctx context.Context, loc Locator) (Observation, error)
	// Forecast fetches the normalized multi-day 3-hour forecast series,
	// ordered as returned by the provider (typically chronological).
	Forecast(ctx context.Context, loc Locator) ([]Sample, error)
}

// Service orchestrates the two upstream fetches and the aggregation
// pipeline. It is stateless; every report is built fresh per request.
type Service struct {
	source Source
}

// NewService creates a new Service backed by the given source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Report validates the locator, fetches current conditions and the
// forecast series concurrently, and aggregates them into one Report.
// The first upstream failure aborts the request; partial results are
// never returned.
func (s *Service) Report(ctx context.Context, loc Locator) (*Report, error) {
	if !loc.Valid() {
		return nil, ErrMissingLocator
	}

	var (
		wg      sync.WaitGroup
		obs     Observation
		samples []Sample
		obsErr  error
		fcErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		obs, obsErr = s.source.Current(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		samples, fcErr = s.source.Forecast(ctx, loc)
	}()
	wg.Wait()

	if obsErr != nil {
		log.Printf("current-conditions fetch failed for %s: %v", loc.Key(), obsErr)
		return nil, &UpstreamError{Call: CallCurrent, Err: obsErr}
	}
	if fcErr != nil {
		log.Printf("forecast fetch failed for %s: %v", loc.Key(), fcErr)
		return nil, &UpstreamError{Call: CallForecast, Err: fcErr}
	}

	return BuildReport(obs, samples, time.Now()), nil
}
