package weather

import (
	"errors"
	"fmt"
)

// ErrMissingLocator is returned when neither a city nor a complete
// lat/lon pair was supplied. No upstream call is made in that case.
var ErrMissingLocator = errors.New("either a city or a complete lat/lon pair is required")

// Upstream call names carried by UpstreamError.
const (
	CallCurrent  = "current"
	CallForecast = "forecast"
)

// UpstreamError wraps a failed upstream fetch. Call records which of the
// two reads failed; the client-visible handling is the same for both.
type UpstreamError struct {
	Call string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s fetch failed: %v", e.Call, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
