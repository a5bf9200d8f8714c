package httpapi

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nimbusweather/nimbus-backend/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	// Coordinate mode: /weather?lat=...&lon=...
	app.Get("/weather", func(c *fiber.Ctx) error {
		var q coordsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Report(c.Context(), q.toLocator())
		return respond(c, report, err)
	})

	// City mode: /weather/:city
	app.Get("/weather/:city", func(c *fiber.Ctx) error {
		city := c.Params("city")
		if decoded, err := url.PathUnescape(city); err == nil {
			city = decoded
		}
		city = strings.TrimSpace(city)
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, weather.ErrMissingLocator.Error())
		}

		report, err := service.Report(c.Context(), weather.Locator{City: city})
		return respond(c, report, err)
	})
}

func respond(c *fiber.Ctx, report *weather.Report, err error) error {
	if err != nil {
		if errors.Is(err, weather.ErrMissingLocator) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		var ue *weather.UpstreamError
		if errors.As(err, &ue) {
			return fiber.NewError(fiber.StatusInternalServerError, ue.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build weather report: "+err.Error())
	}
	return c.JSON(report)
}

// coordsQuery holds the coordinate-mode query parameters. Both fields
// must be present and parseable before any upstream call is made.
type coordsQuery struct {
	Lat *float64 `validate:"required"`
	Lon *float64 `validate:"required"`
}

func (q *coordsQuery) bind(c *fiber.Ctx) error {
	if v := c.Query("lat"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New("invalid lat query parameter")
		}
		q.Lat = &lat
	}
	if v := c.Query("lon"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New("invalid lon query parameter")
		}
		q.Lon = &lon
	}

	if err := validate.Struct(q); err != nil {
		return weather.ErrMissingLocator
	}
	return nil
}

func (q coordsQuery) toLocator() weather.Locator {
	return weather.Locator{Lat: q.Lat, Lon: q.Lon}
}
