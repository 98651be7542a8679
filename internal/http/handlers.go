package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/repository"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/service"
)

const (
	serviceName = "AquaGuard API"
	version     = "1.0.0"
)

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/api")

	g.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "AquaGuard Farming API - Soil Moisture & Rainfall Insights"})
	})

	g.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   serviceName,
			"timestamp": time.Now().UTC(),
			"version":   version,
		})
	})

	g.Get("/crops", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Crops.Names())
	})

	g.Post("/farmer-input", func(c *fiber.Ctx) error {
		var in domain.FarmerInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
		}
		f, err := svcs.Farmers.Submit(c.UserContext(), in)
		if err != nil {
			return fail(c, err, "Error saving farmer input")
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	})

	g.Get("/farmer-inputs", func(c *fiber.Ctx) error {
		items, err := svcs.Farmers.List(c.UserContext(), c.QueryInt("limit", repository.DefaultListLimit))
		if err != nil {
			return fail(c, err, "Error fetching farmer inputs")
		}
		return c.JSON(items)
	})

	g.Get("/soil-moisture/:id", func(c *fiber.Ctx) error {
		out, err := svcs.Advisory.SoilMoisture(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "Error fetching soil moisture data")
		}
		return c.JSON(out)
	})

	g.Get("/rainfall-forecast/:id", func(c *fiber.Ctx) error {
		out, err := svcs.Advisory.RainfallForecast(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "Error fetching rainfall forecast")
		}
		return c.JSON(out)
	})

	g.Get("/irrigation-plan/:id", func(c *fiber.Ctx) error {
		out, err := svcs.Advisory.IrrigationPlan(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "Error generating irrigation plan")
		}
		return c.JSON(out)
	})

	g.Get("/alerts/:id", func(c *fiber.Ctx) error {
		out, err := svcs.Advisory.Alerts(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "Error generating alerts")
		}
		return c.JSON(out)
	})

	g.Get("/alerts/:id/history", func(c *fiber.Ctx) error {
		var since time.Duration
		if raw := c.Query("since"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "since must be a positive duration such as 24h"})
			}
			since = d
		}
		out, err := svcs.Advisory.AlertHistory(c.UserContext(), c.Params("id"), since)
		if err != nil {
			return fail(c, err, "Error fetching alert history")
		}
		return c.JSON(out)
	})

	g.Get("/dashboard/:id", func(c *fiber.Ctx) error {
		out, err := svcs.Advisory.Dashboard(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "Error fetching dashboard data")
		}
		return c.JSON(out)
	})

	g.Post("/dashboard/:id/archive", func(c *fiber.Ctx) error {
		url, err := svcs.Advisory.ArchiveDashboard(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err, "Error archiving dashboard")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	})
}

// fail maps service errors to status codes. Unexpected errors are logged and
// reported with the generic message only.
func fail(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrFarmerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Farmer not found"})
	case errors.Is(err, service.ErrUpstreamData):
		log.Error().Err(err).Str("path", c.Path()).Msg(msg)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msg})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrCloudDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg(msg)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
	}
}
