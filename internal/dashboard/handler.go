package dashboard

import (
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/finance"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/kpis
func KPIsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		summary, err := finance.CachedSummary(c.UserContext(), database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute finance summary")
		}
		k, err := Collect(database.DB, s.CompanyID, summary)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute dashboard")
		}
		return c.JSON(k)
	}
}

// GET /api/dashboard/alerts
func AlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := Alerts(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute alerts")
		}
		return c.JSON(out)
	}
}
