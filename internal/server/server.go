// Package server wires the HTTP surface: middleware, error rendering and routes.
package server

import (
	"errors"
	"strings"
	"time"

	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/config"
	"mirotec-backend/internal/inventory"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error as {"error": msg}. Stock shortages and
// validation failures carry their details along.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var stock *inventory.InsufficientStockError
	if errors.As(err, &stock) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "insufficient stock",
			"material":  stock.Material,
			"required":  stock.Required,
			"available": stock.Available,
		})
	}

	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}

	config.GetLogger().WithFields(logrus.Fields{
		"request_id": c.Locals(auth.CtxRequestIDKey),
		"method":     c.Method(),
		"path":       c.Path(),
	}).WithError(err).Error("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected server error"})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var ferr *fiber.Error
			if errors.As(err, &ferr) {
				status = ferr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		config.GetLogger().WithFields(logrus.Fields{
			"request_id": c.Locals(auth.CtxRequestIDKey),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}).Debug("request")
		return err
	}
}

func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: auth.CtxRequestIDKey,
	}))
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	Register(app, cfg)
	return app
}
