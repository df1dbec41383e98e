package orders

import (
	"errors"
	"fmt"

	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	ClientID   *uint              `json:"client_id"`
	ClientName string             `json:"client_name" validate:"required_without=ClientID,max=150"`
	ProductKey string             `json:"product_key" validate:"required,max=50"`
	Quantity   decimal.Decimal    `json:"quantity" validate:"gt=0"`
	Amount     decimal.Decimal    `json:"amount" validate:"gte=0"`
	Date       string             `json:"date"`
	Status     models.OrderStatus `json:"status"`
}

type StatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrClientNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// GET /api/orders?client_id=3&status=pending
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := List(database.DB, s.CompanyID, uint(c.QueryInt("client_id")), models.OrderStatus(c.Query("status")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list orders")
		}
		return c.JSON(out)
	}
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body CreateOrderRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		o := models.Order{
			ClientID:   body.ClientID,
			ClientName: body.ClientName,
			ProductKey: body.ProductKey,
			Quantity:   body.Quantity,
			Amount:     body.Amount,
			Date:       body.Date,
			Status:     body.Status,
		}
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			return Create(tx, s.CompanyID, &o)
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "order", o.ID, models.AuditActionCreate,
			fmt.Sprintf("Order for %s: %s %s", o.ClientName, o.Quantity, o.ProductKey))
		opts.After = o
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// PUT /api/orders/:id/status
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body StatusRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var old models.OrderStatus
		var o *models.Order
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			prev, err := Get(tx, s.CompanyID, id)
			if err != nil {
				return err
			}
			old = prev.Status
			o, err = UpdateStatus(tx, s.CompanyID, id, body.Status)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		if old != o.Status {
			opts := audit.FromSession(s, "order", id, models.AuditActionStatus,
				fmt.Sprintf("Order status: %s -> %s", old, o.Status))
			opts.Before = map[string]any{"status": old}
			opts.After = map[string]any{"status": o.Status}
			_ = audit.WriteLog(opts)
		}
		return c.JSON(o)
	}
}
