package inventory

import (
	"errors"

	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateItemRequest struct {
	MaterialKey    string                   `json:"material_key" validate:"required,max=50"`
	Name           string                   `json:"name" validate:"required,max=100"`
	Category       models.InventoryCategory `json:"category" validate:"required,oneof=raw_material finished_goods"`
	Quantity       decimal.Decimal          `json:"quantity" validate:"gte=0"`
	Unit           string                   `json:"unit"`
	MinStock       decimal.Decimal          `json:"min_stock" validate:"gte=0"`
	EstimatedValue decimal.Decimal          `json:"estimated_value" validate:"gte=0"`
}

type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNegativeQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateKey):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}

// GET /api/inventory?category=raw_material
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		items, err := List(database.DB, s.CompanyID, models.InventoryCategory(c.Query("category")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list inventory")
		}
		return c.JSON(items)
	}
}

// GET /api/inventory/low-stock
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		items, err := LowStock(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list low stock items")
		}
		return c.JSON(items)
	}
}

// POST /api/inventory
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}

		var body CreateItemRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		item := models.InventoryItem{
			MaterialKey:    body.MaterialKey,
			Name:           body.Name,
			Category:       body.Category,
			Quantity:       body.Quantity,
			Unit:           body.Unit,
			MinStock:       body.MinStock,
			EstimatedValue: body.EstimatedValue,
		}
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			return AddItem(tx, s.CompanyID, &item)
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "inventory_item", item.ID, models.AuditActionCreate, "Inventory item added: "+item.MaterialKey)
		opts.After = item
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/inventory/:id/quantity
func SetQuantityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}

		var body SetQuantityRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var before, after *models.InventoryItem
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			if before, err = Get(tx, s.CompanyID, id); err != nil {
				return err
			}
			after, err = SetQuantity(tx, s.CompanyID, id, body.Quantity)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "inventory_item", id, models.AuditActionUpdate,
			"Stock counted: "+after.MaterialKey+" "+before.Quantity.String()+" -> "+after.Quantity.String())
		opts.Before = before
		opts.After = after
		_ = audit.WriteLog(opts)

		return c.JSON(after)
	}
}
