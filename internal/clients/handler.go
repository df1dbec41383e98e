package clients

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

type ClientRequest struct {
	ClientName      string          `json:"client_name" validate:"required,max=150"`
	CompanyName     string          `json:"company_name" validate:"max=150"`
	GSTIN           string          `json:"gstin" validate:"omitempty,len=15"`
	BillingAddress  string          `json:"billing_address" validate:"max=255"`
	ShippingAddress string          `json:"shipping_address" validate:"max=255"`
	ContactPerson   string          `json:"contact_person" validate:"max=100"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email" validate:"omitempty,email"`
	State           string          `json:"state" validate:"max=50"`
	CreditLimit     decimal.Decimal `json:"credit_limit" validate:"gte=0"`
	IsActive        *bool           `json:"is_active"`
}

func (r ClientRequest) toModel() models.Client {
	return models.Client{
		ClientName:      r.ClientName,
		CompanyName:     r.CompanyName,
		GSTIN:           r.GSTIN,
		BillingAddress:  r.BillingAddress,
		ShippingAddress: r.ShippingAddress,
		ContactPerson:   r.ContactPerson,
		Phone:           r.Phone,
		Email:           r.Email,
		State:           r.State,
		CreditLimit:     r.CreditLimit,
	}
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidGSTIN), errors.Is(err, ErrInvalidPhone):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// GET /api/clients?all=true
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := List(database.DB, s.CompanyID, c.QueryBool("all"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list clients")
		}
		return c.JSON(out)
	}
}

// GET /api/clients/:id
func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		cl, err := Get(database.DB, s.CompanyID, id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(cl)
	}
}

// POST /api/clients
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body ClientRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		cl := body.toModel()
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			return Create(tx, s.CompanyID, &cl)
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "client", cl.ID, models.AuditActionCreate, "Client added: "+cl.ClientName)
		opts.After = cl
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(cl)
	}
}

// PUT /api/clients/:id
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body ClientRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var before, after *models.Client
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			if before, err = Get(tx, s.CompanyID, id); err != nil {
				return err
			}
			next := body.toModel()
			next.IsActive = before.IsActive
			if body.IsActive != nil {
				next.IsActive = *body.IsActive
			}
			after, err = Update(tx, s.CompanyID, id, next)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "client", id, models.AuditActionUpdate, "Client updated: "+after.ClientName)
		opts.Before = before
		opts.After = after
		_ = audit.WriteLog(opts)

		return c.JSON(after)
	}
}

// GET /api/clients/:id/summary
func ClientSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		sum, err := Summarize(database.DB, s.CompanyID, id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(sum)
	}
}
