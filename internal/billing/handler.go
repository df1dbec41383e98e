package billing

import (
	"errors"
	"fmt"

	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PreviewTotalsRequest struct {
	Lines       []LineInput      `json:"line_items" validate:"required,min=1,dive"`
	ClientState string           `json:"client_state"`
	GSTRate     *decimal.Decimal `json:"gst_rate"`
}

type InvoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status" validate:"required"`
}

type ChallanStatusRequest struct {
	Status models.ChallanStatus `json:"status" validate:"required"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvoiceNotFound), errors.Is(err, ErrChallanNotFound),
		errors.Is(err, ErrClientNotFound), errors.Is(err, ErrOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidInvoice), errors.Is(err, ErrInvalidChallan):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// GET /api/invoices?status=issued&client_id=3&from=2024-05-01&to=2024-05-31
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := ListInvoices(database.DB, s.CompanyID, InvoiceFilter{
			Status:   models.InvoiceStatus(c.Query("status")),
			ClientID: uint(c.QueryInt("client_id")),
			From:     c.Query("from"),
			To:       c.Query("to"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list invoices")
		}
		return c.JSON(out)
	}
}

// GET /api/invoices/:id
func GetInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		inv, err := GetInvoice(database.DB, s.CompanyID, id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(inv)
	}
}

// POST /api/invoices
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body IssueInput
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var inv *models.Invoice
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			inv, err = IssueInvoice(tx, s.CompanyID, body)
			return err
		})
		if err != nil {
			return httpError(err)
		}
		finance.Invalidate(c.UserContext(), s.CompanyID)

		opts := audit.FromSession(s, "invoice", inv.ID, models.AuditActionCreate,
			fmt.Sprintf("Invoice %s issued to %s (%s)", inv.InvoiceNumber, inv.ClientName, inv.Status))
		opts.After = inv
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(inv)
	}
}

// PUT /api/invoices/:id/status
func UpdateInvoiceStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body InvoiceStatusRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var inv *models.Invoice
		var old models.InvoiceStatus
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			inv, old, err = UpdateInvoiceStatus(tx, s.CompanyID, id, body.Status)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		if old != inv.Status {
			finance.Invalidate(c.UserContext(), s.CompanyID)
			opts := audit.FromSession(s, "invoice", inv.ID, models.AuditActionStatus,
				fmt.Sprintf("Invoice %s: %s -> %s", inv.InvoiceNumber, old, inv.Status))
			opts.Before = fiber.Map{"status": old}
			opts.After = fiber.Map{"status": inv.Status}
			_ = audit.WriteLog(opts)
		}

		return c.JSON(inv)
	}
}

// GET /api/invoices/:id/qr  (image/png)
func InvoiceQRHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		inv, err := GetInvoice(database.DB, s.CompanyID, id)
		if err != nil {
			return httpError(err)
		}
		co, err := companyOf(database.DB, s.CompanyID)
		if err != nil {
			return err
		}

		png, err := InvoiceQRPNG(inv, co.GSTIN, c.QueryInt("size", 256))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not render QR code")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	}
}

// POST /api/invoices/preview-totals
// Computes totals without saving anything.
func PreviewTotalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body PreviewTotalsRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}
		co, err := companyOf(database.DB, s.CompanyID)
		if err != nil {
			return err
		}
		rate := DefaultGSTRate
		if body.GSTRate != nil {
			rate = *body.GSTRate
		}
		return c.JSON(ComputeInvoiceTotals(body.Lines, body.ClientState, co.State, rate))
	}
}

// GET /api/challans?status=pending&tax_period=2024-05
func ListChallansHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := ListChallans(database.DB, s.CompanyID, models.ChallanStatus(c.Query("status")), c.Query("tax_period"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list challans")
		}
		return c.JSON(out)
	}
}

// POST /api/challans
func CreateChallanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body ChallanInput
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var ch *models.GSTChallan
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			ch, err = CreateChallan(tx, s.CompanyID, body)
			return err
		})
		if err != nil {
			return httpError(err)
		}
		finance.Invalidate(c.UserContext(), s.CompanyID)

		opts := audit.FromSession(s, "challan", ch.ID, models.AuditActionCreate,
			fmt.Sprintf("Challan %s for %s (%s)", ch.ChallanNumber, ch.TaxPeriod, ch.Status))
		opts.After = ch
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(ch)
	}
}

// PUT /api/challans/:id/status
func UpdateChallanStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body ChallanStatusRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var ch *models.GSTChallan
		var old models.ChallanStatus
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			ch, old, err = UpdateChallanStatus(tx, s.CompanyID, id, body.Status)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		if old != ch.Status {
			finance.Invalidate(c.UserContext(), s.CompanyID)
			opts := audit.FromSession(s, "challan", ch.ID, models.AuditActionStatus,
				fmt.Sprintf("Challan %s: %s -> %s", ch.ChallanNumber, old, ch.Status))
			opts.Before = fiber.Map{"status": old}
			opts.After = fiber.Map{"status": ch.Status}
			_ = audit.WriteLog(opts)
		}

		return c.JSON(ch)
	}
}

// GET /api/billing/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		st, err := Summarize(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute billing stats")
		}
		return c.JSON(st)
	}
}
