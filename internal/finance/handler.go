package finance

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateManualEntryRequest struct {
	Description string                     `json:"description" validate:"required,max=255"`
	Type        models.TransactionType     `json:"type" validate:"required,oneof=credit debit"`
	Amount      decimal.Decimal            `json:"amount" validate:"gt=0"`
	Category    models.TransactionCategory `json:"category"`
	Status      models.PaymentStatus       `json:"status"`
	Date        string                     `json:"date"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidEntry):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

func filterFromQuery(c *fiber.Ctx) ListFilter {
	return ListFilter{
		Type:     models.TransactionType(c.Query("type")),
		Source:   models.TransactionSource(c.Query("source")),
		Category: models.TransactionCategory(c.Query("category")),
		Status:   models.PaymentStatus(c.Query("status")),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}
}

// GET /api/transactions?type=credit&source=invoice&from=2024-05-01&to=2024-05-31
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		entries, err := List(database.DB, s.CompanyID, filterFromQuery(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list transactions")
		}
		return c.JSON(entries)
	}
}

// POST /api/transactions
func CreateManualEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body CreateManualEntryRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		entry := models.Transaction{
			Description: body.Description,
			Type:        body.Type,
			Amount:      body.Amount,
			Category:    body.Category,
			Status:      body.Status,
			Date:        body.Date,
		}
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			return AddManual(tx, s.CompanyID, &entry)
		})
		if err != nil {
			return httpError(err)
		}
		Invalidate(c.UserContext(), s.CompanyID)

		opts := audit.FromSession(s, "transaction", entry.ID, models.AuditActionCreate,
			fmt.Sprintf("Manual %s entry: %s %s", entry.Type, entry.Description, entry.Amount))
		opts.After = entry
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// GET /api/finance/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		summary, err := CachedSummary(c.UserContext(), database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute summary")
		}
		return c.JSON(summary)
	}
}

// GET /api/finance/chart?period=daily&count=7
func ChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		count := c.QueryInt("count", 0)
		if count < 0 || count > 366 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid count")
		}
		resp, err := Chart(database.DB, s.CompanyID, c.Query("period", "daily"), count, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build chart")
		}
		return c.JSON(resp)
	}
}

// GET /api/finance/export?from=...&to=...  (xlsx)
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		entries, err := List(database.DB, s.CompanyID, filterFromQuery(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list transactions")
		}

		var buf bytes.Buffer
		if err := WriteLedgerXLSX(&buf, entries); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build spreadsheet")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ledger-%s.xlsx"`, utils.Today()))
		return c.Send(buf.Bytes())
	}
}

// POST /api/finance/reconcile
func ReconcileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}

		var report ReconcileReport
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			report, err = Reconcile(tx, s.CompanyID)
			return err
		})
		if err != nil {
			return err
		}
		Invalidate(c.UserContext(), s.CompanyID)

		if len(report.Created)+len(report.Removed) > 0 {
			opts := audit.FromSession(s, "ledger", s.CompanyID, models.AuditActionUpdate,
				fmt.Sprintf("Ledger reconciled: %d created, %d removed", len(report.Created), len(report.Removed)))
			opts.After = report
			_ = audit.WriteLog(opts)
		}

		return c.JSON(report)
	}
}
