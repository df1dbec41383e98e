package payroll

import (
	"bytes"
	"errors"
	"fmt"

	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrEmployeeNotFound), errors.Is(err, ErrNoSalaryConfig):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidConfig):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func monthParam(c *fiber.Ctx) (string, error) {
	month := c.Params("month")
	if _, err := utils.ParseMonth(month); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return month, nil
}

// GET /api/salary-configs
func ListConfigsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := ListConfigs(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list salary configs")
		}
		return c.JSON(out)
	}
}

// GET /api/salary-configs/:employeeId
func GetConfigHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "employeeId")
		if err != nil {
			return err
		}
		cfg, err := GetConfig(database.DB, s.CompanyID, id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(cfg)
	}
}

// PUT /api/salary-configs/:employeeId
func UpdateConfigHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "employeeId")
		if err != nil {
			return err
		}
		var patch ConfigPatch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var before, after *models.SalaryConfig
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			if before, err = GetConfig(tx, s.CompanyID, id); err != nil {
				return err
			}
			after, err = UpdateConfig(tx, s.CompanyID, id, patch)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "salary_config", id, models.AuditActionUpdate,
			fmt.Sprintf("Salary config updated: base %s -> %s", before.BaseMonthlySalary, after.BaseMonthlySalary))
		opts.Before = before
		opts.After = after
		_ = audit.WriteLog(opts)

		return c.JSON(after)
	}
}

// GET /api/payroll/:month
func MonthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		month, err := monthParam(c)
		if err != nil {
			return err
		}
		recs, err := GetForMonth(database.DB, s.CompanyID, month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute payroll")
		}
		return c.JSON(recs)
	}
}

// GET /api/payroll/:month/employees/:employeeId
func EmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		month, err := monthParam(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "employeeId")
		if err != nil {
			return err
		}
		rec, err := Calculate(database.DB, s.CompanyID, id, month)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(rec)
	}
}

// GET /api/payroll/:month/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		month, err := monthParam(c)
		if err != nil {
			return err
		}
		sum, err := Summary(database.DB, s.CompanyID, month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not summarize payroll")
		}
		return c.JSON(sum)
	}
}

// POST /api/payroll/:month/process
// Re-processing answers 200 {"processed": false}.
func ProcessHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		month, err := monthParam(c)
		if err != nil {
			return err
		}

		var processed bool
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			processed, err = Process(tx, s.CompanyID, month)
			return err
		})
		if err != nil {
			return err
		}

		if processed {
			finance.Invalidate(c.UserContext(), s.CompanyID)
			opts := audit.FromSession(s, "payroll", month, models.AuditActionStatus, "Payroll processed for "+month)
			_ = audit.WriteLog(opts)
		}
		return c.JSON(fiber.Map{"month": month, "processed": processed})
	}
}

// GET /api/payroll/:month/export  (xlsx)
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		month, err := monthParam(c)
		if err != nil {
			return err
		}
		recs, err := GetForMonth(database.DB, s.CompanyID, month)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute payroll")
		}
		names, err := EmployeeNames(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load employees")
		}

		var buf bytes.Buffer
		if err := WritePayrollXLSX(&buf, month, recs, names); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build spreadsheet")
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="payroll-%s.xlsx"`, month))
		return c.Send(buf.Bytes())
	}
}
