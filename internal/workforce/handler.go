package workforce

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

type CreateEmployeeRequest struct {
	Name         string                  `json:"name" validate:"required,max=100"`
	EmployeeCode string                  `json:"employee_code" validate:"max=20"`
	Role         models.EmployeeRole     `json:"role" validate:"required,oneof=supervisor operator technician helper"`
	Department   models.Department       `json:"department" validate:"omitempty,oneof=production packaging maintenance"`
	Shift        models.Shift            `json:"shift" validate:"omitempty,oneof=morning evening night"`
	Attendance   models.AttendanceStatus `json:"attendance"`
}

type AttendanceFlagRequest struct {
	Attendance models.AttendanceStatus `json:"attendance" validate:"required"`
}

type AttendanceRequest struct {
	EmployeeID    uint                    `json:"employee_id" validate:"required"`
	Date          string                  `json:"date" validate:"required"`
	Status        models.AttendanceStatus `json:"status" validate:"required"`
	CheckInTime   string                  `json:"check_in_time"`
	CheckOutTime  string                  `json:"check_out_time"`
	Notes         string                  `json:"notes" validate:"max=255"`
	OvertimeHours decimal.Decimal         `json:"overtime_hours" validate:"gte=0"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrEmployeeNotFound), errors.Is(err, ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidEmployee), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidAttendance):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// GET /api/employees
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		out, err := ListEmployees(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list employees")
		}
		return c.JSON(out)
	}
}

// POST /api/employees
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body CreateEmployeeRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		emp := models.Employee{
			Name:         body.Name,
			EmployeeCode: body.EmployeeCode,
			Role:         body.Role,
			Department:   body.Department,
			Shift:        body.Shift,
			Attendance:   body.Attendance,
		}
		var cfg *models.SalaryConfig
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			cfg, err = AddEmployee(tx, s.CompanyID, &emp)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "employee", emp.ID, models.AuditActionCreate,
			fmt.Sprintf("Employee added: %s %s (%s)", emp.EmployeeCode, emp.Name, emp.Role))
		opts.After = emp
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"employee": emp, "salary_config": cfg})
	}
}

// PUT /api/employees/:id/attendance
func SetAttendanceFlagHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body AttendanceFlagRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var emp *models.Employee
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			emp, err = SetAttendanceFlag(tx, s.CompanyID, id, body.Attendance)
			return err
		})
		if err != nil {
			return httpError(err)
		}
		return c.JSON(emp)
	}
}

// POST /api/attendance
func UpsertAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body AttendanceRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		rec := models.AttendanceRecord{
			EmployeeID:    body.EmployeeID,
			Date:          body.Date,
			Status:        body.Status,
			CheckInTime:   body.CheckInTime,
			CheckOutTime:  body.CheckOutTime,
			Notes:         body.Notes,
			OvertimeHours: body.OvertimeHours,
		}
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			return UpsertAttendance(tx, s.CompanyID, &rec)
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "attendance", rec.ID, models.AuditActionUpdate,
			fmt.Sprintf("Attendance %s for employee %d: %s", rec.Date, rec.EmployeeID, rec.Status))
		opts.After = rec
		_ = audit.WriteLog(opts)

		return c.JSON(rec)
	}
}

// PUT /api/attendance/:employeeId/:date
func UpdateAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "employeeId")
		if err != nil {
			return err
		}
		date := c.Params("date")
		var patch AttendancePatch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var before, after *models.AttendanceRecord
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			if before, err = GetAttendance(tx, s.CompanyID, id, date); err != nil {
				return err
			}
			after, err = UpdateAttendance(tx, s.CompanyID, id, date, patch)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "attendance", after.ID, models.AuditActionUpdate,
			fmt.Sprintf("Attendance %s for employee %d corrected", date, id))
		opts.Before = before
		opts.After = after
		_ = audit.WriteLog(opts)

		return c.JSON(after)
	}
}

// GET /api/attendance?date=2024-05-02
func AttendanceByDateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		date := c.Query("date", utils.Today())
		if _, err := utils.ParseDate(date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		out, err := AttendanceByDate(database.DB, s.CompanyID, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list attendance")
		}
		return c.JSON(out)
	}
}

// GET /api/attendance/employee/:id?from=...&to=...
func EmployeeAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		out, err := AttendanceForEmployee(database.DB, s.CompanyID, id, c.Query("from"), c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list attendance")
		}
		return c.JSON(out)
	}
}

// GET /api/attendance/employee/:id/stats?from=...&to=...
func EmployeeStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		st, err := AttendanceStatsFor(database.DB, s.CompanyID, id, c.Query("from"), c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute attendance stats")
		}
		return c.JSON(st)
	}
}
