package production

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

type CreateMachineRequest struct {
	Name        string               `json:"name" validate:"required,max=50"`
	Type        models.MachineType   `json:"type" validate:"required"`
	Status      models.MachineStatus `json:"status"`
	Temperature decimal.Decimal      `json:"temperature"`
	OperatorID  *uint                `json:"operator_id"`
}

type UpdateStatusRequest struct {
	Status models.MachineStatus `json:"status" validate:"required"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// GET /api/machines
func ListMachinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		machines, err := List(database.DB, s.CompanyID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list machines")
		}
		return c.JSON(machines)
	}
}

// POST /api/machines
func CreateMachineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body CreateMachineRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		m := models.Machine{
			Name:        body.Name,
			Type:        body.Type,
			Status:      body.Status,
			Temperature: body.Temperature,
			OperatorID:  body.OperatorID,
		}
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			return Add(tx, s.CompanyID, &m)
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "machine", m.ID, models.AuditActionCreate, "Machine added: "+m.Name)
		opts.After = m
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// PUT /api/machines/:id/status
// A blocked start answers 409 with the short material.
func UpdateMachineStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		id, err := utils.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateStatusRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var before models.Machine
		var after *models.Machine
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			m, err := Get(tx, s.CompanyID, id)
			if err != nil {
				return err
			}
			before = *m
			after, err = Transition(tx, s.CompanyID, id, body.Status)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		if before.Status != after.Status {
			opts := audit.FromSession(s, "machine", id, models.AuditActionStatus,
				"Machine "+after.Name+": "+string(before.Status)+" -> "+string(after.Status))
			opts.Before = before
			opts.After = after
			_ = audit.WriteLog(opts)
		}

		return c.JSON(after)
	}
}

// GET /api/machines/consumption
func ConsumptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(Consumption())
	}
}
