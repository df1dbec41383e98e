package company

import (
	"errors"

	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/clients"
	"mirotec-backend/internal/config"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,max=150"`
	GSTIN       string `json:"gstin"`
	State       string `json:"state" validate:"required,max=50"`
	Address     string `json:"address" validate:"max=255"`
	Phone       string `json:"phone"`
	OwnerName   string `json:"owner_name" validate:"required,max=100"`
	OwnerEmail  string `json:"owner_email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailTaken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, clients.ErrInvalidGSTIN), errors.Is(err, clients.ErrInvalidPhone),
		errors.Is(err, ErrInvalidRole):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// POST /api/auth/register-company
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var co *models.Company
		var owner *models.User
		err := database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var err error
			co, owner, err = Register(tx, Registration{
				CompanyName: body.CompanyName,
				GSTIN:       body.GSTIN,
				State:       body.State,
				Address:     body.Address,
				Phone:       body.Phone,
				OwnerName:   body.OwnerName,
				OwnerEmail:  body.OwnerEmail,
				Password:    body.Password,
			})
			return err
		})
		if err != nil {
			return httpError(err)
		}

		token, err := auth.GenerateToken(cfg.JWTSecret, cfg.TokenTTL(), owner)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   co.ID,
			UserID:      owner.ID,
			UserName:    owner.Name,
			EntityType:  "company",
			EntityID:    co.ID,
			Action:      models.AuditActionCreate,
			Description: "Company registered: " + co.Name,
			After:       co,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token":   token,
			"user":    auth.ToUserResponse(owner),
			"company": co,
		})
	}
}

// GET /api/company
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		co, err := Get(database.DB, s.CompanyID)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(co)
	}
}

// PUT /api/company (owner)
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body Profile
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var before, after *models.Company
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			if before, err = Get(tx, s.CompanyID); err != nil {
				return err
			}
			after, err = Update(tx, s.CompanyID, body)
			return err
		})
		if err != nil {
			return httpError(err)
		}

		opts := audit.FromSession(s, "company", s.CompanyID, models.AuditActionUpdate, "Company profile updated")
		opts.Before = before
		opts.After = after
		_ = audit.WriteLog(opts)

		return c.JSON(after)
	}
}

// POST /api/users (owner)
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.SessionFrom(c)
		if err != nil {
			return err
		}
		var body CreateUserRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		var user *models.User
		err = database.RunCommand(c.UserContext(), s.CompanyID, func(tx *gorm.DB) error {
			var err error
			user, err = AddUser(tx, s.CompanyID, NewUser{
				Name:     body.Name,
				Email:    body.Email,
				Password: body.Password,
				Role:     body.Role,
			})
			return err
		})
		if err != nil {
			return httpError(err)
		}

		resp := auth.ToUserResponse(user)
		opts := audit.FromSession(s, "user", user.ID, models.AuditActionCreate, "User created: "+user.Email)
		opts.After = resp
		_ = audit.WriteLog(opts)

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}
