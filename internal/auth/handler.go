package auth

import (
	"errors"
	"strings"

	"mirotec-backend/internal/config"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	CompanyID   uint            `json:"company_id"`
	Permissions []Permission    `json:"permissions"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		CompanyID:   u.CompanyID,
		Permissions: PermissionsFor(u.Role),
	}
}

var ErrEmailTaken = errors.New("email already registered")

func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		err := database.DB.Where("email = ?", body.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not look up user")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.TokenTTL(), &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  ToUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := SessionFrom(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Company").First(&user, "id = ? AND company_id = ?", s.UserID, s.CompanyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		return c.JSON(fiber.Map{
			"user":    ToUserResponse(&user),
			"company": user.Company,
		})
	}
}
