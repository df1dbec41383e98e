package company

import (
	"errors"
	"fmt"
	"strings"

	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/clients"
	"mirotec-backend/internal/inventory"
	"mirotec-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("company not found")
	ErrEmailTaken  = auth.ErrEmailTaken
	ErrInvalidRole = errors.New("invalid role")
)

type Registration struct {
	CompanyName string
	GSTIN       string
	State       string
	Address     string
	Phone       string
	OwnerName   string
	OwnerEmail  string
	Password    string
}

// Register creates a tenant with its owner account and the default raw
// material rows.
func Register(tx *gorm.DB, r Registration) (*models.Company, *models.User, error) {
	email := normEmail(r.OwnerEmail)
	if err := ensureEmailFree(tx, email); err != nil {
		return nil, nil, err
	}

	gstin, err := clients.NormalizeGSTIN(r.GSTIN)
	if err != nil {
		return nil, nil, err
	}
	phone, err := clients.NormalizePhone(r.Phone)
	if err != nil {
		return nil, nil, err
	}

	co := models.Company{
		Name:    strings.TrimSpace(r.CompanyName),
		GSTIN:   gstin,
		State:   strings.TrimSpace(r.State),
		Address: r.Address,
		Phone:   phone,
	}
	if err := tx.Create(&co).Error; err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, nil, err
	}
	owner := models.User{
		CompanyID:    co.ID,
		Name:         strings.TrimSpace(r.OwnerName),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleOwner,
	}
	if err := tx.Create(&owner).Error; err != nil {
		return nil, nil, err
	}

	if err := inventory.SeedDefaults(tx, co.ID); err != nil {
		return nil, nil, err
	}
	return &co, &owner, nil
}

func normEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Emails are unique across tenants since login only takes an email.
func ensureEmailFree(tx *gorm.DB, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

// AddUser creates a login for an existing company.
func AddUser(tx *gorm.DB, companyID uint, in NewUser) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	email := normEmail(in.Email)
	if err := ensureEmailFree(tx, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{
		CompanyID:    companyID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := tx.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func Get(tx *gorm.DB, companyID uint) (*models.Company, error) {
	var co models.Company
	err := tx.First(&co, companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &co, nil
}

type Profile struct {
	Name    *string `json:"name"`
	GSTIN   *string `json:"gstin"`
	State   *string `json:"state"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// Update edits the company profile. Issued invoices keep the company state
// they were issued under.
func Update(tx *gorm.DB, companyID uint, p Profile) (*models.Company, error) {
	co, err := Get(tx, companyID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		co.Name = strings.TrimSpace(*p.Name)
	}
	if p.GSTIN != nil {
		if co.GSTIN, err = clients.NormalizeGSTIN(*p.GSTIN); err != nil {
			return nil, err
		}
	}
	if p.State != nil && strings.TrimSpace(*p.State) != "" {
		co.State = strings.TrimSpace(*p.State)
	}
	if p.Address != nil {
		co.Address = *p.Address
	}
	if p.Phone != nil {
		if co.Phone, err = clients.NormalizePhone(*p.Phone); err != nil {
			return nil, err
		}
	}
	if err := tx.Save(co).Error; err != nil {
		return nil, err
	}
	return co, nil
}
