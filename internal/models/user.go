package models

import "time"

type UserRole string

const (
	RoleOwner      UserRole = "owner"
	RoleManager    UserRole = "manager"
	RoleSupervisor UserRole = "supervisor"
	RoleOperator   UserRole = "operator"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleSupervisor, RoleOperator:
		return true
	}
	return false
}

type User struct {
	ID           uint `gorm:"primaryKey"`
	CompanyID    uint `gorm:"index;not null"`
	Company      *Company
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
