package models

import "time"

type EmployeeRole string

const (
	EmployeeSupervisor EmployeeRole = "supervisor"
	EmployeeOperator   EmployeeRole = "operator"
	EmployeeTechnician EmployeeRole = "technician"
	EmployeeHelper     EmployeeRole = "helper"
)

func (r EmployeeRole) Valid() bool {
	switch r {
	case EmployeeSupervisor, EmployeeOperator, EmployeeTechnician, EmployeeHelper:
		return true
	}
	return false
}

type Department string

const (
	DepartmentProduction  Department = "production"
	DepartmentPackaging   Department = "packaging"
	DepartmentMaintenance Department = "maintenance"
)

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

type Employee struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	CompanyID    uint         `gorm:"not null;uniqueIndex:uniq_company_employee_code" json:"company_id"`
	Name         string       `gorm:"size:100;not null" json:"name"`
	EmployeeCode string       `gorm:"size:20;not null;uniqueIndex:uniq_company_employee_code" json:"employee_code"` // EMP001
	Role         EmployeeRole `gorm:"size:20;not null" json:"role"`
	Department   Department   `gorm:"size:20;not null" json:"department"`
	Shift        Shift        `gorm:"size:20;not null" json:"shift"`
	// Convenience cache for the dashboard; attendance_records is authoritative.
	Attendance AttendanceStatus `gorm:"size:20" json:"attendance"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
