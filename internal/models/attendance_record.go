package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceHalfDay, AttendanceAbsent, AttendanceLate, AttendanceOnLeave:
		return true
	}
	return false
}

// AttendanceRecord is keyed by (employee, date); a second write replaces the first.
type AttendanceRecord struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CompanyID     uint             `gorm:"index;not null" json:"company_id"`
	EmployeeID    uint             `gorm:"not null;uniqueIndex:uniq_employee_date" json:"employee_id"`
	Date          string           `gorm:"size:10;not null;uniqueIndex:uniq_employee_date;index" json:"date"` // YYYY-MM-DD
	Status        AttendanceStatus `gorm:"size:20;not null" json:"status"`
	CheckInTime   string           `gorm:"size:5" json:"check_in_time,omitempty"`  // HH:mm
	CheckOutTime  string           `gorm:"size:5" json:"check_out_time,omitempty"` // HH:mm
	Notes         string           `gorm:"size:255" json:"notes,omitempty"`
	OvertimeHours decimal.Decimal  `gorm:"type:decimal(6,2);not null" json:"overtime_hours"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
