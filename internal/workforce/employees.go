package workforce

import (
	"errors"
	"fmt"
	"strings"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/payroll"

	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidEmployee  = errors.New("invalid employee")
	ErrInvalidStatus    = errors.New("invalid attendance status")
)

func nextEmployeeCode(tx *gorm.DB, companyID uint) (string, error) {
	var n int64
	if err := tx.Model(&models.Employee{}).Where("company_id = ?", companyID).Count(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("EMP%03d", n+1), nil
}

// AddEmployee stores emp and gives it the default salary config for its role.
func AddEmployee(tx *gorm.DB, companyID uint, emp *models.Employee) (*models.SalaryConfig, error) {
	emp.Name = strings.TrimSpace(emp.Name)
	if emp.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidEmployee)
	}
	if !emp.Role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidEmployee, emp.Role)
	}
	if emp.Department == "" {
		emp.Department = models.DepartmentProduction
	}
	if emp.Shift == "" {
		emp.Shift = models.ShiftMorning
	}
	if emp.Attendance != "" && !emp.Attendance.Valid() {
		return nil, ErrInvalidStatus
	}
	if emp.EmployeeCode == "" {
		code, err := nextEmployeeCode(tx, companyID)
		if err != nil {
			return nil, err
		}
		emp.EmployeeCode = code
	}

	emp.ID = 0
	emp.CompanyID = companyID
	if err := tx.Create(emp).Error; err != nil {
		return nil, err
	}
	return payroll.EnsureConfig(tx, emp)
}

func GetEmployee(tx *gorm.DB, companyID, employeeID uint) (*models.Employee, error) {
	var e models.Employee
	err := tx.Where("company_id = ? AND id = ?", companyID, employeeID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func ListEmployees(tx *gorm.DB, companyID uint) ([]models.Employee, error) {
	var out []models.Employee
	if err := tx.Where("company_id = ?", companyID).Order("employee_code asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetAttendanceFlag updates the dashboard's cached attendance of an employee.
// It does not touch attendance records.
func SetAttendanceFlag(tx *gorm.DB, companyID, employeeID uint, status models.AttendanceStatus) (*models.Employee, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	e, err := GetEmployee(tx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(e).Update("attendance", status).Error; err != nil {
		return nil, err
	}
	e.Attendance = status
	return e, nil
}

// ActiveCount counts employees whose cached attendance is anything but absent.
func ActiveCount(tx *gorm.DB, companyID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Employee{}).
		Where("company_id = ? AND (attendance IS NULL OR attendance <> ?)", companyID, models.AttendanceAbsent).
		Count(&n).Error
	return n, err
}
