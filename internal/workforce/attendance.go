package workforce

import (
	"errors"
	"fmt"
	"regexp"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrInvalidAttendance = errors.New("invalid attendance record")
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func checkRecord(r *models.AttendanceRecord) error {
	if _, err := utils.ParseDate(r.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAttendance, err)
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	for _, t := range []string{r.CheckInTime, r.CheckOutTime} {
		if t != "" && !clockPattern.MatchString(t) {
			return fmt.Errorf("%w: time %q, expected HH:mm", ErrInvalidAttendance, t)
		}
	}
	if r.OvertimeHours.IsNegative() {
		return fmt.Errorf("%w: negative overtime", ErrInvalidAttendance)
	}
	return nil
}

// UpsertAttendance writes the record for (employee, date), replacing any
// earlier one. A record for today also refreshes the employee's cached flag.
func UpsertAttendance(tx *gorm.DB, companyID uint, r *models.AttendanceRecord) error {
	if err := checkRecord(r); err != nil {
		return err
	}
	if _, err := GetEmployee(tx, companyID, r.EmployeeID); err != nil {
		return err
	}

	r.ID = 0
	r.CompanyID = companyID
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "check_in_time", "check_out_time", "notes", "overtime_hours", "updated_at"}),
	}).Create(r).Error
	if err != nil {
		return err
	}
	saved, err := GetAttendance(tx, companyID, r.EmployeeID, r.Date)
	if err != nil {
		return err
	}
	*r = *saved

	if r.Date == utils.Today() {
		if _, err := SetAttendanceFlag(tx, companyID, r.EmployeeID, r.Status); err != nil {
			return err
		}
	}
	return nil
}

// AttendancePatch is a partial update; nil fields are left as they are.
type AttendancePatch struct {
	Status        *models.AttendanceStatus `json:"status"`
	CheckInTime   *string                  `json:"check_in_time"`
	CheckOutTime  *string                  `json:"check_out_time"`
	Notes         *string                  `json:"notes"`
	OvertimeHours *decimal.Decimal         `json:"overtime_hours"`
}

func GetAttendance(tx *gorm.DB, companyID, employeeID uint, date string) (*models.AttendanceRecord, error) {
	var r models.AttendanceRecord
	err := tx.Where("company_id = ? AND employee_id = ? AND date = ?", companyID, employeeID, date).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func UpdateAttendance(tx *gorm.DB, companyID, employeeID uint, date string, patch AttendancePatch) (*models.AttendanceRecord, error) {
	r, err := GetAttendance(tx, companyID, employeeID, date)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.CheckInTime != nil {
		r.CheckInTime = *patch.CheckInTime
	}
	if patch.CheckOutTime != nil {
		r.CheckOutTime = *patch.CheckOutTime
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
	if patch.OvertimeHours != nil {
		r.OvertimeHours = *patch.OvertimeHours
	}
	if err := checkRecord(r); err != nil {
		return nil, err
	}
	if err := tx.Save(r).Error; err != nil {
		return nil, err
	}
	if patch.Status != nil && r.Date == utils.Today() {
		if _, err := SetAttendanceFlag(tx, companyID, employeeID, r.Status); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func AttendanceByDate(tx *gorm.DB, companyID uint, date string) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	if err := tx.Where("company_id = ? AND date = ?", companyID, date).Order("employee_id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AttendanceForEmployee lists records between from and to inclusive. Empty
// bounds are open.
func AttendanceForEmployee(tx *gorm.DB, companyID, employeeID uint, from, to string) ([]models.AttendanceRecord, error) {
	q := tx.Where("company_id = ? AND employee_id = ?", companyID, employeeID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var out []models.AttendanceRecord
	if err := q.Order("date asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type AttendanceStats struct {
	Total              int             `json:"total"`
	Present            int             `json:"present"`
	Absent             int             `json:"absent"`
	HalfDay            int             `json:"half_day"`
	Late               int             `json:"late"`
	OnLeave            int             `json:"on_leave"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
}

func StatsFor(records []models.AttendanceRecord) AttendanceStats {
	s := AttendanceStats{Total: len(records), TotalOvertimeHours: decimal.Zero}
	for _, r := range records {
		switch r.Status {
		case models.AttendancePresent:
			s.Present++
		case models.AttendanceAbsent:
			s.Absent++
		case models.AttendanceHalfDay:
			s.HalfDay++
		case models.AttendanceLate:
			s.Late++
		case models.AttendanceOnLeave:
			s.OnLeave++
		}
		s.TotalOvertimeHours = s.TotalOvertimeHours.Add(r.OvertimeHours)
	}
	return s
}

func AttendanceStatsFor(tx *gorm.DB, companyID, employeeID uint, from, to string) (AttendanceStats, error) {
	recs, err := AttendanceForEmployee(tx, companyID, employeeID, from, to)
	if err != nil {
		return AttendanceStats{}, err
	}
	return StatsFor(recs), nil
}
