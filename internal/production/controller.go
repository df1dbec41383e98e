package production

import (
	"errors"
	"strings"

	"mirotec-backend/internal/inventory"
	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("machine not found")
	ErrInvalidStatus = errors.New("invalid machine status")
	ErrInvalidType   = errors.New("invalid machine type")
)

// NominalEfficiency is what a machine reports right after a start.
var NominalEfficiency = decimal.NewFromInt(75)

func Get(tx *gorm.DB, companyID, machineID uint) (*models.Machine, error) {
	var m models.Machine
	err := tx.Where("company_id = ? AND id = ?", companyID, machineID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func List(tx *gorm.DB, companyID uint) ([]models.Machine, error) {
	var machines []models.Machine
	if err := tx.Where("company_id = ?", companyID).Order("name asc").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// Add registers a machine. New machines start STOPPED unless told otherwise;
// creating one as RUNNING does not consume material.
func Add(tx *gorm.DB, companyID uint, m *models.Machine) error {
	m.Name = strings.TrimSpace(m.Name)
	if !m.Type.Valid() {
		return ErrInvalidType
	}
	if m.Status == "" {
		m.Status = models.MachineStopped
	}
	if !m.Status.Valid() {
		return ErrInvalidStatus
	}
	if m.Status == models.MachineRunning && m.Efficiency.IsZero() {
		m.Efficiency = NominalEfficiency
	}
	if m.Status != models.MachineRunning {
		m.Efficiency = decimal.Zero
	}
	m.ID = 0
	m.CompanyID = companyID
	return tx.Create(m).Error
}

// Transition moves a machine to target. Starting a machine requires every
// material of its type's consumption table to be on hand; all checks happen
// before any debit, so a shortage leaves stock and status untouched.
// The caller must run this inside one transaction.
func Transition(tx *gorm.DB, companyID, machineID uint, target models.MachineStatus) (*models.Machine, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}
	m, err := Get(tx, companyID, machineID)
	if err != nil {
		return nil, err
	}
	if m.Status == target {
		return m, nil
	}

	if target == models.MachineRunning {
		rates := RatesFor(m.Type)
		for _, r := range rates {
			available, err := inventory.Available(tx, companyID, r.MaterialKey)
			if err != nil {
				return nil, err
			}
			if available.LessThan(r.AmountPerStart) {
				return nil, &inventory.InsufficientStockError{
					Material:  r.MaterialKey,
					Required:  r.AmountPerStart,
					Available: available,
				}
			}
		}
		for _, r := range rates {
			if err := inventory.Debit(tx, companyID, r.MaterialKey, r.AmountPerStart); err != nil {
				return nil, err
			}
		}
		m.Efficiency = NominalEfficiency
	} else {
		m.Efficiency = decimal.Zero
	}

	m.Status = target
	if err := tx.Model(m).Updates(map[string]interface{}{
		"status":     m.Status,
		"efficiency": m.Efficiency,
	}).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Stats is the production block of the dashboard.
type Stats struct {
	Running       int             `json:"running_machines"`
	Maintenance   int             `json:"maintenance_machines"`
	Total         int             `json:"total_machines"`
	AvgEfficiency decimal.Decimal `json:"avg_efficiency"`
}

func Summarize(tx *gorm.DB, companyID uint) (Stats, error) {
	machines, err := List(tx, companyID)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(machines), AvgEfficiency: decimal.Zero}
	sum := decimal.Zero
	for _, m := range machines {
		switch m.Status {
		case models.MachineRunning:
			st.Running++
			sum = sum.Add(m.Efficiency)
		case models.MachineMaintenance:
			st.Maintenance++
		}
	}
	if st.Running > 0 {
		st.AvgEfficiency = sum.Div(decimal.NewFromInt(int64(st.Running))).Round(0)
	}
	return st, nil
}
