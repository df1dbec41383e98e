package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MachineType string

const (
	MachineWireDrawing    MachineType = "wire_drawing"
	MachineFlattening     MachineType = "flattening"
	MachineWinding        MachineType = "winding"
	MachineElectroplating MachineType = "electroplating"
)

func (t MachineType) Valid() bool {
	switch t {
	case MachineWireDrawing, MachineFlattening, MachineWinding, MachineElectroplating:
		return true
	}
	return false
}

type MachineStatus string

const (
	MachineRunning     MachineStatus = "running"
	MachineStopped     MachineStatus = "stopped"
	MachineMaintenance MachineStatus = "maintenance"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineRunning, MachineStopped, MachineMaintenance:
		return true
	}
	return false
}

type Machine struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CompanyID   uint            `gorm:"index;not null" json:"company_id"`
	Name        string          `gorm:"size:50;not null" json:"name"` // WD-001
	Type        MachineType     `gorm:"size:30;not null" json:"type"`
	Status      MachineStatus   `gorm:"size:20;not null" json:"status"`
	Efficiency  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"efficiency"`
	Temperature decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"temperature"`
	OperatorID  *uint           `json:"operator_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
