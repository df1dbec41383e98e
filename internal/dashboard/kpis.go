package dashboard

import (
	"fmt"

	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/inventory"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/orders"
	"mirotec-backend/internal/production"
	"mirotec-backend/internal/workforce"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type KPIs struct {
	ActiveWorkforce int64           `json:"active_workforce"`
	PendingOrders   int64           `json:"pending_orders"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	RunningMachines int             `json:"running_machines"`
	TotalMachines   int             `json:"total_machines"`
	AvgEfficiency   decimal.Decimal `json:"avg_efficiency"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	Profit          decimal.Decimal `json:"profit"`
}

// Collect computes the headline numbers. Finance figures come from summary,
// which callers may take from the cache.
func Collect(tx *gorm.DB, companyID uint, summary finance.Summary) (KPIs, error) {
	var k KPIs
	var err error
	if k.ActiveWorkforce, err = workforce.ActiveCount(tx, companyID); err != nil {
		return k, fmt.Errorf("workforce: %w", err)
	}
	if k.PendingOrders, err = orders.PendingCount(tx, companyID); err != nil {
		return k, fmt.Errorf("orders: %w", err)
	}
	if k.InventoryValue, err = inventory.TotalValue(tx, companyID); err != nil {
		return k, fmt.Errorf("inventory: %w", err)
	}
	prod, err := production.Summarize(tx, companyID)
	if err != nil {
		return k, fmt.Errorf("production: %w", err)
	}
	k.RunningMachines = prod.Running
	k.TotalMachines = prod.Total
	k.AvgEfficiency = prod.AvgEfficiency
	k.TotalRevenue = summary.TotalRevenue
	k.TotalExpenses = summary.TotalExpenses
	k.Profit = summary.Profit
	return k, nil
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Alert struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"` // low_stock | maintenance | orders
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func Alerts(tx *gorm.DB, companyID uint) ([]Alert, error) {
	out := []Alert{}

	low, err := inventory.LowStock(tx, companyID)
	if err != nil {
		return nil, err
	}
	for _, it := range low {
		a := Alert{
			ID:       fmt.Sprintf("lowstock-%d", it.ID),
			Type:     "low_stock",
			Message:  fmt.Sprintf("%s stock low: %s %s left (min %s)", it.MaterialKey, it.Quantity, it.Unit, it.MinStock),
			Severity: SeverityWarning,
		}
		if it.StockStatus == models.StockStatusOutOfStock {
			a.Message = it.MaterialKey + " is out of stock"
			a.Severity = SeverityError
		}
		out = append(out, a)
	}

	machines, err := production.List(tx, companyID)
	if err != nil {
		return nil, err
	}
	for _, m := range machines {
		if m.Status != models.MachineMaintenance {
			continue
		}
		out = append(out, Alert{
			ID:       fmt.Sprintf("maintenance-%d", m.ID),
			Type:     "maintenance",
			Message:  m.Name + " is under maintenance",
			Severity: SeverityError,
		})
	}

	pending, err := orders.PendingCount(tx, companyID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		out = append(out, Alert{
			ID:       "pending-orders",
			Type:     "orders",
			Message:  fmt.Sprintf("%d orders awaiting dispatch", pending),
			Severity: SeverityInfo,
		})
	}
	return out, nil
}
