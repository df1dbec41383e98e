package production

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"mirotec-backend/internal/models"

	"github.com/shopspring/decimal"
)

// MaterialRate is how much of a material one machine start consumes.
type MaterialRate struct {
	MaterialKey    string          `json:"material_key"`
	AmountPerStart decimal.Decimal `json:"amount_per_start"`
}

type ConsumptionTable map[models.MachineType][]MaterialRate

func DefaultConsumption() ConsumptionTable {
	return ConsumptionTable{
		models.MachineWireDrawing: {
			{MaterialKey: "silver", AmountPerStart: decimal.NewFromInt(2)},
			{MaterialKey: "copper", AmountPerStart: decimal.NewFromInt(3)},
		},
		models.MachineFlattening: {
			{MaterialKey: "copper", AmountPerStart: decimal.NewFromInt(2)},
		},
		models.MachineWinding: {
			{MaterialKey: "polyesterYarn", AmountPerStart: decimal.NewFromInt(5)},
		},
		models.MachineElectroplating: {
			{MaterialKey: "silver", AmountPerStart: decimal.NewFromInt(1)},
			{MaterialKey: "copper", AmountPerStart: decimal.NewFromInt(4)},
		},
	}
}

// LoadConsumption reads a table from a JSON file shaped like
// {"wire_drawing": [{"material_key": "silver", "amount_per_start": 2}]}.
// Types missing from the file keep their default rates.
func LoadConsumption(path string) (ConsumptionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read consumption file: %w", err)
	}
	var fromFile ConsumptionTable
	if err := json.Unmarshal(raw, &fromFile); err != nil {
		return nil, fmt.Errorf("parse consumption file: %w", err)
	}

	table := DefaultConsumption()
	for t, rates := range fromFile {
		if !t.Valid() {
			return nil, fmt.Errorf("unknown machine type %q in consumption file", t)
		}
		for _, r := range rates {
			if r.MaterialKey == "" || r.AmountPerStart.IsNegative() {
				return nil, fmt.Errorf("invalid rate for %s: %+v", t, r)
			}
		}
		table[t] = rates
	}
	return table, nil
}

var (
	tableMu sync.RWMutex
	table   = DefaultConsumption()
)

func SetConsumption(t ConsumptionTable) {
	tableMu.Lock()
	defer tableMu.Unlock()
	table = t
}

func Consumption() ConsumptionTable {
	tableMu.RLock()
	defer tableMu.RUnlock()
	return table
}

func RatesFor(t models.MachineType) []MaterialRate {
	return Consumption()[t]
}
