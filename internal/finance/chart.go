package finance

import (
	"fmt"
	"sort"
	"time"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChartPoint struct {
	Label   string          `json:"label"` // bucket start date
	Credit  decimal.Decimal `json:"credit"`
	Debit   decimal.Decimal `json:"debit"`
	Net     decimal.Decimal `json:"net"`
	Entries int             `json:"entries"`
}

type ChartTotals struct {
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Net    decimal.Decimal `json:"net"`
}

type ChartResponse struct {
	Period      string       `json:"period"` // daily | weekly | monthly
	From        string       `json:"from"`
	To          string       `json:"to"`
	Points      []ChartPoint `json:"points"`
	GrandTotals ChartTotals  `json:"grand_totals"`
}

// ChartWindow resolves period/count into the [start, end] date window ending at now.
// count <= 0 picks the default for the period.
func ChartWindow(period string, count int, now time.Time) (string, int, time.Time, time.Time) {
	if count <= 0 {
		switch period {
		case "weekly":
			count = 8
		case "monthly":
			count = 12
		default:
			count = 7
		}
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var start time.Time
	switch period {
	case "weekly":
		start = weekStart(end).AddDate(0, 0, -7*(count-1))
	case "monthly":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = first.AddDate(0, -(count - 1), 0)
		end = first.AddDate(0, 1, -1)
	default:
		period = "daily"
		start = end.AddDate(0, 0, -(count - 1))
	}
	return period, count, start, end
}

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // monday based
	return t.AddDate(0, 0, -offset)
}

func bucketOf(period string, day time.Time) time.Time {
	switch period {
	case "weekly":
		return weekStart(day)
	case "monthly":
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

// Chart buckets PAID ledger entries by day, week or month. Empty buckets are
// included so the series has no gaps.
func Chart(tx *gorm.DB, companyID uint, period string, count int, now time.Time) (ChartResponse, error) {
	period, _, start, end := ChartWindow(period, count, now)

	entries, err := List(tx, companyID, ListFilter{
		Status: models.PaymentPaid,
		From:   start.Format(utils.DateLayout),
		To:     end.Format(utils.DateLayout),
	})
	if err != nil {
		return ChartResponse{}, err
	}

	buckets := make(map[time.Time]*ChartPoint)
	for b := start; !b.After(end); {
		buckets[b] = &ChartPoint{Label: b.Format(utils.DateLayout), Credit: decimal.Zero, Debit: decimal.Zero}
		switch period {
		case "weekly":
			b = b.AddDate(0, 0, 7)
		case "monthly":
			b = b.AddDate(0, 1, 0)
		default:
			b = b.AddDate(0, 0, 1)
		}
	}

	for _, t := range entries {
		day, err := utils.ParseDate(t.Date)
		if err != nil {
			return ChartResponse{}, fmt.Errorf("entry %d: %w", t.ID, err)
		}
		p, ok := buckets[bucketOf(period, day)]
		if !ok {
			continue
		}
		if t.Type == models.TransactionCredit {
			p.Credit = p.Credit.Add(t.Amount)
		} else {
			p.Debit = p.Debit.Add(t.Amount)
		}
		p.Entries++
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	resp := ChartResponse{
		Period:      period,
		From:        start.Format(utils.DateLayout),
		To:          end.Format(utils.DateLayout),
		Points:      make([]ChartPoint, 0, len(keys)),
		GrandTotals: ChartTotals{Credit: decimal.Zero, Debit: decimal.Zero},
	}
	for _, k := range keys {
		p := buckets[k]
		p.Net = p.Credit.Sub(p.Debit)
		resp.Points = append(resp.Points, *p)
		resp.GrandTotals.Credit = resp.GrandTotals.Credit.Add(p.Credit)
		resp.GrandTotals.Debit = resp.GrandTotals.Debit.Add(p.Debit)
	}
	resp.GrandTotals.Net = resp.GrandTotals.Credit.Sub(resp.GrandTotals.Debit)
	return resp, nil
}
