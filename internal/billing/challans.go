package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChallanInput struct {
	TaxPeriod      string               `json:"tax_period" validate:"required"`
	GSTIN          string               `json:"gstin"`
	CGSTAmount     decimal.Decimal      `json:"cgst_amount" validate:"gte=0"`
	SGSTAmount     decimal.Decimal      `json:"sgst_amount" validate:"gte=0"`
	IGSTAmount     decimal.Decimal      `json:"igst_amount" validate:"gte=0"`
	InterestAmount decimal.Decimal      `json:"interest_amount" validate:"gte=0"`
	PenaltyAmount  decimal.Decimal      `json:"penalty_amount" validate:"gte=0"`
	PaymentMode    models.PaymentMode   `json:"payment_mode" validate:"required"`
	Status         models.ChallanStatus `json:"status"`
}

func nextChallanNumber(tx *gorm.DB, companyID uint, now time.Time) (string, error) {
	prefix := fmt.Sprintf("GST-%d-%02d-", now.Year(), int(now.Month()))
	var count int64
	if err := tx.Model(&models.GSTChallan{}).
		Where("company_id = ? AND challan_number LIKE ?", companyID, prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

// CreateChallan records a tax payable. Created as PAID, it is booked at once.
func CreateChallan(tx *gorm.DB, companyID uint, in ChallanInput) (*models.GSTChallan, error) {
	if _, err := utils.ParseMonth(in.TaxPeriod); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChallan, err)
	}
	if !in.PaymentMode.Valid() {
		return nil, fmt.Errorf("%w: payment mode", ErrInvalidChallan)
	}
	if in.Status == "" {
		in.Status = models.ChallanPending
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	for _, a := range []decimal.Decimal{in.CGSTAmount, in.SGSTAmount, in.IGSTAmount, in.InterestAmount, in.PenaltyAmount} {
		if a.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount", ErrInvalidChallan)
		}
	}

	gstin := strings.ToUpper(strings.TrimSpace(in.GSTIN))
	if gstin == "" {
		co, err := companyOf(tx, companyID)
		if err != nil {
			return nil, err
		}
		gstin = co.GSTIN
	}

	now := time.Now()
	number, err := nextChallanNumber(tx, companyID, now)
	if err != nil {
		return nil, err
	}

	ch := &models.GSTChallan{
		CompanyID:      companyID,
		ChallanNumber:  number,
		TaxPeriod:      in.TaxPeriod,
		GSTIN:          gstin,
		CGSTAmount:     in.CGSTAmount,
		SGSTAmount:     in.SGSTAmount,
		IGSTAmount:     in.IGSTAmount,
		InterestAmount: in.InterestAmount,
		PenaltyAmount:  in.PenaltyAmount,
		TotalPayable:   in.CGSTAmount.Add(in.SGSTAmount).Add(in.IGSTAmount).Add(in.InterestAmount).Add(in.PenaltyAmount),
		PaymentMode:    in.PaymentMode,
		Status:         in.Status,
		CreatedDate:    now.Format(utils.DateLayout),
	}
	if err := tx.Create(ch).Error; err != nil {
		return nil, err
	}
	if ch.Status == models.ChallanPaid {
		if err := finance.SyncChallan(tx, ch, "", models.ChallanPaid); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func GetChallan(tx *gorm.DB, companyID, challanID uint) (*models.GSTChallan, error) {
	var ch models.GSTChallan
	err := tx.Where("company_id = ? AND id = ?", companyID, challanID).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChallanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func ListChallans(tx *gorm.DB, companyID uint, status models.ChallanStatus, taxPeriod string) ([]models.GSTChallan, error) {
	q := tx.Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if taxPeriod != "" {
		q = q.Where("tax_period = ?", taxPeriod)
	}
	var out []models.GSTChallan
	if err := q.Order("created_date desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateChallanStatus mirrors UpdateInvoiceStatus. PAID -> FILED is a plain
// status write and the payment entry stays.
func UpdateChallanStatus(tx *gorm.DB, companyID, challanID uint, next models.ChallanStatus) (ch *models.GSTChallan, old models.ChallanStatus, err error) {
	if !next.Valid() {
		return nil, "", ErrInvalidStatus
	}
	ch, err = GetChallan(tx, companyID, challanID)
	if err != nil {
		return nil, "", err
	}
	old = ch.Status
	if old == next {
		return ch, old, nil
	}

	if err := finance.SyncChallan(tx, ch, old, next); err != nil {
		return nil, old, err
	}
	if err := tx.Model(ch).Update("status", next).Error; err != nil {
		return nil, old, err
	}
	ch.Status = next
	return ch, old, nil
}
