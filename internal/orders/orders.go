package orders

import (
	"errors"
	"fmt"
	"strings"

	"mirotec-backend/internal/models"
	"mirotec-backend/internal/utils"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidOrder   = errors.New("invalid order")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// Create stores a new order. When a client id is given its name is copied
// onto the order.
func Create(tx *gorm.DB, companyID uint, o *models.Order) error {
	if o.ClientID != nil {
		var cl models.Client
		err := tx.Select("id", "client_name").Where("company_id = ? AND id = ?", companyID, *o.ClientID).First(&cl).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		if err != nil {
			return err
		}
		o.ClientName = cl.ClientName
	}
	o.ClientName = strings.TrimSpace(o.ClientName)
	if o.ClientName == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidOrder)
	}
	if !o.Quantity.IsPositive() || o.Amount.IsNegative() {
		return fmt.Errorf("%w: quantity must be positive and amount not negative", ErrInvalidOrder)
	}
	if o.Date == "" {
		o.Date = utils.Today()
	} else if _, err := utils.ParseDate(o.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}

	o.ID = 0
	o.CompanyID = companyID
	return tx.Create(o).Error
}

func Get(tx *gorm.DB, companyID, orderID uint) (*models.Order, error) {
	var o models.Order
	err := tx.Where("company_id = ? AND id = ?", companyID, orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func List(tx *gorm.DB, companyID, clientID uint, status models.OrderStatus) ([]models.Order, error) {
	q := tx.Where("company_id = ?", companyID)
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Order
	if err := q.Order("date desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func UpdateStatus(tx *gorm.DB, companyID, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}
	o, err := Get(tx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return o, nil
	}
	if err := tx.Model(o).Update("status", next).Error; err != nil {
		return nil, err
	}
	o.Status = next
	return o, nil
}

func PendingCount(tx *gorm.DB, companyID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Order{}).
		Where("company_id = ? AND status = ?", companyID, models.OrderPending).
		Count(&n).Error
	return n, err
}
