package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompanyDetail is the denormalized payment snapshot per supplier. The
// ledger remains the source of truth; the snapshot exists so dues screens
// don't re-fold the ledger on every request.
type CompanyDetail struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CompanyName string          `gorm:"size:100;not null;uniqueIndex" json:"company_name"`
	TotalPaid   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_paid"`
	Due         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due"`
	TotalItems  int             `gorm:"default:0" json:"total_items"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	Date        time.Time       `gorm:"not null" json:"date"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// CustomerDetail mirrors CompanyDetail for buyers.
type CustomerDetail struct {
	ID           int             `gorm:"primary_key" json:"id"`
	CustomerName string          `gorm:"size:100;not null;uniqueIndex" json:"customer_name"`
	TotalPaid    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_paid"`
	Due          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due"`
	TotalItems   int             `gorm:"default:0" json:"total_items"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	Date         time.Time       `gorm:"not null" json:"date"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// FirstOrCreateCustomerDetail fetches the snapshot row for update, creating
// it when the customer was sold to before being registered.
func FirstOrCreateCustomerDetail(tx *gorm.DB, customerName string, date time.Time) (*CustomerDetail, error) {
	var detail CustomerDetail
	err := lockForUpdate(tx).
		Where(CustomerDetail{CustomerName: customerName}).
		Attrs(CustomerDetail{Date: date}).
		FirstOrCreate(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func FirstOrCreateCompanyDetail(tx *gorm.DB, companyName string, date time.Time) (*CompanyDetail, error) {
	var detail CompanyDetail
	err := lockForUpdate(tx).
		Where(CompanyDetail{CompanyName: companyName}).
		Attrs(CompanyDetail{Date: date}).
		FirstOrCreate(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// ApplyCustomerSale folds one committed sale into the snapshot:
// paid += totalCredit, due += totalDue, clamped at zero.
func (d *CustomerDetail) ApplyCustomerSale(tx *gorm.DB, totalCredit, totalDue decimal.Decimal, date time.Time) error {
	d.TotalPaid = d.TotalPaid.Add(totalCredit)
	d.Due = d.Due.Add(totalDue)
	if d.Due.IsNegative() {
		d.Due = decimal.Zero
	}
	d.Date = date
	return tx.Save(d).Error
}

// ApplyCustomerPayment folds a standalone payment into the snapshot:
// paid += amount, due -= amount, clamped at zero.
func (d *CustomerDetail) ApplyCustomerPayment(tx *gorm.DB, amount decimal.Decimal, date time.Time) error {
	d.TotalPaid = d.TotalPaid.Add(amount)
	d.Due = d.Due.Sub(amount)
	if d.Due.IsNegative() {
		d.Due = decimal.Zero
	}
	d.Date = date
	return tx.Save(d).Error
}

// ApplyCompanyPayment mirrors ApplyCustomerPayment on the supplier side.
func (d *CompanyDetail) ApplyCompanyPayment(tx *gorm.DB, amount decimal.Decimal, date time.Time) error {
	d.TotalPaid = d.TotalPaid.Add(amount)
	d.Due = d.Due.Sub(amount)
	if d.Due.IsNegative() {
		d.Due = decimal.Zero
	}
	d.Date = date
	return tx.Save(d).Error
}
