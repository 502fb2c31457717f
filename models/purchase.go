package models

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseRecord is one consignment of tyres bought from a company. Store and
// Shop are the two physical locations; transfers and sales mutate them, so
// the pair is the live stock position of the row.
type PurchaseRecord struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Company       string          `gorm:"size:100;not null;index" json:"company" binding:"required"`
	Brand         string          `gorm:"size:100;not null;index" json:"brand" binding:"required"`
	Model         string          `gorm:"size:100;not null" json:"model" binding:"required"`
	Size          string          `gorm:"size:50;not null" json:"size" binding:"required"`
	Price         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Store         int             `gorm:"not null;default:0" json:"store"`
	Shop          int             `gorm:"not null;default:0" json:"shop"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	InvoiceNumber string          `gorm:"size:50;not null;index" json:"invoice_number"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPurchase struct {
	Company  string          `json:"company" binding:"required"`
	Brand    string          `json:"brand" binding:"required"`
	Model    string          `json:"model" binding:"required"`
	Size     string          `json:"size" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int             `json:"quantity" binding:"required"`
	Store    int             `json:"store"`
	Shop     int             `json:"shop"`
	Date     string          `json:"date" binding:"required"`
}

func (input *NewPurchase) Validate() (time.Time, error) {
	if strings.TrimSpace(input.Company) == "" || strings.TrimSpace(input.Brand) == "" ||
		strings.TrimSpace(input.Model) == "" || strings.TrimSpace(input.Size) == "" {
		return time.Time{}, errors.New("company, brand, model and size are required")
	}
	if !input.Price.IsPositive() {
		return time.Time{}, errors.New("price must be greater than zero")
	}
	if input.Quantity <= 0 {
		return time.Time{}, errors.New("quantity must be greater than zero")
	}
	if input.Store < 0 || input.Shop < 0 {
		return time.Time{}, errors.New("store and shop quantities cannot be negative")
	}
	if input.Store+input.Shop != input.Quantity {
		return time.Time{}, errors.New("store and shop quantities must add up to total quantity")
	}
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be yyyy-mm-dd")
	}
	return date, nil
}

// LedgerNarration is the company-ledger line text for this consignment,
// e.g. "195/65R15_dunlop_Qty_10_Rate_4500".
func (p *PurchaseRecord) LedgerNarration() string {
	size := p.Size
	if size == "" {
		size = AttributeNA
	}
	brand := p.Brand
	if brand == "" {
		brand = AttributeNA
	}
	return size + "_" + brand + "_Qty_" + strconv.Itoa(p.Quantity) + "_Rate_" + p.Price.String()
}

type PurchaseFilter struct {
	Company string
	Brand   string
	Search  string
	Range   DateRange
}

func ListPurchases(ctx context.Context, filter PurchaseFilter) ([]*PurchaseRecord, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&PurchaseRecord{}).Order("date DESC, id DESC")
	if filter.Company != "" {
		q = q.Where("company = ?", utils.NormalizeCompanyName(filter.Company))
	}
	if filter.Brand != "" {
		q = q.Where("LOWER(brand) = ?", strings.ToLower(filter.Brand))
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(company) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(size) LIKE ?",
			like, like, like, like)
	}
	if !filter.Range.From.IsZero() {
		q = q.Where("date >= ?", filter.Range.From)
	}
	if !filter.Range.To.IsZero() {
		q = q.Where("date <= ?", endOfDay(filter.Range.To))
	}

	var purchases []*PurchaseRecord
	if err := q.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// MatchingPurchases loads the purchase rows for one tyre line in id order,
// locked FOR UPDATE on MySQL so concurrent sales/transfers serialize.
// The company is normalized before matching: rows store the normalized form,
// so callers may pass the display spelling.
func MatchingPurchases(tx *gorm.DB, company, brand, model, size string) ([]*PurchaseRecord, error) {
	var purchases []*PurchaseRecord
	err := lockForUpdate(tx).
		Where("company = ? AND LOWER(brand) = ? AND LOWER(model) = ? AND LOWER(size) = ?",
			utils.NormalizeCompanyName(company), strings.ToLower(brand), strings.ToLower(model), strings.ToLower(size)).
		Order("id ASC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}
