package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/shopspring/decimal"
)

// SaleRecord is one line item of a sale. Lines created together share a
// TransactionId, which is also the invoice number on the customer ledger.
type SaleRecord struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId string          `gorm:"size:50;not null;index" json:"transaction_id"`
	CustomerName  string          `gorm:"size:100;not null;index" json:"customer_name"`
	Company       string          `gorm:"size:100;not null" json:"company"`
	Brand         string          `gorm:"size:100;not null;index" json:"brand"`
	Model         string          `gorm:"size:100;not null" json:"model"`
	Size          string          `gorm:"size:50;not null" json:"size"`
	Price         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Discount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	Due           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due"`
	PayableAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"payable_amount"`
	Bank          string          `gorm:"size:100" json:"bank"`
	Comment       string          `gorm:"type:text" json:"comment"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// NetAmount is (price - discount) * quantity, the amount the customer owes
// for this line before any due is carved out.
func (s *SaleRecord) NetAmount() decimal.Decimal {
	return s.Price.Sub(s.Discount).Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type NewSaleItem struct {
	Company  string          `json:"company" binding:"required"`
	Brand    string          `json:"brand" binding:"required"`
	Model    string          `json:"model" binding:"required"`
	Size     string          `json:"size" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int             `json:"quantity" binding:"required"`
	Discount decimal.Decimal `json:"discount"`
	Due      decimal.Decimal `json:"due"`
	Comment  string          `json:"comment"`
}

type NewSale struct {
	CustomerName string        `json:"customer_name" binding:"required"`
	Bank         string        `json:"bank"`
	Date         string        `json:"date" binding:"required"`
	Items        []NewSaleItem `json:"items" binding:"required"`
}

func (input *NewSale) Validate() (time.Time, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return time.Time{}, errors.New("customer name is required")
	}
	if len(input.Items) == 0 {
		return time.Time{}, errors.New("at least one sale item is required")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.Company) == "" || strings.TrimSpace(item.Brand) == "" ||
			strings.TrimSpace(item.Model) == "" || strings.TrimSpace(item.Size) == "" {
			return time.Time{}, errors.New("company, brand, model and size are required for every item")
		}
		if !item.Price.IsPositive() {
			return time.Time{}, errors.New("price must be greater than zero")
		}
		if item.Quantity <= 0 {
			return time.Time{}, errors.New("quantity must be greater than zero")
		}
		if item.Discount.IsNegative() {
			return time.Time{}, errors.New("discount cannot be negative")
		}
		if item.Due.IsNegative() {
			return time.Time{}, errors.New("due cannot be negative")
		}
	}
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be yyyy-mm-dd")
	}
	return date, nil
}

type SaleFilter struct {
	Customer string
	Brand    string
	Search   string
	Range    DateRange
}

func ListSales(ctx context.Context, filter SaleFilter) ([]*SaleRecord, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&SaleRecord{}).Order("created_at DESC, id DESC")
	if filter.Customer != "" {
		q = q.Where("customer_name = ?", utils.NormalizeCustomerName(filter.Customer))
	}
	if filter.Brand != "" {
		q = q.Where("LOWER(brand) = ?", strings.ToLower(filter.Brand))
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(customer_name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(size) LIKE ?",
			like, like, like, like)
	}
	if !filter.Range.From.IsZero() {
		q = q.Where("date >= ?", filter.Range.From)
	}
	if !filter.Range.To.IsZero() {
		q = q.Where("date <= ?", endOfDay(filter.Range.To))
	}

	var sales []*SaleRecord
	if err := q.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
