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

// ReturnRecord is one returned tyre line. It keeps both the original sale
// figures (Price, Quantity, TotalPrice) and the return figures, since refunds
// may be priced differently from the sale.
type ReturnRecord struct {
	ID               int             `gorm:"primary_key" json:"id"`
	TransactionId    string          `gorm:"size:50;not null;index" json:"transaction_id"`
	Customer         string          `gorm:"size:100;not null;index" json:"customer"`
	Company          string          `gorm:"size:100;not null" json:"company"`
	Brand            string          `gorm:"size:100;not null;index" json:"brand"`
	Model            string          `gorm:"size:100;not null" json:"model"`
	Size             string          `gorm:"size:50;not null" json:"size"`
	Price            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	ReturnQuantity   int             `gorm:"not null" json:"return_quantity"`
	ReturnPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"return_price"`
	ReturnTotalPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"return_total_price"`
	Date             time.Time       `gorm:"not null;index" json:"date"`
	Comment          string          `gorm:"type:text" json:"comment"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewReturnItem struct {
	Company        string          `json:"company" binding:"required"`
	Brand          string          `json:"brand" binding:"required"`
	Model          string          `json:"model" binding:"required"`
	Size           string          `json:"size" binding:"required"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	Quantity       int             `json:"quantity" binding:"required"`
	ReturnQuantity int             `json:"return_quantity" binding:"required"`
	ReturnPrice    decimal.Decimal `json:"return_price"`
	Comment        string          `json:"comment"`
}

type NewReturn struct {
	Customer string          `json:"customer" binding:"required"`
	Date     string          `json:"date" binding:"required"`
	Items    []NewReturnItem `json:"items" binding:"required"`
}

func (input *NewReturn) Validate() (time.Time, error) {
	if strings.TrimSpace(input.Customer) == "" {
		return time.Time{}, errors.New("customer is required")
	}
	if len(input.Items) == 0 {
		return time.Time{}, errors.New("at least one return item is required")
	}
	for _, item := range input.Items {
		if item.ReturnQuantity <= 0 {
			return time.Time{}, errors.New("return quantity must be greater than zero")
		}
		if item.ReturnQuantity > item.Quantity {
			return time.Time{}, errors.New("return quantity cannot exceed sold quantity")
		}
	}
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be yyyy-mm-dd")
	}
	return date, nil
}

func ListReturns(ctx context.Context, rng DateRange) ([]*ReturnRecord, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&ReturnRecord{}).Order("created_at DESC, id DESC")
	if !rng.From.IsZero() {
		q = q.Where("date >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		q = q.Where("date <= ?", endOfDay(rng.To))
	}

	var returns []*ReturnRecord
	if err := q.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}
