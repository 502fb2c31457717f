package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
)

// TransferRecord logs a store-to-shop movement for one tyre line. The moved
// quantity is spread greedily across the matching purchase rows.
type TransferRecord struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Company   string    `gorm:"size:100;not null;index" json:"company"`
	Brand     string    `gorm:"size:100;not null" json:"brand"`
	Model     string    `gorm:"size:100;not null" json:"model"`
	Size      string    `gorm:"size:50;not null" json:"size"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewTransfer struct {
	Company  string `json:"company" binding:"required"`
	Brand    string `json:"brand" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Date     string `json:"date" binding:"required"`
}

func (input *NewTransfer) Validate() (time.Time, error) {
	if strings.TrimSpace(input.Company) == "" || strings.TrimSpace(input.Brand) == "" ||
		strings.TrimSpace(input.Model) == "" || strings.TrimSpace(input.Size) == "" {
		return time.Time{}, errors.New("company, brand, model and size are required")
	}
	if input.Quantity <= 0 {
		return time.Time{}, errors.New("quantity must be greater than zero")
	}
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be yyyy-mm-dd")
	}
	return date, nil
}

func ListTransfers(ctx context.Context, rng DateRange) ([]*TransferRecord, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&TransferRecord{}).Order("created_at DESC, id DESC")
	if !rng.From.IsZero() {
		q = q.Where("date >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		q = q.Where("date <= ?", endOfDay(rng.To))
	}

	var transfers []*TransferRecord
	if err := q.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
