package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompanyLedgerEntry is one debit/credit row on a supplier's account.
// Purchases post debits (we owe the company), payments post credits.
type CompanyLedgerEntry struct {
	ID            int             `gorm:"primary_key" json:"id"`
	CompanyName   string          `gorm:"size:100;not null;index" json:"company_name"`
	Brand         string          `gorm:"size:100" json:"brand"`
	Size          string          `gorm:"size:50" json:"size"`
	InvoiceNumber string          `gorm:"size:50;index" json:"invoice_number"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Narration     string          `gorm:"size:255" json:"narration"`
	Description   string          `gorm:"size:255" json:"description"`
	Debit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
	PaymentMethod PaymentMethod   `gorm:"size:20" json:"payment_method"`
	BankName      string          `gorm:"size:100" json:"bank_name"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// CustomerLedgerEntry is one debit/credit row on a customer's account.
// Sales post debits (the customer owes us), payments post credits.
type CustomerLedgerEntry struct {
	ID            int             `gorm:"primary_key" json:"id"`
	CustomerName  string          `gorm:"size:100;not null;index" json:"customer_name"`
	InvoiceNumber string          `gorm:"size:50;index" json:"invoice_number"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Narration     string          `gorm:"size:255" json:"narration"`
	Description   string          `gorm:"size:255" json:"description"`
	Debit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
	PaymentMethod PaymentMethod   `gorm:"size:20" json:"payment_method"`
	BankName      string          `gorm:"size:100" json:"bank_name"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// Narration prefixes that tie ledger rows back to their source records.
const (
	NarrationPrefixSale    = "Sale_"
	NarrationPrefixPayment = "Payment_"
)

// NewPayment is a standalone payment against a party's account, outside any
// sale or purchase.
type NewPayment struct {
	Party         string          `json:"party" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	PaymentMethod PaymentMethod   `json:"payment_method" binding:"required"`
	BankName      string          `json:"bank_name"`
	Description   string          `json:"description"`
}

func (input *NewPayment) Validate() (time.Time, error) {
	if strings.TrimSpace(input.Party) == "" {
		return time.Time{}, errors.New("party is required")
	}
	if !input.Amount.IsPositive() {
		return time.Time{}, errors.New("amount must be greater than zero")
	}
	if !input.PaymentMethod.IsValid() {
		return time.Time{}, errors.New("payment method must be Cash or Bank")
	}
	if input.PaymentMethod == PaymentMethodBank && strings.TrimSpace(input.BankName) == "" {
		return time.Time{}, errors.New("bank name is required for bank payments")
	}
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be yyyy-mm-dd")
	}
	return date, nil
}

type NewManualLedgerEntry struct {
	Party         string          `json:"party" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	Narration     string          `json:"narration"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	BankName      string          `json:"bank_name"`
}

func (input *NewManualLedgerEntry) validate() (time.Time, error) {
	if strings.TrimSpace(input.Party) == "" {
		return time.Time{}, errors.New("party is required")
	}
	if input.Debit.IsNegative() || input.Credit.IsNegative() {
		return time.Time{}, errors.New("debit and credit cannot be negative")
	}
	if input.Debit.IsZero() && input.Credit.IsZero() {
		return time.Time{}, errors.New("either debit or credit is required")
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		return time.Time{}, errors.New("payment method must be Cash or Bank")
	}
	date, err := utils.ParseDateString(input.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be yyyy-mm-dd")
	}
	return date, nil
}

// CreateManualCompanyEntry posts a hand-written correction row on a company
// ledger.
func CreateManualCompanyEntry(ctx context.Context, input *NewManualLedgerEntry) (*CompanyLedgerEntry, error) {
	date, err := input.validate()
	if err != nil {
		return nil, err
	}

	entry := CompanyLedgerEntry{
		CompanyName:   utils.NormalizeCompanyName(input.Party),
		Date:          date,
		Narration:     input.Narration,
		Description:   input.Description,
		Debit:         input.Debit,
		Credit:        input.Credit,
		PaymentMethod: input.PaymentMethod,
		BankName:      input.BankName,
	}
	if err := config.GetDB().WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func CreateManualCustomerEntry(ctx context.Context, input *NewManualLedgerEntry) (*CustomerLedgerEntry, error) {
	date, err := input.validate()
	if err != nil {
		return nil, err
	}

	entry := CustomerLedgerEntry{
		CustomerName:  utils.NormalizeCustomerName(input.Party),
		Date:          date,
		Narration:     input.Narration,
		Description:   input.Description,
		Debit:         input.Debit,
		Credit:        input.Credit,
		PaymentMethod: input.PaymentMethod,
		BankName:      input.BankName,
	}
	if err := config.GetDB().WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func DeleteCompanyLedgerEntry(ctx context.Context, id int) error {
	entry, err := utils.FetchModel[CompanyLedgerEntry](ctx, id)
	if err != nil {
		return err
	}
	return config.GetDB().WithContext(ctx).Delete(entry).Error
}

func DeleteCustomerLedgerEntry(ctx context.Context, id int) error {
	entry, err := utils.FetchModel[CustomerLedgerEntry](ctx, id)
	if err != nil {
		return err
	}
	return config.GetDB().WithContext(ctx).Delete(entry).Error
}

// DeleteCompanyEntriesByInvoice removes every ledger row posted under one
// purchase invoice. Called when a purchase is deleted.
func DeleteCompanyEntriesByInvoice(tx *gorm.DB, invoiceNumber string) error {
	return tx.Where("invoice_number = ?", invoiceNumber).Delete(&CompanyLedgerEntry{}).Error
}

// CompanyEntries loads a company's ledger rows in posting order.
func CompanyEntries(ctx context.Context, companyName string, rng DateRange) ([]*CompanyLedgerEntry, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&CompanyLedgerEntry{}).
		Where("company_name = ?", utils.NormalizeCompanyName(companyName)).
		Order("created_at ASC, id ASC")
	if !rng.From.IsZero() {
		q = q.Where("date >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		q = q.Where("date <= ?", endOfDay(rng.To))
	}

	var entries []*CompanyLedgerEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CustomerEntries loads a customer's ledger rows in posting order.
func CustomerEntries(ctx context.Context, customerName string, rng DateRange) ([]*CustomerLedgerEntry, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&CustomerLedgerEntry{}).
		Where("customer_name = ?", utils.NormalizeCustomerName(customerName)).
		Order("created_at ASC, id ASC")
	if !rng.From.IsZero() {
		q = q.Where("date >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		q = q.Where("date <= ?", endOfDay(rng.To))
	}

	var entries []*CustomerLedgerEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
