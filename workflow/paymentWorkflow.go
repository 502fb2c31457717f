package workflow

import (
	"context"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func paymentDescription(input *models.NewPayment) string {
	if input.Description != "" {
		return input.Description
	}
	if input.PaymentMethod == models.PaymentMethodBank {
		return "Payment via " + input.BankName
	}
	return "Cash Payment"
}

// RecordCustomerPayment posts a credit on the customer ledger and folds it
// into the payment snapshot in one transaction.
func RecordCustomerPayment(ctx context.Context, input *models.NewPayment) (*models.CustomerLedgerEntry, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return nil, err
	}

	customer := utils.NormalizeCustomerName(input.Party)
	transactionId := uuid.New().String()

	entry := models.CustomerLedgerEntry{
		CustomerName:  customer,
		InvoiceNumber: transactionId,
		Date:          date,
		Narration:     models.NarrationPrefixPayment + transactionId,
		Description:   paymentDescription(input),
		Debit:         decimal.Zero,
		Credit:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		BankName:      input.BankName,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordCustomerPayment", "CreateCreditEntry", entry, err)
			return err
		}
		detail, err := models.FirstOrCreateCustomerDetail(tx, customer, date)
		if err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordCustomerPayment", "FirstOrCreateCustomerDetail", customer, err)
			return err
		}
		if err := detail.ApplyCustomerPayment(tx, input.Amount, date); err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordCustomerPayment", "ApplyCustomerPayment", detail, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// RecordCompanyPayment mirrors RecordCustomerPayment on the supplier side.
func RecordCompanyPayment(ctx context.Context, input *models.NewPayment) (*models.CompanyLedgerEntry, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return nil, err
	}

	company := utils.NormalizeCompanyName(input.Party)
	transactionId := uuid.New().String()

	entry := models.CompanyLedgerEntry{
		CompanyName:   company,
		InvoiceNumber: transactionId,
		Date:          date,
		Narration:     models.NarrationPrefixPayment + transactionId,
		Description:   paymentDescription(input),
		Debit:         decimal.Zero,
		Credit:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		BankName:      input.BankName,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordCompanyPayment", "CreateCreditEntry", entry, err)
			return err
		}
		detail, err := models.FirstOrCreateCompanyDetail(tx, company, date)
		if err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordCompanyPayment", "FirstOrCreateCompanyDetail", company, err)
			return err
		}
		if err := detail.ApplyCompanyPayment(tx, input.Amount, date); err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordCompanyPayment", "ApplyCompanyPayment", detail, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}
