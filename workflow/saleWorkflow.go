package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcessSale commits a multi-item sale: shop stock is checked and deducted
// per item, the sale lines are written, and the customer ledger and payment
// snapshot are posted, all inside one transaction. Returns the shared
// transaction id.
func ProcessSale(ctx context.Context, input *models.NewSale) (string, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return "", err
	}

	customerName := utils.NormalizeCustomerName(input.CustomerName)
	transactionId := uuid.New().String()

	release := acquirePostingLock(ctx, logger, "sale:"+customerName)
	defer release()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		totalDebit := decimal.Zero
		totalDue := decimal.Zero
		var soldDescriptions []string

		for _, item := range input.Items {
			purchases, err := models.MatchingPurchases(tx, item.Company, item.Brand, item.Model, item.Size)
			if err != nil {
				config.LogError(logger, "saleWorkflow.go", "ProcessSale", "MatchingPurchases", item, err)
				return err
			}

			available := 0
			for _, p := range purchases {
				available += p.Shop
			}
			if item.Quantity > available {
				return fmt.Errorf("insufficient shop stock for %s %s %s: have %d, need %d",
					item.Brand, item.Model, item.Size, available, item.Quantity)
			}

			remaining := item.Quantity
			for _, p := range purchases {
				if remaining == 0 {
					break
				}
				deduct := p.Shop
				if deduct > remaining {
					deduct = remaining
				}
				if deduct == 0 {
					continue
				}
				p.Shop -= deduct
				remaining -= deduct
				if err := tx.Save(p).Error; err != nil {
					config.LogError(logger, "saleWorkflow.go", "ProcessSale", "DeductShopStock", p, err)
					return err
				}
			}

			sale := models.SaleRecord{
				TransactionId: transactionId,
				CustomerName:  customerName,
				Company:       utils.NormalizeCompanyName(item.Company),
				Brand:         item.Brand,
				Model:         item.Model,
				Size:          item.Size,
				Price:         item.Price,
				Quantity:      item.Quantity,
				Discount:      item.Discount,
				Due:           item.Due,
				Bank:          input.Bank,
				Comment:       item.Comment,
				Date:          date,
			}
			sale.PayableAmount = sale.NetAmount().Sub(item.Due)
			if err := tx.Create(&sale).Error; err != nil {
				config.LogError(logger, "saleWorkflow.go", "ProcessSale", "CreateSaleRecord", sale, err)
				return err
			}

			totalDebit = totalDebit.Add(sale.NetAmount())
			totalDue = totalDue.Add(item.Due)
			soldDescriptions = append(soldDescriptions,
				fmt.Sprintf("Tyres sold: %d %s %s", item.Quantity, item.Brand, item.Size))
		}

		totalCredit := totalDebit.Sub(totalDue)
		if totalCredit.IsNegative() {
			return errors.New("total due cannot exceed the sale amount")
		}

		paymentMethod := models.PaymentMethodCash
		if strings.TrimSpace(input.Bank) != "" {
			paymentMethod = models.PaymentMethodBank
		}

		debitEntry := models.CustomerLedgerEntry{
			CustomerName:  customerName,
			InvoiceNumber: transactionId,
			Date:          date,
			Narration:     models.NarrationPrefixSale + transactionId,
			Description:   strings.Join(soldDescriptions, ", "),
			Debit:         totalDebit,
			Credit:        decimal.Zero,
			PaymentMethod: paymentMethod,
			BankName:      input.Bank,
		}
		if err := tx.Create(&debitEntry).Error; err != nil {
			config.LogError(logger, "saleWorkflow.go", "ProcessSale", "CreateDebitEntry", debitEntry, err)
			return err
		}

		if totalCredit.IsPositive() {
			description := "Payment via CASH"
			if paymentMethod == models.PaymentMethodBank {
				description = "Payment via " + input.Bank
			}
			creditEntry := models.CustomerLedgerEntry{
				CustomerName:  customerName,
				InvoiceNumber: transactionId,
				Date:          date,
				Narration:     models.NarrationPrefixPayment + transactionId,
				Description:   description,
				Debit:         decimal.Zero,
				Credit:        totalCredit,
				PaymentMethod: paymentMethod,
				BankName:      input.Bank,
			}
			if err := tx.Create(&creditEntry).Error; err != nil {
				config.LogError(logger, "saleWorkflow.go", "ProcessSale", "CreateCreditEntry", creditEntry, err)
				return err
			}
		}

		detail, err := models.FirstOrCreateCustomerDetail(tx, customerName, date)
		if err != nil {
			config.LogError(logger, "saleWorkflow.go", "ProcessSale", "FirstOrCreateCustomerDetail", customerName, err)
			return err
		}
		if err := detail.ApplyCustomerSale(tx, totalCredit, totalDue, date); err != nil {
			config.LogError(logger, "saleWorkflow.go", "ProcessSale", "ApplyCustomerSale", detail, err)
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return transactionId, nil
}
