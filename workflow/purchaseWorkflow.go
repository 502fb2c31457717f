package workflow

import (
	"context"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcessPurchase records a consignment and posts its debit on the company
// ledger in one transaction.
func ProcessPurchase(ctx context.Context, input *models.NewPurchase) (*models.PurchaseRecord, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return nil, err
	}

	purchase := models.PurchaseRecord{
		Company:       utils.NormalizeCompanyName(input.Company),
		Brand:         input.Brand,
		Model:         input.Model,
		Size:          input.Size,
		Price:         input.Price,
		Quantity:      input.Quantity,
		Store:         input.Store,
		Shop:          input.Shop,
		TotalPrice:    input.Price.Mul(decimal.NewFromInt(int64(input.Quantity))),
		Date:          date,
		InvoiceNumber: utils.GenerateInvoiceNumber(),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "ProcessPurchase", "CreatePurchase", input, err)
			return err
		}

		entry := models.CompanyLedgerEntry{
			CompanyName:   purchase.Company,
			Brand:         purchase.Brand,
			Size:          purchase.Size,
			InvoiceNumber: purchase.InvoiceNumber,
			Date:          date,
			Narration:     purchase.LedgerNarration(),
			Debit:         purchase.TotalPrice,
			Credit:        decimal.Zero,
		}
		if err := tx.Create(&entry).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "ProcessPurchase", "CreateCompanyLedgerEntry", entry, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// UpdatePurchase rewrites the consignment and its first ledger row posted
// under the same invoice number.
func UpdatePurchase(ctx context.Context, id int, input *models.NewPurchase) (*models.PurchaseRecord, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return nil, err
	}

	purchase, err := utils.FetchModel[models.PurchaseRecord](ctx, id)
	if err != nil {
		return nil, err
	}

	purchase.Company = utils.NormalizeCompanyName(input.Company)
	purchase.Brand = input.Brand
	purchase.Model = input.Model
	purchase.Size = input.Size
	purchase.Price = input.Price
	purchase.Quantity = input.Quantity
	purchase.Store = input.Store
	purchase.Shop = input.Shop
	purchase.TotalPrice = input.Price.Mul(decimal.NewFromInt(int64(input.Quantity)))
	purchase.Date = date

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(purchase).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePurchase", "SavePurchase", purchase, err)
			return err
		}

		var entry models.CompanyLedgerEntry
		err := tx.Where("invoice_number = ?", purchase.InvoiceNumber).Order("id ASC").First(&entry).Error
		if err == gorm.ErrRecordNotFound {
			// Ledger row was removed manually; nothing to rewrite.
			return nil
		}
		if err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePurchase", "FindCompanyLedgerEntry", purchase.InvoiceNumber, err)
			return err
		}

		entry.CompanyName = purchase.Company
		entry.Brand = purchase.Brand
		entry.Size = purchase.Size
		entry.Date = date
		entry.Narration = purchase.LedgerNarration()
		entry.Debit = purchase.TotalPrice
		if err := tx.Save(&entry).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePurchase", "SaveCompanyLedgerEntry", entry, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

// DeletePurchase removes the consignment together with every ledger row
// posted under its invoice number.
func DeletePurchase(ctx context.Context, id int) (*models.PurchaseRecord, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	purchase, err := utils.FetchModel[models.PurchaseRecord](ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(purchase).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "DeletePurchase", "DeletePurchase", id, err)
			return err
		}
		if err := models.DeleteCompanyEntriesByInvoice(tx, purchase.InvoiceNumber); err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "DeletePurchase", "DeleteCompanyEntriesByInvoice", purchase.InvoiceNumber, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}
