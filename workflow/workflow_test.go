package workflow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"bitbucket.org/sarhadtyres/tyreshop_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.PurchaseRecord{},
		&models.SaleRecord{},
		&models.ReturnRecord{},
		&models.TransferRecord{},
		&models.CompanyLedgerEntry{},
		&models.CustomerLedgerEntry{},
		&models.CompanyDetail{},
		&models.CustomerDetail{},
	)
	require.NoError(t, err)

	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })
	return db
}

func seedPurchase(t *testing.T, db *gorm.DB, store, shop int) *models.PurchaseRecord {
	t.Helper()
	p := &models.PurchaseRecord{
		Company:       "dunloppakistan",
		Brand:         "Dunlop",
		Model:         "SP Touring",
		Size:          "195/65R15",
		Price:         decimal.NewFromInt(4500),
		Quantity:      store + shop,
		Store:         store,
		Shop:          shop,
		TotalPrice:    decimal.NewFromInt(4500 * int64(store+shop)),
		Date:          mustParse(t, "2026-01-10"),
		InvoiceNumber: fmt.Sprintf("INV-test-%d", store*100+shop),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDateString(s)
	require.NoError(t, err)
	return d
}

func TestProcessPurchase_PostsCompanyLedger(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	purchase, err := workflow.ProcessPurchase(ctx, &models.NewPurchase{
		Company:  "Dunlop Pakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Price:    decimal.NewFromInt(4500),
		Quantity: 10,
		Store:    6,
		Shop:     4,
		Date:     "2026-01-10",
	})
	require.NoError(t, err)
	require.Equal(t, "dunloppakistan", purchase.Company)
	require.True(t, purchase.TotalPrice.Equal(decimal.NewFromInt(45000)))
	require.NotEmpty(t, purchase.InvoiceNumber)

	var entry models.CompanyLedgerEntry
	require.NoError(t, db.Where("invoice_number = ?", purchase.InvoiceNumber).First(&entry).Error)
	require.Equal(t, "dunloppakistan", entry.CompanyName)
	require.True(t, entry.Debit.Equal(decimal.NewFromInt(45000)))
	require.Equal(t, "195/65R15_Dunlop_Qty_10_Rate_4500", entry.Narration)

	// Store/shop split must add up.
	_, err = workflow.ProcessPurchase(ctx, &models.NewPurchase{
		Company:  "Dunlop Pakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Price:    decimal.NewFromInt(4500),
		Quantity: 10,
		Store:    6,
		Shop:     3,
		Date:     "2026-01-10",
	})
	require.Error(t, err)
}

func TestDeletePurchase_RemovesLedgerRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	purchase, err := workflow.ProcessPurchase(ctx, &models.NewPurchase{
		Company:  "General Tyre",
		Brand:    "General",
		Model:    "XP2000",
		Size:     "155R12",
		Price:    decimal.NewFromInt(3000),
		Quantity: 4,
		Store:    4,
		Date:     "2026-01-12",
	})
	require.NoError(t, err)

	_, err = workflow.DeletePurchase(ctx, purchase.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.PurchaseRecord{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.CompanyLedgerEntry{}).Where("invoice_number = ?", purchase.InvoiceNumber).Count(&count).Error)
	require.Zero(t, count)
}

func TestProcessSale_DeductsShopAndPostsLedger(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedPurchase(t, db, 0, 5)

	// Selling exactly the shop quantity is allowed.
	txnId, err := workflow.ProcessSale(ctx, &models.NewSale{
		CustomerName: "Ali Khan",
		Bank:         "HBL",
		Date:         "2026-02-01",
		Items: []models.NewSaleItem{{
			Company:  "dunloppakistan",
			Brand:    "Dunlop",
			Model:    "SP Touring",
			Size:     "195/65R15",
			Price:    decimal.NewFromInt(5000),
			Quantity: 5,
			Discount: decimal.NewFromInt(200),
			Due:      decimal.NewFromInt(4000),
		}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, txnId)

	var purchase models.PurchaseRecord
	require.NoError(t, db.First(&purchase).Error)
	require.Zero(t, purchase.Shop)

	var sale models.SaleRecord
	require.NoError(t, db.Where("transaction_id = ?", txnId).First(&sale).Error)
	require.Equal(t, "ali khan", sale.CustomerName)
	// (5000-200)*5 - 4000
	require.True(t, sale.PayableAmount.Equal(decimal.NewFromInt(20000)), "payable = %s", sale.PayableAmount)

	var entries []models.CustomerLedgerEntry
	require.NoError(t, db.Where("invoice_number = ?", txnId).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Debit.Equal(decimal.NewFromInt(24000)))
	require.Equal(t, models.NarrationPrefixSale+txnId, entries[0].Narration)
	require.Contains(t, entries[0].Description, "Tyres sold: 5 Dunlop 195/65R15")
	require.True(t, entries[1].Credit.Equal(decimal.NewFromInt(20000)))
	require.Equal(t, models.PaymentMethodBank, entries[1].PaymentMethod)
	require.Equal(t, "Payment via HBL", entries[1].Description)

	var detail models.CustomerDetail
	require.NoError(t, db.Where("customer_name = ?", "ali khan").First(&detail).Error)
	require.True(t, detail.TotalPaid.Equal(decimal.NewFromInt(20000)))
	require.True(t, detail.Due.Equal(decimal.NewFromInt(4000)))
}

func TestProcessSale_InsufficientShopStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	// Store stock does not count; only shop stock is sellable.
	seedPurchase(t, db, 10, 2)

	_, err := workflow.ProcessSale(ctx, &models.NewSale{
		CustomerName: "Ali Khan",
		Date:         "2026-02-01",
		Items: []models.NewSaleItem{{
			Company:  "dunloppakistan",
			Brand:    "Dunlop",
			Model:    "SP Touring",
			Size:     "195/65R15",
			Price:    decimal.NewFromInt(5000),
			Quantity: 3,
		}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient shop stock")

	// The rejected sale must leave nothing behind.
	var count int64
	require.NoError(t, db.Model(&models.SaleRecord{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.CustomerLedgerEntry{}).Count(&count).Error)
	require.Zero(t, count)
	var purchase models.PurchaseRecord
	require.NoError(t, db.First(&purchase).Error)
	require.Equal(t, 2, purchase.Shop)
}

func TestProcessSale_CashWithoutCreditEntry(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedPurchase(t, db, 0, 2)

	// Whole amount left as due: no payment row is posted.
	txnId, err := workflow.ProcessSale(ctx, &models.NewSale{
		CustomerName: "Ali Khan",
		Date:         "2026-02-01",
		Items: []models.NewSaleItem{{
			Company:  "dunloppakistan",
			Brand:    "Dunlop",
			Model:    "SP Touring",
			Size:     "195/65R15",
			Price:    decimal.NewFromInt(5000),
			Quantity: 1,
			Due:      decimal.NewFromInt(5000),
		}},
	})
	require.NoError(t, err)

	var entries []models.CustomerLedgerEntry
	require.NoError(t, db.Where("invoice_number = ?", txnId).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Debit.Equal(decimal.NewFromInt(5000)))
}

func TestProcessSale_DisplayCompanySpelling(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := workflow.ProcessPurchase(ctx, &models.NewPurchase{
		Company:  "Dunlop Pakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Price:    decimal.NewFromInt(4500),
		Quantity: 5,
		Shop:     5,
		Date:     "2026-01-10",
	})
	require.NoError(t, err)

	// The sale quotes the same display spelling used at purchase time; the
	// stored rows hold the normalized company, so matching must normalize too.
	_, err = workflow.ProcessSale(ctx, &models.NewSale{
		CustomerName: "Ali Khan",
		Date:         "2026-02-01",
		Items: []models.NewSaleItem{{
			Company:  "Dunlop Pakistan",
			Brand:    "Dunlop",
			Model:    "SP Touring",
			Size:     "195/65R15",
			Price:    decimal.NewFromInt(5000),
			Quantity: 2,
		}},
	})
	require.NoError(t, err)

	var purchase models.PurchaseRecord
	require.NoError(t, db.First(&purchase).Error)
	require.Equal(t, 3, purchase.Shop)
}

func TestProcessTransferAndReturn_DisplayCompanySpelling(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := workflow.ProcessPurchase(ctx, &models.NewPurchase{
		Company:  "Dunlop Pakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Price:    decimal.NewFromInt(4500),
		Quantity: 4,
		Store:    4,
		Date:     "2026-01-10",
	})
	require.NoError(t, err)

	_, err = workflow.ProcessTransfer(ctx, &models.NewTransfer{
		Company:  "Dunlop Pakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Quantity: 3,
		Date:     "2026-02-10",
	})
	require.NoError(t, err)

	var purchase models.PurchaseRecord
	require.NoError(t, db.First(&purchase, created.ID).Error)
	require.Equal(t, 1, purchase.Store)
	require.Equal(t, 3, purchase.Shop)

	_, err = workflow.ProcessReturn(ctx, &models.NewReturn{
		Customer: "Ali Khan",
		Date:     "2026-03-01",
		Items: []models.NewReturnItem{{
			Company:        "Dunlop Pakistan",
			Brand:          "Dunlop",
			Model:          "SP Touring",
			Size:           "195/65R15",
			Price:          decimal.NewFromInt(5000),
			Quantity:       1,
			ReturnQuantity: 1,
			ReturnPrice:    decimal.NewFromInt(4800),
		}},
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&purchase, created.ID).Error)
	require.Equal(t, 4, purchase.Shop)
}

func TestProcessTransfer_SpreadsAcrossConsignments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	first := seedPurchase(t, db, 4, 0)
	second := seedPurchase(t, db, 3, 1)

	transfer, err := workflow.ProcessTransfer(ctx, &models.NewTransfer{
		Company:  "dunloppakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Quantity: 6,
		Date:     "2026-02-10",
	})
	require.NoError(t, err)
	require.Equal(t, 6, transfer.Quantity)

	var a, b models.PurchaseRecord
	require.NoError(t, db.First(&a, first.ID).Error)
	require.NoError(t, db.First(&b, second.ID).Error)
	// Greedy in id order: the first consignment drains fully, the second
	// covers the remainder.
	require.Equal(t, 0, a.Store)
	require.Equal(t, 4, a.Shop)
	require.Equal(t, 1, b.Store)
	require.Equal(t, 3, b.Shop)
}

func TestProcessTransfer_InsufficientStoreStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedPurchase(t, db, 2, 10)

	_, err := workflow.ProcessTransfer(ctx, &models.NewTransfer{
		Company:  "dunloppakistan",
		Brand:    "Dunlop",
		Model:    "SP Touring",
		Size:     "195/65R15",
		Quantity: 3,
		Date:     "2026-02-10",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient store stock")

	var count int64
	require.NoError(t, db.Model(&models.TransferRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestProcessReturn_RestocksShop(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	purchase := seedPurchase(t, db, 0, 0)

	txnId, err := workflow.ProcessReturn(ctx, &models.NewReturn{
		Customer: "Ali Khan",
		Date:     "2026-03-01",
		Items: []models.NewReturnItem{{
			Company:        "dunloppakistan",
			Brand:          "Dunlop",
			Model:          "SP Touring",
			Size:           "195/65R15",
			Price:          decimal.NewFromInt(5000),
			Quantity:       3,
			ReturnQuantity: 2,
			ReturnPrice:    decimal.NewFromInt(4800),
		}},
	})
	require.NoError(t, err)

	var record models.ReturnRecord
	require.NoError(t, db.Where("transaction_id = ?", txnId).First(&record).Error)
	require.True(t, record.TotalPrice.Equal(decimal.NewFromInt(15000)))
	require.True(t, record.ReturnTotalPrice.Equal(decimal.NewFromInt(9600)))

	var restocked models.PurchaseRecord
	require.NoError(t, db.First(&restocked, purchase.ID).Error)
	require.Equal(t, 2, restocked.Shop)
}

func TestProcessReturn_NoMatchingPurchaseStillRecords(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	txnId, err := workflow.ProcessReturn(ctx, &models.NewReturn{
		Customer: "Ali Khan",
		Date:     "2026-03-01",
		Items: []models.NewReturnItem{{
			Company:        "nobody",
			Brand:          "Ghost",
			Model:          "X",
			Size:           "0R0",
			Price:          decimal.NewFromInt(100),
			Quantity:       1,
			ReturnQuantity: 1,
			ReturnPrice:    decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ReturnRecord{}).Where("transaction_id = ?", txnId).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRecordCustomerPayment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	detail := models.CustomerDetail{
		CustomerName: "ali khan",
		Due:          decimal.NewFromInt(3000),
		Date:         mustParse(t, "2026-01-01"),
	}
	require.NoError(t, db.Create(&detail).Error)

	entry, err := workflow.RecordCustomerPayment(ctx, &models.NewPayment{
		Party:         "Ali Khan",
		Amount:        decimal.NewFromInt(5000),
		Date:          "2026-03-15",
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.True(t, entry.Credit.Equal(decimal.NewFromInt(5000)))
	require.Equal(t, "Cash Payment", entry.Description)

	var updated models.CustomerDetail
	require.NoError(t, db.Where("customer_name = ?", "ali khan").First(&updated).Error)
	require.True(t, updated.TotalPaid.Equal(decimal.NewFromInt(5000)))
	// Overpayment clamps the due at zero.
	require.True(t, updated.Due.IsZero())
}

func TestRecordCompanyPayment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	entry, err := workflow.RecordCompanyPayment(ctx, &models.NewPayment{
		Party:         "Dunlop Pakistan",
		Amount:        decimal.NewFromInt(10000),
		Date:          "2026-03-15",
		PaymentMethod: models.PaymentMethodBank,
		BankName:      "HBL",
	})
	require.NoError(t, err)
	require.Equal(t, "dunloppakistan", entry.CompanyName)
	require.Equal(t, "Payment via HBL", entry.Description)

	var detail models.CompanyDetail
	require.NoError(t, db.Where("company_name = ?", "dunloppakistan").First(&detail).Error)
	require.True(t, detail.TotalPaid.Equal(decimal.NewFromInt(10000)))

	// Bank payments without a bank name are rejected.
	_, err = workflow.RecordCompanyPayment(ctx, &models.NewPayment{
		Party:         "Dunlop Pakistan",
		Amount:        decimal.NewFromInt(10000),
		Date:          "2026-03-15",
		PaymentMethod: models.PaymentMethodBank,
	})
	require.Error(t, err)
}
