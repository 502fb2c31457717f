package models

import (
	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"github.com/sirupsen/logrus"
)

// MigrateTable runs AutoMigrate for every model. Called on startup unless
// SKIP_MIGRATIONS is set.
func MigrateTable() {
	db := config.GetDB()
	logger := config.GetLogger()

	err := db.AutoMigrate(
		&Account{},
		&User{},
		&PurchaseRecord{},
		&SaleRecord{},
		&ReturnRecord{},
		&TransferRecord{},
		&CompanyLedgerEntry{},
		&CustomerLedgerEntry{},
		&CompanyDetail{},
		&CustomerDetail{},
		&CatalogItem{},
	)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "migration",
		}).Panic(err.Error())
	}
}
