package workflow

import (
	"context"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProcessReturn records returned tyres and restocks them into the shop. Each
// returned quantity goes back onto the first purchase row matching the line;
// a line with no matching purchase is still recorded, it just cannot restock.
func ProcessReturn(ctx context.Context, input *models.NewReturn) (string, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return "", err
	}

	customer := utils.NormalizeCustomerName(input.Customer)
	transactionId := uuid.New().String()

	release := acquirePostingLock(ctx, logger, "return:"+customer)
	defer release()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range input.Items {
			record := models.ReturnRecord{
				TransactionId:    transactionId,
				Customer:         customer,
				Company:          utils.NormalizeCompanyName(item.Company),
				Brand:            item.Brand,
				Model:            item.Model,
				Size:             item.Size,
				Price:            item.Price,
				Quantity:         item.Quantity,
				TotalPrice:       item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
				ReturnQuantity:   item.ReturnQuantity,
				ReturnPrice:      item.ReturnPrice,
				ReturnTotalPrice: item.ReturnPrice.Mul(decimal.NewFromInt(int64(item.ReturnQuantity))),
				Date:             date,
				Comment:          item.Comment,
			}
			if err := tx.Create(&record).Error; err != nil {
				config.LogError(logger, "returnWorkflow.go", "ProcessReturn", "CreateReturnRecord", record, err)
				return err
			}

			purchases, err := models.MatchingPurchases(tx, item.Company, item.Brand, item.Model, item.Size)
			if err != nil {
				config.LogError(logger, "returnWorkflow.go", "ProcessReturn", "MatchingPurchases", item, err)
				return err
			}
			if len(purchases) == 0 {
				logger.WithFields(logrus.Fields{
					"module":   "returnWorkflow.go",
					"funcName": "ProcessReturn",
					"item":     item,
				}).Warn("no matching purchase to restock return against")
				continue
			}

			first := purchases[0]
			first.Shop += item.ReturnQuantity
			if err := tx.Save(first).Error; err != nil {
				config.LogError(logger, "returnWorkflow.go", "ProcessReturn", "RestockShop", first, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return transactionId, nil
}
