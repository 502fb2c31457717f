package workflow

import (
	"context"
	"fmt"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"gorm.io/gorm"
)

// ProcessTransfer moves tyres from store to shop for one line, spreading the
// quantity greedily across the matching purchase rows.
func ProcessTransfer(ctx context.Context, input *models.NewTransfer) (*models.TransferRecord, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	date, err := input.Validate()
	if err != nil {
		return nil, err
	}

	release := acquirePostingLock(ctx, logger, "transfer:"+models.StockKey(input.Company, input.Brand, input.Size, input.Model))
	defer release()

	var transfer models.TransferRecord
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchases, err := models.MatchingPurchases(tx, input.Company, input.Brand, input.Model, input.Size)
		if err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessTransfer", "MatchingPurchases", input, err)
			return err
		}

		available := 0
		for _, p := range purchases {
			available += p.Store
		}
		if input.Quantity > available {
			return fmt.Errorf("insufficient store stock: have %d, need %d", available, input.Quantity)
		}

		remaining := input.Quantity
		for _, p := range purchases {
			if remaining == 0 {
				break
			}
			move := p.Store
			if move > remaining {
				move = remaining
			}
			if move == 0 {
				continue
			}
			p.Store -= move
			p.Shop += move
			remaining -= move
			if err := tx.Save(p).Error; err != nil {
				config.LogError(logger, "transferWorkflow.go", "ProcessTransfer", "MoveStoreToShop", p, err)
				return err
			}
		}

		transfer = models.TransferRecord{
			Company:  utils.NormalizeCompanyName(input.Company),
			Brand:    input.Brand,
			Model:    input.Model,
			Size:     input.Size,
			Quantity: input.Quantity,
			Date:     date,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessTransfer", "CreateTransferRecord", transfer, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &transfer, nil
}
