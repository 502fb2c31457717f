package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
)

// CatalogItem is a known tyre line the shop deals in. The catalog drives the
// cascading company -> brand -> model -> size pickers; purchase history
// backfills lines that were bought before being catalogued.
type CatalogItem struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Company   string    `gorm:"size:100;not null;index:idx_catalog_line,unique" json:"company" binding:"required"`
	Brand     string    `gorm:"size:100;not null;index:idx_catalog_line,unique" json:"brand" binding:"required"`
	Model     string    `gorm:"size:100;not null;index:idx_catalog_line,unique" json:"model" binding:"required"`
	Size      string    `gorm:"size:50;not null;index:idx_catalog_line,unique" json:"size" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewCatalogItem struct {
	Company string `json:"company" binding:"required"`
	Brand   string `json:"brand" binding:"required"`
	Model   string `json:"model" binding:"required"`
	Size    string `json:"size" binding:"required"`
}

func (input *NewCatalogItem) normalize() CatalogItem {
	return CatalogItem{
		Company: utils.NormalizeCompanyName(input.Company),
		Brand:   strings.ToLower(strings.TrimSpace(input.Brand)),
		Model:   strings.ToLower(strings.TrimSpace(input.Model)),
		Size:    strings.ToLower(strings.TrimSpace(input.Size)),
	}
}

func CreateCatalogItem(ctx context.Context, input *NewCatalogItem) (*CatalogItem, error) {
	db := config.GetDB()

	item := input.normalize()
	if item.Company == "" || item.Brand == "" || item.Model == "" || item.Size == "" {
		return nil, errors.New("company, brand, model and size are required")
	}

	var count int64
	err := db.WithContext(ctx).Model(&CatalogItem{}).
		Where("company = ? AND brand = ? AND model = ? AND size = ?", item.Company, item.Brand, item.Model, item.Size).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("catalog item already exists")
	}

	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetCatalogItem(ctx context.Context, id int) (*CatalogItem, error) {

	result, err := utils.RetrieveRedis[CatalogItem](id)
	if err != nil {
		return nil, err
	}

	if result == nil {
		db := config.GetDB()
		// db query
		err := db.WithContext(ctx).First(&result, id).Error
		if err != nil {
			return nil, utils.ErrorRecordNotFound
		}
		// caching
		if err := utils.StoreRedis[CatalogItem](result, id); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func DeleteCatalogItem(ctx context.Context, id int) error {
	item, err := utils.FetchModel[CatalogItem](ctx, id)
	if err != nil {
		return err
	}
	if err := config.GetDB().WithContext(ctx).Delete(item).Error; err != nil {
		return err
	}
	return utils.RemoveRedisItem[CatalogItem](id)
}

func ListCatalogItems(ctx context.Context) ([]*CatalogItem, error) {
	var items []*CatalogItem
	err := config.GetDB().WithContext(ctx).Order("company ASC, brand ASC, model ASC, size ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CatalogLookup returns the distinct next-level values for the cascading
// pickers, merged from the catalog and the purchase history.
// Levels: brands of a company, models of a company+brand, sizes of
// company+brand+model.
func CatalogLookup(ctx context.Context, company, brand, model string) ([]string, error) {
	db := config.GetDB()

	company = utils.NormalizeCompanyName(company)
	brand = strings.ToLower(strings.TrimSpace(brand))
	model = strings.ToLower(strings.TrimSpace(model))

	var column string
	catalogQ := db.WithContext(ctx).Model(&CatalogItem{})
	purchaseQ := db.WithContext(ctx).Model(&PurchaseRecord{})
	switch {
	case brand == "":
		column = "brand"
		catalogQ = catalogQ.Where("company = ?", company)
		purchaseQ = purchaseQ.Where("LOWER(company) = ?", company)
	case model == "":
		column = "model"
		catalogQ = catalogQ.Where("company = ? AND brand = ?", company, brand)
		purchaseQ = purchaseQ.Where("LOWER(company) = ? AND LOWER(brand) = ?", company, brand)
	default:
		column = "size"
		catalogQ = catalogQ.Where("company = ? AND brand = ? AND model = ?", company, brand, model)
		purchaseQ = purchaseQ.Where("LOWER(company) = ? AND LOWER(brand) = ? AND LOWER(model) = ?", company, brand, model)
	}

	var fromCatalog []string
	if err := catalogQ.Distinct().Pluck(column, &fromCatalog).Error; err != nil {
		return nil, err
	}
	var fromPurchases []string
	if err := purchaseQ.Distinct().Pluck(column, &fromPurchases).Error; err != nil {
		return nil, err
	}

	merged := make([]string, 0, len(fromCatalog)+len(fromPurchases))
	for _, v := range append(fromCatalog, fromPurchases...) {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			merged = append(merged, v)
		}
	}
	return utils.UniqueSlice(merged), nil
}
