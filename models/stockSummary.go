package models

import (
	"context"
	"sort"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/shopspring/decimal"
)

// StockSummaryRow is one reconciled tyre line. It is never stored; stock is
// recomputed from the full purchase/sale/return history on every read, so a
// lost or replayed record can never leave a stale aggregate behind.
type StockSummaryRow struct {
	Key        string    `json:"key"`
	Company    string    `json:"company"`
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	Size       string    `json:"size"`
	Bought     int       `json:"bought"`
	Sold       int       `json:"sold"`
	Returned   int       `json:"returned"`
	Store      int       `json:"store"`
	Shop       int       `json:"shop"`
	Stock      int       `json:"stock"`
	LatestDate time.Time `json:"latest_date"`
}

type StockFilter struct {
	Search string
	Brand  string
	Range  DateRange
	// Date narrows to lines whose latest purchase fell on this exact day.
	Date *time.Time
}

// BuildStockSummary folds the full record history into per-line stock rows.
// Purchases are folded first so sales and returns land on initialized lines.
// Sold is clamped at zero as returns come off it, and stock never goes
// negative.
func BuildStockSummary(purchases []*PurchaseRecord, sales []*SaleRecord, returns []*ReturnRecord, filter StockFilter) []*StockSummaryRow {
	rows := make(map[string]*StockSummaryRow)

	line := func(company, brand, size, model string) *StockSummaryRow {
		key := StockKey(company, brand, size, model)
		row, ok := rows[key]
		if !ok {
			row = &StockSummaryRow{
				Key:     key,
				Company: orNA(company),
				Brand:   orNA(brand),
				Model:   orNA(model),
				Size:    orNA(size),
			}
			rows[key] = row
		}
		return row
	}

	for _, p := range purchases {
		row := line(p.Company, p.Brand, p.Size, p.Model)
		row.Bought += p.Quantity
		row.Store += p.Store
		row.Shop += p.Shop
		if p.Date.After(row.LatestDate) {
			row.LatestDate = p.Date
		}
	}

	for _, s := range sales {
		row := line(s.Company, s.Brand, s.Size, s.Model)
		row.Sold += s.Quantity
		if s.Date.After(row.LatestDate) {
			row.LatestDate = s.Date
		}
	}

	for _, r := range returns {
		row := line(r.Company, r.Brand, r.Size, r.Model)
		row.Returned += r.ReturnQuantity
		row.Sold -= r.ReturnQuantity
		if row.Sold < 0 {
			row.Sold = 0
		}
		if r.Date.After(row.LatestDate) {
			row.LatestDate = r.Date
		}
	}

	result := make([]*StockSummaryRow, 0, len(rows))
	for _, row := range rows {
		row.Stock = row.Bought - row.Sold
		if row.Stock < 0 {
			row.Stock = 0
		}
		if !matchStockFilter(row, filter) {
			continue
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].LatestDate.Equal(result[j].LatestDate) {
			return result[i].Key < result[j].Key
		}
		return result[i].LatestDate.After(result[j].LatestDate)
	})
	return result
}

func matchStockFilter(row *StockSummaryRow, filter StockFilter) bool {
	if filter.Brand != "" && !strings.EqualFold(row.Brand, filter.Brand) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		haystack := strings.ToLower(row.Company + " " + row.Brand + " " + row.Size + " " + row.Model)
		if !strings.Contains(haystack, s) {
			return false
		}
	}
	if !filter.Range.IsZero() && !filter.Range.Contains(row.LatestDate) {
		return false
	}
	if filter.Date != nil && !SameDay(row.LatestDate, *filter.Date) {
		return false
	}
	return true
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return AttributeNA
	}
	return s
}

// InventoryTotals is the dashboard rollup over the whole history.
type InventoryTotals struct {
	TotalStock         int             `json:"total_stock"`
	TotalBought        int             `json:"total_bought"`
	TotalSold          int             `json:"total_sold"`
	TotalReturned      int             `json:"total_returned"`
	TotalBuyCost       decimal.Decimal `json:"total_buy_cost"`
	AdjustedTotalSales decimal.Decimal `json:"adjusted_total_sales"`
}

// BuildInventoryTotals sums the dashboard figures. AdjustedTotalSales is the
// gross sale value minus the refunded value.
func BuildInventoryTotals(purchases []*PurchaseRecord, sales []*SaleRecord, returns []*ReturnRecord) InventoryTotals {
	var totals InventoryTotals

	rows := BuildStockSummary(purchases, sales, returns, StockFilter{})
	for _, row := range rows {
		totals.TotalStock += row.Stock
		totals.TotalBought += row.Bought
		totals.TotalSold += row.Sold
		totals.TotalReturned += row.Returned
	}

	for _, p := range purchases {
		totals.TotalBuyCost = totals.TotalBuyCost.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	gross := decimal.Zero
	for _, s := range sales {
		gross = gross.Add(s.Price.Mul(decimal.NewFromInt(int64(s.Quantity))))
	}
	refunded := decimal.Zero
	for _, r := range returns {
		refunded = refunded.Add(r.ReturnPrice.Mul(decimal.NewFromInt(int64(r.ReturnQuantity))))
	}
	totals.AdjustedTotalSales = gross.Sub(refunded)

	return totals
}

// GetStockSummary loads the full history and reconciles it.
func GetStockSummary(ctx context.Context, filter StockFilter) ([]*StockSummaryRow, error) {
	purchases, sales, returns, err := loadAllRecords(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStockSummary(purchases, sales, returns, filter), nil
}

// GetInventoryTotals loads the full history and builds the dashboard rollup.
func GetInventoryTotals(ctx context.Context) (InventoryTotals, error) {
	purchases, sales, returns, err := loadAllRecords(ctx)
	if err != nil {
		return InventoryTotals{}, err
	}
	return BuildInventoryTotals(purchases, sales, returns), nil
}

func loadAllRecords(ctx context.Context) ([]*PurchaseRecord, []*SaleRecord, []*ReturnRecord, error) {
	purchases, err := utils.FetchAllModels[PurchaseRecord](ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	sales, err := utils.FetchAllModels[SaleRecord](ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	returns, err := utils.FetchAllModels[ReturnRecord](ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return purchases, sales, returns, nil
}
