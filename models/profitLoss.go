package models

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BrandProfit is the per-brand slice of the profit report.
type BrandProfit struct {
	Brand        string          `json:"brand"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	SalesRevenue decimal.Decimal `json:"sales_revenue"`
	ReturnAmount decimal.Decimal `json:"return_amount"`
	Profit       decimal.Decimal `json:"profit"`
	Margin       decimal.Decimal `json:"margin"`
}

// ProductProfit is one brand/model/size line in the top-seller ranking.
type ProductProfit struct {
	Brand   string          `json:"brand"`
	Model   string          `json:"model"`
	Size    string          `json:"size"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
}

type ProfitLossReport struct {
	TotalPurchaseCost decimal.Decimal `json:"total_purchase_cost"`
	TotalSalesRevenue decimal.Decimal `json:"total_sales_revenue"`
	TotalReturnAmount decimal.Decimal `json:"total_return_amount"`
	NetSales          decimal.Decimal `json:"net_sales"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
	Brands            []BrandProfit   `json:"brands"`
	TopProducts       []ProductProfit `json:"top_products"`
	TotalReturnedQty  int             `json:"total_returned_qty"`
	ReturnsByBrand    []BrandCount    `json:"returns_by_brand"`
	MostReturnedBrand string          `json:"most_returned_brand"`
}

// marginOf guards the division: a period with no purchases reports a zero
// margin instead of dividing by zero.
func marginOf(profit, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return profit.Div(cost).Mul(hundred)
}

// BuildProfitLossReport computes the full report over the given records.
// Callers narrow the period by passing pre-filtered slices.
func BuildProfitLossReport(purchases []*PurchaseRecord, sales []*SaleRecord, returns []*ReturnRecord) *ProfitLossReport {
	report := &ProfitLossReport{}

	brandAgg := make(map[string]*BrandProfit)
	brandOf := func(name string) *BrandProfit {
		name = strings.ToLower(name)
		if name == "" {
			name = strings.ToLower(AttributeNA)
		}
		b, ok := brandAgg[name]
		if !ok {
			b = &BrandProfit{Brand: name}
			brandAgg[name] = b
		}
		return b
	}

	for _, p := range purchases {
		cost := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		report.TotalPurchaseCost = report.TotalPurchaseCost.Add(cost)
		b := brandOf(p.Brand)
		b.PurchaseCost = b.PurchaseCost.Add(cost)
	}
	// Revenue is gross price*qty; per-line discounts belong to the ledger and
	// dues totals, not the profit report.
	for _, s := range sales {
		revenue := s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
		report.TotalSalesRevenue = report.TotalSalesRevenue.Add(revenue)
		b := brandOf(s.Brand)
		b.SalesRevenue = b.SalesRevenue.Add(revenue)
	}

	returnedByBrand := make(map[string]int)
	for _, r := range returns {
		refund := r.ReturnPrice.Mul(decimal.NewFromInt(int64(r.ReturnQuantity)))
		report.TotalReturnAmount = report.TotalReturnAmount.Add(refund)
		report.TotalReturnedQty += r.ReturnQuantity
		b := brandOf(r.Brand)
		b.ReturnAmount = b.ReturnAmount.Add(refund)
		returnedByBrand[strings.ToLower(r.Brand)] += r.ReturnQuantity
	}

	report.NetSales = report.TotalSalesRevenue.Sub(report.TotalReturnAmount)
	report.GrossProfit = report.NetSales.Sub(report.TotalPurchaseCost)
	report.ProfitMargin = marginOf(report.GrossProfit, report.TotalPurchaseCost)

	for _, b := range brandAgg {
		b.Profit = b.SalesRevenue.Sub(b.ReturnAmount).Sub(b.PurchaseCost)
		b.Margin = marginOf(b.Profit, b.PurchaseCost)
		report.Brands = append(report.Brands, *b)
	}
	sort.Slice(report.Brands, func(i, j int) bool { return report.Brands[i].Brand < report.Brands[j].Brand })

	report.TopProducts = topProducts(purchases, sales, returns, 3)

	mostReturned := ""
	mostReturnedQty := 0
	for brand, qty := range returnedByBrand {
		report.ReturnsByBrand = append(report.ReturnsByBrand, BrandCount{Brand: brand, Count: qty})
		if qty > mostReturnedQty || (qty == mostReturnedQty && brand < mostReturned) {
			mostReturned, mostReturnedQty = brand, qty
		}
	}
	sort.Slice(report.ReturnsByBrand, func(i, j int) bool { return report.ReturnsByBrand[i].Brand < report.ReturnsByBrand[j].Brand })
	report.MostReturnedBrand = mostReturned

	return report
}

// topProducts ranks brand/model/size lines by profit. Each sale line is
// costed against the first purchase matching its brand+model+size, the way
// the stock engine matches lines.
func topProducts(purchases []*PurchaseRecord, sales []*SaleRecord, returns []*ReturnRecord, limit int) []ProductProfit {
	type productKey struct {
		brand, model, size string
	}
	keyOf := func(brand, model, size string) productKey {
		return productKey{strings.ToLower(brand), strings.ToLower(model), strings.ToLower(size)}
	}

	firstBuy := make(map[productKey]*PurchaseRecord)
	for _, p := range purchases {
		k := keyOf(p.Brand, p.Model, p.Size)
		if _, ok := firstBuy[k]; !ok {
			firstBuy[k] = p
		}
	}

	refunds := make(map[productKey]decimal.Decimal)
	for _, r := range returns {
		k := keyOf(r.Brand, r.Model, r.Size)
		refunds[k] = refunds[k].Add(r.ReturnPrice.Mul(decimal.NewFromInt(int64(r.ReturnQuantity))))
	}

	agg := make(map[productKey]*ProductProfit)
	for _, s := range sales {
		k := keyOf(s.Brand, s.Model, s.Size)
		line, ok := agg[k]
		if !ok {
			line = &ProductProfit{Brand: k.brand, Model: k.model, Size: k.size}
			agg[k] = line
		}
		line.Revenue = line.Revenue.Add(s.Price.Mul(decimal.NewFromInt(int64(s.Quantity))))
		if buy, ok := firstBuy[k]; ok {
			line.Cost = line.Cost.Add(buy.Price.Mul(decimal.NewFromInt(int64(s.Quantity))))
		}
	}

	result := make([]ProductProfit, 0, len(agg))
	for k, line := range agg {
		line.Profit = line.Revenue.Sub(refunds[k]).Sub(line.Cost)
		result = append(result, *line)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Profit.Equal(result[j].Profit) {
			return result[i].Brand < result[j].Brand
		}
		return result[i].Profit.GreaterThan(result[j].Profit)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// GetProfitLossReport loads the records for the period and builds the report.
func GetProfitLossReport(ctx context.Context, rng DateRange) (*ProfitLossReport, error) {
	purchases, err := ListPurchases(ctx, PurchaseFilter{Range: rng})
	if err != nil {
		return nil, err
	}
	sales, err := ListSales(ctx, SaleFilter{Range: rng})
	if err != nil {
		return nil, err
	}
	returns, err := ListReturns(ctx, rng)
	if err != nil {
		return nil, err
	}
	return BuildProfitLossReport(purchases, sales, returns), nil
}
