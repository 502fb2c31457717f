package models_test

import (
	"testing"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildStockSummary_FoldsHistory(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "SP Touring", Size: "195/65R15",
			Price: decimal.NewFromInt(4500), Quantity: 10, Store: 6, Shop: 4, Date: day(2026, 1, 10)},
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "SP Touring", Size: "195/65R15",
			Price: decimal.NewFromInt(4600), Quantity: 5, Store: 5, Shop: 0, Date: day(2026, 2, 1)},
	}
	sales := []*models.SaleRecord{
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "SP Touring", Size: "195/65R15",
			Price: decimal.NewFromInt(5200), Quantity: 4, Date: day(2026, 2, 5)},
	}
	returns := []*models.ReturnRecord{
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "SP Touring", Size: "195/65R15",
			ReturnQuantity: 1, ReturnPrice: decimal.NewFromInt(5200), Date: day(2026, 2, 7)},
	}

	rows := models.BuildStockSummary(purchases, sales, returns, models.StockFilter{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 line, got %d", len(rows))
	}
	row := rows[0]
	if row.Bought != 15 {
		t.Fatalf("bought = %d, want 15", row.Bought)
	}
	if row.Sold != 3 {
		t.Fatalf("sold = %d, want 3 (4 sold minus 1 returned)", row.Sold)
	}
	if row.Returned != 1 {
		t.Fatalf("returned = %d, want 1", row.Returned)
	}
	if row.Stock != 12 {
		t.Fatalf("stock = %d, want 12", row.Stock)
	}
	if !row.LatestDate.Equal(day(2026, 2, 7)) {
		t.Fatalf("latest date = %v, want the return date as the newest event", row.LatestDate)
	}
}

func TestBuildStockSummary_LatestDateTracksSales(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "SP Touring", Size: "195/65R15",
			Quantity: 5, Shop: 5, Date: day(2026, 1, 1)},
	}
	sales := []*models.SaleRecord{
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "SP Touring", Size: "195/65R15",
			Quantity: 2, Date: day(2026, 3, 1)},
	}

	rows := models.BuildStockSummary(purchases, sales, nil, models.StockFilter{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 line, got %d", len(rows))
	}
	if !rows[0].LatestDate.Equal(day(2026, 3, 1)) {
		t.Fatalf("latest date = %v, want the sale date", rows[0].LatestDate)
	}

	d := day(2026, 3, 1)
	onDay := models.BuildStockSummary(purchases, sales, nil, models.StockFilter{Date: &d})
	if len(onDay) != 1 {
		t.Fatalf("date filter should match the sale date, got %d rows", len(onDay))
	}
}

func TestBuildStockSummary_ClampsNegative(t *testing.T) {
	// A sale with no recorded purchase must not drive stock below zero.
	sales := []*models.SaleRecord{
		{Company: "general tyre", Brand: "General", Model: "XP2000", Size: "155R12",
			Price: decimal.NewFromInt(3000), Quantity: 5, Date: day(2026, 3, 1)},
	}
	// A return larger than the recorded sales clamps sold at zero.
	returns := []*models.ReturnRecord{
		{Company: "general tyre", Brand: "General", Model: "XP2000", Size: "155R12",
			ReturnQuantity: 9, Date: day(2026, 3, 2)},
	}

	rows := models.BuildStockSummary(nil, sales, returns, models.StockFilter{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 line, got %d", len(rows))
	}
	if rows[0].Sold != 0 {
		t.Fatalf("sold = %d, want 0 after clamping", rows[0].Sold)
	}
	if rows[0].Stock != 0 {
		t.Fatalf("stock = %d, want 0 after clamping", rows[0].Stock)
	}
}

func TestBuildStockSummary_BlankAttributesGroupUnderNA(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "yokohama", Brand: "", Model: "", Size: "165/70R13", Quantity: 2, Shop: 2, Date: day(2026, 1, 1)},
		{Company: "yokohama", Brand: "  ", Model: "", Size: "165/70R13", Quantity: 3, Store: 3, Date: day(2026, 1, 2)},
	}
	rows := models.BuildStockSummary(purchases, nil, nil, models.StockFilter{})
	if len(rows) != 1 {
		t.Fatalf("blank and whitespace brands should share one line, got %d", len(rows))
	}
	if rows[0].Brand != "N/A" {
		t.Fatalf("brand = %q, want N/A placeholder", rows[0].Brand)
	}
	if rows[0].Bought != 5 {
		t.Fatalf("bought = %d, want 5", rows[0].Bought)
	}
}

func TestBuildStockSummary_FilterAndOrder(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "dunlop pakistan", Brand: "Dunlop", Model: "A", Size: "195/65R15", Quantity: 1, Shop: 1, Date: day(2026, 1, 1)},
		{Company: "general tyre", Brand: "General", Model: "B", Size: "155R12", Quantity: 1, Shop: 1, Date: day(2026, 2, 1)},
	}

	rows := models.BuildStockSummary(purchases, nil, nil, models.StockFilter{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(rows))
	}
	if rows[0].Brand != "General" {
		t.Fatalf("most recently purchased line should come first, got %q", rows[0].Brand)
	}

	filtered := models.BuildStockSummary(purchases, nil, nil, models.StockFilter{Brand: "dunlop"})
	if len(filtered) != 1 || filtered[0].Brand != "Dunlop" {
		t.Fatalf("brand filter should be case-insensitive, got %v", filtered)
	}

	searched := models.BuildStockSummary(purchases, nil, nil, models.StockFilter{Search: "155r12"})
	if len(searched) != 1 || searched[0].Size != "155R12" {
		t.Fatalf("search should match size, got %v", searched)
	}

	d := day(2026, 2, 1)
	onDay := models.BuildStockSummary(purchases, nil, nil, models.StockFilter{Date: &d})
	if len(onDay) != 1 || onDay[0].Brand != "General" {
		t.Fatalf("date filter should keep only lines last purchased that day, got %v", onDay)
	}
}

func TestBuildInventoryTotals(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "c", Brand: "b", Model: "m", Size: "s",
			Price: decimal.NewFromInt(100), Quantity: 10, Shop: 10, Date: day(2026, 1, 1)},
	}
	sales := []*models.SaleRecord{
		{Company: "c", Brand: "b", Model: "m", Size: "s",
			Price: decimal.NewFromInt(150), Quantity: 4, Date: day(2026, 1, 5)},
	}
	returns := []*models.ReturnRecord{
		{Company: "c", Brand: "b", Model: "m", Size: "s",
			ReturnQuantity: 1, ReturnPrice: decimal.NewFromInt(150), Date: day(2026, 1, 6)},
	}

	totals := models.BuildInventoryTotals(purchases, sales, returns)
	if totals.TotalBought != 10 || totals.TotalSold != 3 || totals.TotalReturned != 1 {
		t.Fatalf("unexpected quantities: %+v", totals)
	}
	if totals.TotalStock != 7 {
		t.Fatalf("total stock = %d, want 7", totals.TotalStock)
	}
	if !totals.TotalBuyCost.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("buy cost = %s, want 1000", totals.TotalBuyCost)
	}
	// 4*150 gross minus 1*150 refunded.
	if !totals.AdjustedTotalSales.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("adjusted sales = %s, want 450", totals.AdjustedTotalSales)
	}
}
