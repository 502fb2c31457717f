package models_test

import (
	"testing"

	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"github.com/shopspring/decimal"
)

func TestBuildCustomerPendingDues(t *testing.T) {
	sales := []*models.SaleRecord{
		{CustomerName: "ali khan", Price: decimal.NewFromInt(5000), Quantity: 2, Date: day(2026, 2, 10)},
		{CustomerName: "ali khan", Price: decimal.NewFromInt(3000), Quantity: 1, Date: day(2026, 1, 5)},
		{CustomerName: "settled up", Price: decimal.NewFromInt(1000), Quantity: 1, Date: day(2026, 2, 1)},
		{CustomerName: models.ReservedCustomerName, Price: decimal.NewFromInt(9999), Quantity: 1, Date: day(2026, 2, 1)},
	}
	details := []*models.CustomerDetail{
		{CustomerName: "ali khan", TotalPaid: decimal.NewFromInt(6000)},
		{CustomerName: "settled up", TotalPaid: decimal.NewFromInt(1000)},
	}
	phones := map[string]string{"ali khan": "+923001234567"}

	dues := models.BuildCustomerPendingDues(sales, details, phones, models.DateRange{})
	if len(dues) != 1 {
		t.Fatalf("only positive dues should be reported, got %d", len(dues))
	}
	d := dues[0]
	if d.Name != "ali khan" {
		t.Fatalf("name = %q", d.Name)
	}
	if !d.Due.Equal(decimal.NewFromInt(7000)) {
		t.Fatalf("due = %s, want 13000-6000=7000", d.Due)
	}
	if d.Phone != "+923001234567" {
		t.Fatalf("phone = %q", d.Phone)
	}
	if !d.Date.Equal(day(2026, 1, 5)) {
		t.Fatalf("date = %v, want the earliest sale date", d.Date)
	}
}

func TestBuildCustomerPendingDues_RangeOverEarliestDate(t *testing.T) {
	sales := []*models.SaleRecord{
		{CustomerName: "ali khan", Price: decimal.NewFromInt(5000), Quantity: 1, Date: day(2026, 1, 5)},
		{CustomerName: "ali khan", Price: decimal.NewFromInt(5000), Quantity: 1, Date: day(2026, 3, 5)},
	}

	rng := models.DateRange{From: day(2026, 3, 1), To: day(2026, 3, 31)}
	dues := models.BuildCustomerPendingDues(sales, nil, nil, rng)
	if len(dues) != 0 {
		t.Fatalf("account opened before the range should drop out, got %d", len(dues))
	}

	rng = models.DateRange{From: day(2026, 1, 1), To: day(2026, 1, 31)}
	dues = models.BuildCustomerPendingDues(sales, nil, nil, rng)
	if len(dues) != 1 {
		t.Fatalf("account opened inside the range should be kept, got %d", len(dues))
	}
	if dues[0].Phone != "N/A" {
		t.Fatalf("missing phone should render the placeholder, got %q", dues[0].Phone)
	}
}

func TestBuildCompanyPendingDues(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "dunloppakistan", TotalPrice: decimal.NewFromInt(45000), Date: day(2026, 1, 10)},
		// TotalPrice unset: falls back to price*quantity.
		{Company: "generaltyre", Price: decimal.NewFromInt(3000), Quantity: 10, Date: day(2026, 1, 15)},
	}
	entries := []*models.CompanyLedgerEntry{
		{CompanyName: "dunloppakistan", Credit: decimal.NewFromInt(45000)},
		{CompanyName: "generaltyre", Credit: decimal.NewFromInt(10000)},
	}

	dues := models.BuildCompanyPendingDues(purchases, entries, nil, models.DateRange{})
	if len(dues) != 1 {
		t.Fatalf("fully paid supplier should drop out, got %d", len(dues))
	}
	if dues[0].Name != "generaltyre" {
		t.Fatalf("name = %q", dues[0].Name)
	}
	if !dues[0].Due.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("due = %s, want 30000-10000=20000", dues[0].Due)
	}
}
