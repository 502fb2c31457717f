package models_test

import (
	"reflect"
	"testing"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"github.com/shopspring/decimal"
)

func TestBuildCustomerStatement_RunningBalance(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	entries := []*models.CustomerLedgerEntry{
		{ID: 1, CustomerName: "ali khan", InvoiceNumber: "txn-1", Date: day(2026, 4, 1),
			Narration: models.NarrationPrefixSale + "txn-1",
			Debit:     decimal.NewFromInt(9000), CreatedAt: base},
		{ID: 2, CustomerName: "ali khan", InvoiceNumber: "txn-1", Date: day(2026, 4, 1),
			Narration:     models.NarrationPrefixPayment + "txn-1",
			Credit:        decimal.NewFromInt(5000),
			PaymentMethod: models.PaymentMethodBank, BankName: "HBL",
			CreatedAt: base.Add(time.Second)},
		{ID: 3, CustomerName: "ali khan", Date: day(2026, 4, 10),
			Credit:        decimal.NewFromInt(4000),
			PaymentMethod: models.PaymentMethodCash,
			CreatedAt:     base.Add(time.Hour)},
	}
	sales := []*models.SaleRecord{
		{TransactionId: "txn-1", CustomerName: "ali khan", Brand: "Dunlop", Size: "195/65R15",
			Price: decimal.NewFromInt(4500), Quantity: 2},
	}

	statement := models.BuildCustomerStatement("ali khan", entries, sales)
	if len(statement.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(statement.Lines))
	}

	if got := statement.Lines[0].Description; got != "195/65R15_Dunlop_Qty_2_Rate_4500" {
		t.Fatalf("sale description = %q", got)
	}
	if got := statement.Lines[1].Description; got != "Payment via HBL" {
		t.Fatalf("bank payment description = %q", got)
	}
	if got := statement.Lines[2].Description; got != "Cash Payment" {
		t.Fatalf("cash payment description = %q", got)
	}

	wantBalances := []int64{9000, 4000, 0}
	for i, want := range wantBalances {
		if !statement.Lines[i].Balance.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("line %d balance = %s, want %d", i+1, statement.Lines[i].Balance, want)
		}
	}
	if !statement.ClosingBalance.IsZero() {
		t.Fatalf("closing balance = %s, want 0", statement.ClosingBalance)
	}
	if !statement.TotalDebit.Equal(decimal.NewFromInt(9000)) || !statement.TotalCredit.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("totals = %s / %s", statement.TotalDebit, statement.TotalCredit)
	}
}

func TestBuildCustomerStatement_Deterministic(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	make3 := func(order []int) []*models.CustomerLedgerEntry {
		all := []*models.CustomerLedgerEntry{
			{ID: 1, Debit: decimal.NewFromInt(100), CreatedAt: base},
			{ID: 2, Credit: decimal.NewFromInt(40), CreatedAt: base.Add(time.Minute)},
			{ID: 3, Debit: decimal.NewFromInt(10), CreatedAt: base.Add(time.Minute)},
		}
		out := make([]*models.CustomerLedgerEntry, len(order))
		for i, idx := range order {
			e := *all[idx]
			out[i] = &e
		}
		return out
	}

	a := models.BuildCustomerStatement("x", make3([]int{0, 1, 2}), nil)
	b := models.BuildCustomerStatement("x", make3([]int{2, 0, 1}), nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("statement depends on input order:\n%+v\n%+v", a, b)
	}
	// Same timestamp ties break on id, so entry 2 posts before entry 3.
	if a.Lines[1].EntryId != 2 || a.Lines[2].EntryId != 3 {
		t.Fatalf("tie-break by id failed: %+v", a.Lines)
	}
}

func TestBuildCustomerStatement_SaleDetailsMissing(t *testing.T) {
	entries := []*models.CustomerLedgerEntry{
		{ID: 1, InvoiceNumber: "gone", Narration: models.NarrationPrefixSale + "gone",
			Debit: decimal.NewFromInt(100), CreatedAt: day(2026, 4, 1)},
	}
	statement := models.BuildCustomerStatement("x", entries, nil)
	if got := statement.Lines[0].Description; got != "Sale (Details Not Found)" {
		t.Fatalf("description = %q", got)
	}
}

func TestBuildCompanyStatement_RejoinsPurchases(t *testing.T) {
	entries := []*models.CompanyLedgerEntry{
		{ID: 1, CompanyName: "dunloppakistan", InvoiceNumber: "INV1",
			Debit: decimal.NewFromInt(45000), CreatedAt: day(2026, 4, 1)},
		{ID: 2, CompanyName: "dunloppakistan",
			Credit: decimal.NewFromInt(20000), PaymentMethod: models.PaymentMethodBank,
			CreatedAt: day(2026, 4, 2)},
	}
	purchases := []*models.PurchaseRecord{
		{InvoiceNumber: "INV1", Brand: "Dunlop", Size: "195/65R15",
			Price: decimal.NewFromInt(4500), Quantity: 10},
	}

	statement := models.BuildCompanyStatement("dunloppakistan", entries, purchases)
	if got := statement.Lines[0].Description; got != "195/65R15_Dunlop_Qty_10_Rate_4500" {
		t.Fatalf("purchase description = %q", got)
	}
	// Bank payment with no bank name falls back to the placeholder.
	if got := statement.Lines[1].Description; got != "Payment via N/A" {
		t.Fatalf("payment description = %q", got)
	}
	if !statement.ClosingBalance.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("closing balance = %s, want 25000", statement.ClosingBalance)
	}
}

func TestBuildCustomerSummaries(t *testing.T) {
	sales := []*models.SaleRecord{
		{CustomerName: "ali khan", Brand: "Dunlop", Quantity: 2,
			Price: decimal.NewFromInt(5000), Discount: decimal.NewFromInt(500)},
		{CustomerName: "ali khan", Brand: "General", Quantity: 1,
			Price: decimal.NewFromInt(3000)},
		{CustomerName: models.ReservedCustomerName, Brand: "Dunlop", Quantity: 5,
			Price: decimal.NewFromInt(5000)},
	}
	details := []*models.CustomerDetail{
		{CustomerName: "ali khan", TotalPaid: decimal.NewFromInt(10000)},
	}

	summaries := models.BuildCustomerSummaries(sales, details)
	if len(summaries) != 1 {
		t.Fatalf("walk-in sales must be skipped, got %d summaries", len(summaries))
	}
	s := summaries[0]
	// 2*(5000-500) + 1*3000 = 12000
	if !s.TotalCost.Equal(decimal.NewFromInt(12000)) {
		t.Fatalf("total cost = %s, want 12000", s.TotalCost)
	}
	if !s.TotalDue.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("total due = %s, want 2000", s.TotalDue)
	}
	if len(s.Brands) != 2 || s.Brands[0].Brand != "dunlop" || s.Brands[0].Count != 2 {
		t.Fatalf("brand breakdown = %+v", s.Brands)
	}
}

func TestBuildCompanySummaries_DueClampsAtZero(t *testing.T) {
	purchases := []*models.PurchaseRecord{
		{Company: "dunloppakistan", Price: decimal.NewFromInt(100), Quantity: 10},
	}
	entries := []*models.CompanyLedgerEntry{
		{CompanyName: "dunloppakistan", Credit: decimal.NewFromInt(1500)},
	}
	summaries := models.BuildCompanySummaries(purchases, entries)
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries", len(summaries))
	}
	if !summaries[0].TotalDue.IsZero() {
		t.Fatalf("overpaid supplier due = %s, want 0", summaries[0].TotalDue)
	}
}
