package models

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"github.com/shopspring/decimal"
)

// ReservedCustomerName marks walk-in sales with no account; it never appears
// in ledgers or dues.
const ReservedCustomerName = "unknown"

// LedgerLine is one rendered statement row with its running balance.
type LedgerLine struct {
	Index         int             `json:"index"`
	EntryId       int             `json:"entry_id"`
	Date          time.Time       `json:"date"`
	InvoiceNumber string          `json:"invoice_number"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

type LedgerStatement struct {
	Party          string          `json:"party"`
	Lines          []LedgerLine    `json:"lines"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// BuildCustomerStatement renders a customer's ledger rows into a statement.
// Ordering is strictly CreatedAt (id as tiebreak), so the same entries always
// produce the same balances. Sale rows are re-described from the sale records
// sharing the entry's transaction id.
func BuildCustomerStatement(customer string, entries []*CustomerLedgerEntry, sales []*SaleRecord) *LedgerStatement {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	salesByTxn := make(map[string][]*SaleRecord)
	for _, s := range sales {
		salesByTxn[s.TransactionId] = append(salesByTxn[s.TransactionId], s)
	}

	statement := &LedgerStatement{Party: customer}
	balance := decimal.Zero
	for i, e := range entries {
		balance = balance.Add(e.Debit).Sub(e.Credit)
		statement.TotalDebit = statement.TotalDebit.Add(e.Debit)
		statement.TotalCredit = statement.TotalCredit.Add(e.Credit)

		statement.Lines = append(statement.Lines, LedgerLine{
			Index:         i + 1,
			EntryId:       e.ID,
			Date:          e.Date,
			InvoiceNumber: e.InvoiceNumber,
			Description:   describeCustomerEntry(e, salesByTxn),
			Debit:         e.Debit,
			Credit:        e.Credit,
			Balance:       balance,
		})
	}
	statement.ClosingBalance = balance
	return statement
}

func describeCustomerEntry(e *CustomerLedgerEntry, salesByTxn map[string][]*SaleRecord) string {
	if e.Debit.IsPositive() && strings.HasPrefix(e.Narration, NarrationPrefixSale) {
		lines := salesByTxn[e.InvoiceNumber]
		if len(lines) == 0 {
			return "Sale (Details Not Found)"
		}
		parts := make([]string, 0, len(lines))
		for _, s := range lines {
			parts = append(parts, describeSoldLine(s.Size, s.Brand, s.Quantity, s.Price))
		}
		return strings.Join(parts, ", ")
	}
	if e.Debit.IsPositive() {
		if e.Description != "" {
			return e.Description
		}
		if e.Narration != "" {
			return e.Narration
		}
		return "Manual Debit"
	}
	return describePayment(e.PaymentMethod, e.BankName)
}

func describeSoldLine(size, brand string, qty int, price decimal.Decimal) string {
	return size + "_" + brand + "_Qty_" + strconv.Itoa(qty) + "_Rate_" + price.String()
}

func describePayment(method PaymentMethod, bankName string) string {
	if method == PaymentMethodBank {
		if bankName == "" {
			bankName = AttributeNA
		}
		return "Payment via " + bankName
	}
	return "Cash Payment"
}

// BuildCompanyStatement renders a supplier's ledger the same way, re-joining
// purchase rows by invoice number.
func BuildCompanyStatement(company string, entries []*CompanyLedgerEntry, purchases []*PurchaseRecord) *LedgerStatement {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	purchasesByInvoice := make(map[string][]*PurchaseRecord)
	for _, p := range purchases {
		purchasesByInvoice[p.InvoiceNumber] = append(purchasesByInvoice[p.InvoiceNumber], p)
	}

	statement := &LedgerStatement{Party: company}
	balance := decimal.Zero
	for i, e := range entries {
		balance = balance.Add(e.Debit).Sub(e.Credit)
		statement.TotalDebit = statement.TotalDebit.Add(e.Debit)
		statement.TotalCredit = statement.TotalCredit.Add(e.Credit)

		statement.Lines = append(statement.Lines, LedgerLine{
			Index:         i + 1,
			EntryId:       e.ID,
			Date:          e.Date,
			InvoiceNumber: e.InvoiceNumber,
			Description:   describeCompanyEntry(e, purchasesByInvoice),
			Debit:         e.Debit,
			Credit:        e.Credit,
			Balance:       balance,
		})
	}
	statement.ClosingBalance = balance
	return statement
}

func describeCompanyEntry(e *CompanyLedgerEntry, purchasesByInvoice map[string][]*PurchaseRecord) string {
	if e.Debit.IsPositive() {
		lines := purchasesByInvoice[e.InvoiceNumber]
		if len(lines) > 0 {
			parts := make([]string, 0, len(lines))
			for _, p := range lines {
				parts = append(parts, describeSoldLine(p.Size, p.Brand, p.Quantity, p.Price))
			}
			return strings.Join(parts, ", ")
		}
		if e.Description != "" {
			return e.Description
		}
		if e.Narration != "" {
			return e.Narration
		}
		return "Manual Entry"
	}
	return describePayment(e.PaymentMethod, e.BankName)
}

// BrandCount is a per-brand item count inside a party summary.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// CustomerSummary is the rollup line on the customer-ledger screen.
type CustomerSummary struct {
	CustomerName string          `json:"customer_name"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalItems   int             `json:"total_items"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalDue     decimal.Decimal `json:"total_due"`
	Brands       []BrandCount    `json:"brands"`
}

// BuildCustomerSummaries folds sales per customer (net of discounts) and
// joins paid totals from the snapshots. The reserved walk-in name is skipped.
func BuildCustomerSummaries(sales []*SaleRecord, details []*CustomerDetail) []*CustomerSummary {
	paid := make(map[string]decimal.Decimal, len(details))
	for _, d := range details {
		paid[strings.ToLower(d.CustomerName)] = d.TotalPaid
	}

	byCustomer := make(map[string]*CustomerSummary)
	brandCounts := make(map[string]map[string]int)
	for _, s := range sales {
		name := strings.ToLower(s.CustomerName)
		if name == "" || name == ReservedCustomerName {
			continue
		}
		summary, ok := byCustomer[name]
		if !ok {
			summary = &CustomerSummary{CustomerName: name}
			byCustomer[name] = summary
			brandCounts[name] = make(map[string]int)
		}
		summary.TotalCost = summary.TotalCost.Add(s.NetAmount())
		summary.TotalItems += s.Quantity
		brandCounts[name][strings.ToLower(s.Brand)] += s.Quantity
	}

	result := make([]*CustomerSummary, 0, len(byCustomer))
	for name, summary := range byCustomer {
		summary.TotalPaid = paid[name]
		summary.TotalDue = summary.TotalCost.Sub(summary.TotalPaid)
		for brand, count := range brandCounts[name] {
			summary.Brands = append(summary.Brands, BrandCount{Brand: brand, Count: count})
		}
		sort.Slice(summary.Brands, func(i, j int) bool { return summary.Brands[i].Brand < summary.Brands[j].Brand })
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CustomerName < result[j].CustomerName })
	return result
}

// CompanySummary is the rollup line on the company-ledger screen. Paid totals
// come from the ledger credits, not the snapshot.
type CompanySummary struct {
	CompanyName string          `json:"company_name"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalDue    decimal.Decimal `json:"total_due"`
}

func BuildCompanySummaries(purchases []*PurchaseRecord, entries []*CompanyLedgerEntry) []*CompanySummary {
	byCompany := make(map[string]*CompanySummary)
	get := func(name string) *CompanySummary {
		name = strings.ToLower(name)
		summary, ok := byCompany[name]
		if !ok {
			summary = &CompanySummary{CompanyName: name}
			byCompany[name] = summary
		}
		return summary
	}

	for _, p := range purchases {
		cost := p.TotalPrice
		if cost.IsZero() {
			cost = p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		}
		summary := get(p.Company)
		summary.TotalCost = summary.TotalCost.Add(cost)
	}
	for _, e := range entries {
		summary := get(e.CompanyName)
		summary.TotalPaid = summary.TotalPaid.Add(e.Credit)
	}

	result := make([]*CompanySummary, 0, len(byCompany))
	for _, summary := range byCompany {
		summary.TotalDue = summary.TotalCost.Sub(summary.TotalPaid)
		if summary.TotalDue.IsNegative() {
			summary.TotalDue = decimal.Zero
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CompanyName < result[j].CompanyName })
	return result
}

// GetCustomerStatement loads the rows and sale details for one customer and
// renders the statement.
func GetCustomerStatement(ctx context.Context, customer string, rng DateRange) (*LedgerStatement, error) {
	entries, err := CustomerEntries(ctx, customer, rng)
	if err != nil {
		return nil, err
	}

	txnIds := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.InvoiceNumber != "" {
			txnIds = append(txnIds, e.InvoiceNumber)
		}
	}
	var sales []*SaleRecord
	if len(txnIds) > 0 {
		db := config.GetDB()
		if err := db.WithContext(ctx).Where("transaction_id IN ?", txnIds).Find(&sales).Error; err != nil {
			return nil, err
		}
	}
	return BuildCustomerStatement(customer, entries, sales), nil
}

// GetCompanyStatement mirrors GetCustomerStatement for suppliers.
func GetCompanyStatement(ctx context.Context, company string, rng DateRange) (*LedgerStatement, error) {
	entries, err := CompanyEntries(ctx, company, rng)
	if err != nil {
		return nil, err
	}

	invoices := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.InvoiceNumber != "" {
			invoices = append(invoices, e.InvoiceNumber)
		}
	}
	var purchases []*PurchaseRecord
	if len(invoices) > 0 {
		db := config.GetDB()
		if err := db.WithContext(ctx).Where("invoice_number IN ?", invoices).Find(&purchases).Error; err != nil {
			return nil, err
		}
	}
	return BuildCompanyStatement(company, entries, purchases), nil
}

// GetCustomerSummaries loads all sales and snapshots and folds them.
func GetCustomerSummaries(ctx context.Context) ([]*CustomerSummary, error) {
	db := config.GetDB()

	var sales []*SaleRecord
	if err := db.WithContext(ctx).Find(&sales).Error; err != nil {
		return nil, err
	}
	var details []*CustomerDetail
	if err := db.WithContext(ctx).Find(&details).Error; err != nil {
		return nil, err
	}
	return BuildCustomerSummaries(sales, details), nil
}

// GetCompanySummaries loads all purchases and ledger rows and folds them.
func GetCompanySummaries(ctx context.Context) ([]*CompanySummary, error) {
	db := config.GetDB()

	var purchases []*PurchaseRecord
	if err := db.WithContext(ctx).Find(&purchases).Error; err != nil {
		return nil, err
	}
	var entries []*CompanyLedgerEntry
	if err := db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return BuildCompanySummaries(purchases, entries), nil
}
