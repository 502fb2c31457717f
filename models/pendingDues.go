package models

import (
	"context"
	"sort"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"github.com/shopspring/decimal"
)

// PendingDue is one party with money outstanding. Date is the earliest
// transaction that opened the account.
type PendingDue struct {
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	TotalCost decimal.Decimal `json:"total_cost"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Due       decimal.Decimal `json:"due"`
	Date      time.Time       `json:"date"`
}

// BuildCustomerPendingDues folds sales per customer against the paid
// snapshots and keeps only positive dues. Overpaid accounts clamp to zero
// and drop out.
func BuildCustomerPendingDues(sales []*SaleRecord, details []*CustomerDetail, phones map[string]string, rng DateRange) []*PendingDue {
	paid := make(map[string]decimal.Decimal, len(details))
	for _, d := range details {
		paid[strings.ToLower(d.CustomerName)] = d.TotalPaid
	}

	type acc struct {
		totalCost decimal.Decimal
		earliest  time.Time
	}
	byCustomer := make(map[string]*acc)
	for _, s := range sales {
		name := strings.ToLower(s.CustomerName)
		if name == "" || name == ReservedCustomerName {
			continue
		}
		a, ok := byCustomer[name]
		if !ok {
			a = &acc{earliest: s.Date}
			byCustomer[name] = a
		}
		a.totalCost = a.totalCost.Add(s.NetAmount())
		if s.Date.Before(a.earliest) {
			a.earliest = s.Date
		}
	}

	result := make([]*PendingDue, 0, len(byCustomer))
	for name, a := range byCustomer {
		totalPaid := paid[name]
		due := a.totalCost.Sub(totalPaid)
		if !due.IsPositive() {
			continue
		}
		if !rng.IsZero() && !rng.Contains(a.earliest) {
			continue
		}
		result = append(result, &PendingDue{
			Name:      name,
			Phone:     phoneOrNA(phones, name),
			TotalCost: a.totalCost,
			TotalPaid: totalPaid,
			Due:       due,
			Date:      a.earliest,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// BuildCompanyPendingDues folds purchases per supplier against the ledger
// credits. TotalPrice is trusted when set, otherwise price*quantity.
func BuildCompanyPendingDues(purchases []*PurchaseRecord, entries []*CompanyLedgerEntry, phones map[string]string, rng DateRange) []*PendingDue {
	credits := make(map[string]decimal.Decimal)
	for _, e := range entries {
		name := strings.ToLower(e.CompanyName)
		credits[name] = credits[name].Add(e.Credit)
	}

	type acc struct {
		totalCost decimal.Decimal
		earliest  time.Time
	}
	byCompany := make(map[string]*acc)
	for _, p := range purchases {
		name := strings.ToLower(p.Company)
		if name == "" {
			name = strings.ToLower(AttributeNA)
		}
		cost := p.TotalPrice
		if cost.IsZero() {
			cost = p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		}
		a, ok := byCompany[name]
		if !ok {
			a = &acc{earliest: p.Date}
			byCompany[name] = a
		}
		a.totalCost = a.totalCost.Add(cost)
		if p.Date.Before(a.earliest) {
			a.earliest = p.Date
		}
	}

	result := make([]*PendingDue, 0, len(byCompany))
	for name, a := range byCompany {
		totalPaid := credits[name]
		due := a.totalCost.Sub(totalPaid)
		if !due.IsPositive() {
			continue
		}
		if !rng.IsZero() && !rng.Contains(a.earliest) {
			continue
		}
		result = append(result, &PendingDue{
			Name:      name,
			Phone:     phoneOrNA(phones, name),
			TotalCost: a.totalCost,
			TotalPaid: totalPaid,
			Due:       due,
			Date:      a.earliest,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func phoneOrNA(phones map[string]string, name string) string {
	if phone, ok := phones[name]; ok && phone != "" {
		return phone
	}
	return AttributeNA
}

// GetCustomerPendingDues loads everything the customer dues screen needs.
func GetCustomerPendingDues(ctx context.Context, rng DateRange) ([]*PendingDue, error) {
	db := config.GetDB()

	var sales []*SaleRecord
	if err := db.WithContext(ctx).Find(&sales).Error; err != nil {
		return nil, err
	}
	var details []*CustomerDetail
	if err := db.WithContext(ctx).Find(&details).Error; err != nil {
		return nil, err
	}
	phones, err := PhoneDirectory(ctx, UserTypeCustomer)
	if err != nil {
		return nil, err
	}
	return BuildCustomerPendingDues(sales, details, phones, rng), nil
}

// GetCompanyPendingDues loads everything the supplier dues screen needs.
func GetCompanyPendingDues(ctx context.Context, rng DateRange) ([]*PendingDue, error) {
	db := config.GetDB()

	var purchases []*PurchaseRecord
	if err := db.WithContext(ctx).Find(&purchases).Error; err != nil {
		return nil, err
	}
	var entries []*CompanyLedgerEntry
	if err := db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	phones, err := PhoneDirectory(ctx, UserTypeCompany)
	if err != nil {
		return nil, err
	}
	return BuildCompanyPendingDues(purchases, entries, phones, rng), nil
}
