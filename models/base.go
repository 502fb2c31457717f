package models

import (
	"fmt"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Placeholder used when a tyre attribute was never captured. Reconciliation
// keys must still group such rows together.
const AttributeNA = "N/A"

// StockKey identifies one reconciled tyre line: company + brand + size + model,
// all lowercased with empty parts mapped to N/A.
func StockKey(company, brand, size, model string) string {
	return fmt.Sprintf("%s_%s_%s_%s",
		utils.KeyPart(company),
		utils.KeyPart(brand),
		utils.KeyPart(size),
		utils.KeyPart(model),
	)
}

// DateRange is a closed [From, To] day interval. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t falls inside the range. An open bound always
// matches.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(endOfDay(r.To)) {
		return false
	}
	return true
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// lockForUpdate adds a FOR UPDATE clause on engines that support it. The
// sqlite driver used in tests has no row locks; its single-writer model
// serializes writes anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
