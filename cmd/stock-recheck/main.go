// stock-recheck audits the live shop/store position on purchase rows against
// the folded purchase/sale/return/transfer history, and prints every tyre
// line where the two disagree.
//
// Example:
//
//	go run ./cmd/stock-recheck/
//	go run ./cmd/stock-recheck/ -brand=dunlop -v
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
)

func main() {
	brand := flag.String("brand", "", "Limit the audit to one brand")
	verbose := flag.Bool("v", false, "Print matching lines too, not only mismatches")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	var purchases []*models.PurchaseRecord
	if err := db.WithContext(ctx).Order("id ASC").Find(&purchases).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to load purchases: %v\n", err)
		os.Exit(1)
	}
	sales, err := models.ListSales(ctx, models.SaleFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load sales: %v\n", err)
		os.Exit(1)
	}
	returns, err := models.ListReturns(ctx, models.DateRange{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load returns: %v\n", err)
		os.Exit(1)
	}

	// Expected per-line stock from the folded history.
	summary := models.BuildStockSummary(purchases, sales, returns, models.StockFilter{Brand: *brand})
	expected := make(map[string]int, len(summary))
	for _, row := range summary {
		expected[models.StockKey(row.Company, row.Brand, row.Size, row.Model)] = row.Stock
	}

	// Live per-line position from the purchase rows themselves.
	live := make(map[string]int)
	for _, p := range purchases {
		if *brand != "" && !strings.EqualFold(p.Brand, *brand) {
			continue
		}
		live[models.StockKey(p.Company, p.Brand, p.Size, p.Model)] += p.Store + p.Shop
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	for k := range live {
		if _, ok := expected[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	mismatches := 0
	for _, k := range keys {
		want, have := expected[k], live[k]
		if want == have {
			if *verbose {
				fmt.Printf("OK       %-60s stock=%d\n", k, have)
			}
			continue
		}
		mismatches++
		fmt.Printf("MISMATCH %-60s history=%d live=%d drift=%+d\n", k, want, have, have-want)
	}

	fmt.Printf("checked %d lines, %d mismatches\n", len(keys), mismatches)
	if mismatches > 0 {
		os.Exit(2)
	}
}
