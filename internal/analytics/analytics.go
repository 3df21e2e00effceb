// Package analytics summarizes a user's receipt history.
package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartsplit/internal/models"
)

// MonthTotal is the amount spent in one calendar month (UTC), keyed YYYY-MM.
type MonthTotal struct {
	Month string
	Total float64
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// MemberStat is how often a member appeared in finalized splits and how much
// they owed in total.
type MemberStat struct {
	Name  string
	Count int
	Total float64
}

// Summary is the analytics view over a set of receipts.
type Summary struct {
	TotalSpent     float64
	ReceiptCount   int
	AverageReceipt float64
	Monthly        []MonthTotal    // oldest first
	Categories     []CategoryTotal // largest first
	Members        []MemberStat    // by name
}

// Compute builds the analytics summary for receipts.
func Compute(receipts []models.Receipt) *Summary {
	total := decimal.Zero
	monthly := make(map[string]decimal.Decimal)
	categories := make(map[string]decimal.Decimal)
	members := make(map[string]*memberAcc)

	for _, r := range receipts {
		amount := decimal.NewFromFloat(r.Total)
		total = total.Add(amount)

		month := r.Created().Format("2006-01")
		monthly[month] = monthly[month].Add(amount)

		category := strings.TrimSpace(r.Category)
		if category == "" {
			category = models.DefaultCategory
		}
		categories[category] = categories[category].Add(amount)

		for _, split := range r.Splits {
			acc, ok := members[split.Name]
			if !ok {
				acc = &memberAcc{}
				members[split.Name] = acc
			}
			acc.count++
			acc.total = acc.total.Add(decimal.NewFromFloat(split.Amount))
		}
	}

	s := &Summary{
		TotalSpent:   total.InexactFloat64(),
		ReceiptCount: len(receipts),
	}
	if len(receipts) > 0 {
		s.AverageReceipt = total.Div(decimal.NewFromInt(int64(len(receipts)))).InexactFloat64()
	}

	for month, amount := range monthly {
		s.Monthly = append(s.Monthly, MonthTotal{Month: month, Total: amount.InexactFloat64()})
	}
	slices.SortFunc(s.Monthly, func(a, b MonthTotal) int {
		return cmp.Compare(a.Month, b.Month)
	})

	for category, amount := range categories {
		s.Categories = append(s.Categories, CategoryTotal{Category: category, Total: amount.InexactFloat64()})
	}
	slices.SortFunc(s.Categories, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	for name, acc := range members {
		s.Members = append(s.Members, MemberStat{Name: name, Count: acc.count, Total: acc.total.InexactFloat64()})
	}
	slices.SortFunc(s.Members, func(a, b MemberStat) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return s
}

type memberAcc struct {
	count int
	total decimal.Decimal
}
