package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/smartsplit/internal/models"
)

func unix(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

func TestCompute(t *testing.T) {
	receipts := []models.Receipt{
		{
			Total:     40,
			Category:  "Dining",
			CreatedAt: unix(2026, time.March, 3),
			Splits:    []models.SplitDetail{{Name: "Alex", Amount: 22.97}, {Name: "Blake", Amount: 17.03}},
		},
		{
			Total:     60.5,
			Category:  "Groceries",
			CreatedAt: unix(2026, time.March, 20),
			Splits:    []models.SplitDetail{{Name: "Alex", Amount: 60.5}},
		},
		{
			Total:     19.5,
			CreatedAt: unix(2026, time.January, 9),
		},
	}

	got := Compute(receipts)
	want := &Summary{
		TotalSpent:     120,
		ReceiptCount:   3,
		AverageReceipt: 40,
		Monthly: []MonthTotal{
			{Month: "2026-01", Total: 19.5},
			{Month: "2026-03", Total: 100.5},
		},
		Categories: []CategoryTotal{
			{Category: "Groceries", Total: 60.5},
			{Category: "Dining", Total: 59.5},
		},
		Members: []MemberStat{
			{Name: "Alex", Count: 2, Total: 83.47},
			{Name: "Blake", Count: 1, Total: 17.03},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)
	if got.ReceiptCount != 0 || got.TotalSpent != 0 || got.AverageReceipt != 0 {
		t.Errorf("Compute(nil) = %+v, want zero summary", got)
	}
	if len(got.Monthly) != 0 || len(got.Categories) != 0 || len(got.Members) != 0 {
		t.Errorf("Compute(nil) has breakdowns: %+v", got)
	}
}
