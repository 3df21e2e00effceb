package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummary(t *testing.T) {
	owed := map[string]decimal.Decimal{
		"Alex":  decimal.RequireFromString("22.972972972972973"),
		"Blake": decimal.RequireFromString("17.027027027027027"),
	}

	got := Summary([]string{"Alex", "Blake", "Casey"}, owed)
	want := "Alex: $22.97\nBlake: $17.03\nCasey: $0.00"
	if got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestResultSummary(t *testing.T) {
	r, err := CalculateSplit(Input{
		Items:      []Item{{ID: 1, Description: "Tacos", Price: 12}},
		Members:    []string{"Alice", "Bob"},
		Assignment: Assignment{"Alice": {1}, "Bob": {1}},
		Tax:        1,
	})
	if err != nil {
		t.Fatalf("CalculateSplit failed: %v", err)
	}

	if got, want := r.Summary(), "Alice: $6.50\nBob: $6.50"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestPercentOfTotal(t *testing.T) {
	percents := PercentOfTotal(map[string]decimal.Decimal{
		"A": decimal.NewFromInt(30),
		"B": decimal.NewFromInt(10),
	})
	if got := percents["A"].StringFixed(1); got != "75.0" {
		t.Errorf("A percent = %s, want 75.0", got)
	}
	if got := percents["B"].StringFixed(1); got != "25.0" {
		t.Errorf("B percent = %s, want 25.0", got)
	}

	zero := PercentOfTotal(map[string]decimal.Decimal{"A": decimal.Zero})
	if !zero["A"].IsZero() {
		t.Errorf("zero total percent = %s, want 0", zero["A"])
	}
}
