package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary renders one "<name>: $<amount>" line per member, in the given order.
// Members without an amount render as 0.00.
func Summary(members []string, owed map[string]decimal.Decimal) string {
	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = fmt.Sprintf("%s: $%s", m, owed[m].StringFixed(2))
	}
	return strings.Join(lines, "\n")
}

// PercentOfTotal returns each member's share of the grand total as a percentage.
// All percentages are zero when the grand total is zero.
func PercentOfTotal(owed map[string]decimal.Decimal) map[string]decimal.Decimal {
	total := decimal.Zero
	for _, amount := range owed {
		total = total.Add(amount)
	}
	percents := make(map[string]decimal.Decimal, len(owed))
	for m, amount := range owed {
		if total.IsZero() {
			percents[m] = decimal.Zero
			continue
		}
		percents[m] = amount.Mul(hundred).Div(total)
	}
	return percents
}
