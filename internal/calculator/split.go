package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoMembers        = errors.New("must have at least one member")
	ErrDuplicateMember  = errors.New("duplicate member name")
	ErrDuplicateItem    = errors.New("duplicate item id")
	ErrUnknownMember    = errors.New("assignment references unknown member")
	ErrUnknownItem      = errors.New("assignment references unknown item")
	ErrUnassignedItem   = errors.New("every item must be assigned to at least one member")
	ErrNegativeCharge   = errors.New("tax and tip cannot be negative")
	ErrSubtotalMismatch = errors.New("subtotal does not match the sum of item prices")
)

// subtotalTolerance is how far a caller-supplied subtotal may drift from the
// item sum before it is rejected.
var subtotalTolerance = decimal.New(5, -3)

// Item represents a single priced item on the receipt.
type Item struct {
	ID          int
	Description string
	Price       float64 // negative for discounts
}

// Assignment maps a member name to the IDs of the items that member is splitting.
// Repeated IDs for the same member count once.
type Assignment map[string][]int

// Input is everything needed to split one receipt.
type Input struct {
	Items      []Item
	Members    []string
	Assignment Assignment
	Tax        float64
	Tip        float64

	// Subtotal is optional. When set it must match the sum of item prices.
	Subtotal *float64
}

// PersonItem is one member's portion of one item.
type PersonItem struct {
	ItemID      int
	Description string
	Amount      decimal.Decimal
}

// PersonSplit represents the calculated split for one member.
type PersonSplit struct {
	Member   string
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Total    decimal.Decimal
	Items    []PersonItem
}

// Result is the outcome of a split. Splits follow the order of Input.Members.
type Result struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Total    decimal.Decimal
	Splits   []PersonSplit

	// Splitters lists the members sharing each item ID, in member order.
	Splitters map[int][]string
}

// Owed returns the final amount per member.
func (r *Result) Owed() map[string]decimal.Decimal {
	owed := make(map[string]decimal.Decimal, len(r.Splits))
	for _, s := range r.Splits {
		owed[s.Member] = s.Total
	}
	return owed
}

// Members returns member names in split order.
func (r *Result) Members() []string {
	names := make([]string, len(r.Splits))
	for i, s := range r.Splits {
		names[i] = s.Member
	}
	return names
}

// Summary renders the result as "<name>: $<amount>" lines.
func (r *Result) Summary() string {
	return Summary(r.Members(), r.Owed())
}

// CalculateSplit computes how much each member owes.
//
// Each item is divided evenly among its assigned members. Tax and tip are then
// allocated in proportion to each member's share of the subtotal:
//
//	member_tax = member_subtotal × tax / subtotal
//
// When the subtotal is zero the proportion is undefined, so tax and tip are split
// evenly across all members instead. Amounts are never rounded here.
func CalculateSplit(in Input) (*Result, error) {
	if in.Tax < 0 || in.Tip < 0 {
		return nil, ErrNegativeCharge
	}
	if len(in.Members) == 0 {
		return nil, ErrNoMembers
	}

	splits := make([]PersonSplit, len(in.Members))
	byMember := make(map[string]*PersonSplit, len(in.Members))
	for i, m := range in.Members {
		if _, exists := byMember[m]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMember, m)
		}
		splits[i] = PersonSplit{Member: m}
		byMember[m] = &splits[i]
	}

	itemsByID := make(map[int]Item, len(in.Items))
	for _, item := range in.Items {
		if _, exists := itemsByID[item.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateItem, item.ID)
		}
		itemsByID[item.ID] = item
	}

	for member := range in.Assignment {
		if _, ok := byMember[member]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMember, member)
		}
	}

	// Invert the assignment in member order so splitters are deterministic.
	splitters := make(map[int][]string, len(in.Items))
	for _, m := range in.Members {
		seen := make(map[int]bool)
		for _, id := range in.Assignment[m] {
			if _, ok := itemsByID[id]; !ok {
				return nil, fmt.Errorf("%w: %d", ErrUnknownItem, id)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			splitters[id] = append(splitters[id], m)
		}
	}

	subtotal := decimal.Zero
	for _, item := range in.Items {
		if len(splitters[item.ID]) == 0 {
			return nil, fmt.Errorf("%w: %q (id %d)", ErrUnassignedItem, item.Description, item.ID)
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price))
	}

	if in.Subtotal != nil {
		given := decimal.NewFromFloat(*in.Subtotal)
		if given.Sub(subtotal).Abs().GreaterThan(subtotalTolerance) {
			return nil, fmt.Errorf("%w: got %s, items sum to %s", ErrSubtotalMismatch, given, subtotal)
		}
	}

	// Split each item among its assigned members
	for _, item := range in.Items {
		assigned := splitters[item.ID]
		portion := decimal.NewFromFloat(item.Price).Div(decimal.NewFromInt(int64(len(assigned))))
		for _, m := range assigned {
			split := byMember[m]
			split.Subtotal = split.Subtotal.Add(portion)
			split.Items = append(split.Items, PersonItem{
				ItemID:      item.ID,
				Description: item.Description,
				Amount:      portion,
			})
		}
	}

	tax := decimal.NewFromFloat(in.Tax)
	tip := decimal.NewFromFloat(in.Tip)

	if subtotal.IsZero() {
		count := decimal.NewFromInt(int64(len(splits)))
		evenTax := tax.Div(count)
		evenTip := tip.Div(count)
		for i := range splits {
			splits[i].Tax = evenTax
			splits[i].Tip = evenTip
		}
	} else {
		for i := range splits {
			splits[i].Tax = splits[i].Subtotal.Mul(tax).Div(subtotal)
			splits[i].Tip = splits[i].Subtotal.Mul(tip).Div(subtotal)
		}
	}

	for i := range splits {
		splits[i].Total = splits[i].Subtotal.Add(splits[i].Tax).Add(splits[i].Tip)
	}

	return &Result{
		Subtotal:  subtotal,
		Tax:       tax,
		Tip:       tip,
		Total:     subtotal.Add(tax).Add(tip),
		Splits:    splits,
		Splitters: splitters,
	}, nil
}
