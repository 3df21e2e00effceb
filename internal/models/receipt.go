package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used for receipts saved without a category.
const DefaultCategory = "Dining"

// Receipt represents a receipt with its line items, charges and finalized split.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string

	// UserID is the owner of the receipt. Only the owner can read or change it.
	UserID string

	// Title is the human-readable name for the receipt.
	// Auto-generated from the date when empty.
	Title string

	// Category groups receipts for analytics (e.g., "Dining", "Groceries").
	Category string

	// Items are the line items in receipt order.
	Items []ReceiptItem

	// Subtotal is the sum of all item prices, discounts included.
	Subtotal float64

	// Tax is the tax charged on the receipt.
	Tax float64

	// Tip is the tip added to the receipt.
	Tip float64

	// Total is Subtotal + Tax + Tip.
	Total float64

	// ImageKey is the object storage key of the uploaded photo, if any.
	ImageKey string

	// ImageURL is where the uploaded photo can be fetched from, if any.
	ImageURL string

	// Finalized is set once a split has been computed and saved.
	// Cleared whenever the receipt is edited afterwards.
	Finalized bool

	// Splits holds the finalized amount owed by each member, in member order.
	Splits []SplitDetail

	// CreatedAt is the Unix timestamp when the receipt was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	// ID is the item's 1-based position on the receipt. Unique within a receipt.
	ID int

	// Name is the display name of the item (e.g., "Bounty Paper Towels").
	Name string

	// Price is the item price. Negative for discounts.
	Price float64

	// Splitters are the members sharing this item, recorded at finalization.
	Splitters []string
}

// SplitDetail is one member's finalized share of a receipt.
type SplitDetail struct {
	Name   string
	Amount float64
}

// NewReceipt builds a receipt owned by userID, numbering items by position and
// deriving subtotal and total.
func NewReceipt(userID string, items []ReceiptItem, tax, tip float64) *Receipt {
	r := &Receipt{
		UserID: userID,
		Items:  items,
		Tax:    tax,
		Tip:    tip,
	}
	r.Renumber()
	r.Recalculate()
	return r
}

// Renumber assigns item IDs from receipt position (1..n).
func (r *Receipt) Renumber() {
	for i := range r.Items {
		r.Items[i].ID = i + 1
	}
}

// Recalculate derives Subtotal from the item prices and Total from
// Subtotal, Tax and Tip. Sums are taken in decimal to avoid float drift.
func (r *Receipt) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range r.Items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price))
	}
	total := subtotal.Add(decimal.NewFromFloat(r.Tax)).Add(decimal.NewFromFloat(r.Tip))
	r.Subtotal = subtotal.InexactFloat64()
	r.Total = total.InexactFloat64()
}

// ClearSplit drops any finalized split so the receipt must be finalized again.
func (r *Receipt) ClearSplit() {
	r.Finalized = false
	r.Splits = nil
	for i := range r.Items {
		r.Items[i].Splitters = nil
	}
}

// Created returns CreatedAt as a time in UTC.
func (r *Receipt) Created() time.Time {
	return time.Unix(r.CreatedAt, 0).UTC()
}
