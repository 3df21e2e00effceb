// Package models defines the core domain models for Smart Split.
//
// # Models
//
//   - Receipt: a photographed or manually entered receipt owned by one user
//   - ReceiptItem: a priced line item; negative prices are discounts
//   - SplitDetail: one member's finalized owed amount, embedded in the receipt
//   - User: a registered account that owns receipts
//
// Group members are not persisted on their own. A split session keeps the member
// list and per-item assignments in memory until finalization, at which point each
// item records its splitters and the receipt records one SplitDetail per member.
//
// # Lifecycle
//
// A receipt is created unfinalized. Finalizing computes the split and sets
// Finalized. Any later edit to items, tax or tip clears the split and the flag,
// so the receipt must be finalized again.
package models
