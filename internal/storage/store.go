// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/smartsplit/internal/models"
)

var (
	// ErrNotFound is returned when a receipt or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key (user email) is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// ListFilter narrows ListReceipts. Zero values mean no constraint.
type ListFilter struct {
	UserID   string
	Since    time.Time // inclusive
	Until    time.Time // exclusive
	Category string
	Limit    uint64
}

// Store persists receipts and users. Implementations must be safe for
// concurrent use.
type Store interface {
	// CreateReceipt persists a new receipt. receipt.ID is assigned when empty.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt loads a receipt with its items, splitters and split details.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// UpdateReceipt replaces the receipt's fields and items. Existing split
	// details are dropped and the receipt is no longer finalized.
	UpdateReceipt(ctx context.Context, receipt *models.Receipt) error

	// SaveSplit records per-item splitters and per-person amounts and marks
	// the receipt finalized.
	SaveSplit(ctx context.Context, receiptID string, splitters map[int][]string, splits []models.SplitDetail) error

	// DeleteReceipt removes a receipt and everything attached to it.
	DeleteReceipt(ctx context.Context, receiptID string) error

	// ListReceipts returns matching receipts newest first.
	ListReceipts(ctx context.Context, filter ListFilter) ([]models.Receipt, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
