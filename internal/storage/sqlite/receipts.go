package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/smartsplit/internal/models"
	"github.com/mmynk/smartsplit/internal/storage"
)

var receiptColumns = []string{
	"id", "user_id", "title", "category", "subtotal", "tax", "tip", "total",
	"image_key", "image_url", "finalized", "created_at", "updated_at",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (*models.Receipt, error) {
	r := &models.Receipt{}
	err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &r.Category,
		&r.Subtotal, &r.Tax, &r.Tip, &r.Total,
		&r.ImageKey, &r.ImageURL, &r.Finalized,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// CreateReceipt persists a new receipt. ID, timestamps, title and category
// are filled in when empty.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	if r.UpdatedAt == 0 {
		r.UpdatedAt = r.CreatedAt
	}
	prepare(r)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		insert := sq.Insert("receipts").
			Columns(receiptColumns...).
			Values(
				r.ID, r.UserID, r.Title, r.Category, r.Subtotal, r.Tax, r.Tip, r.Total,
				r.ImageKey, r.ImageURL, r.Finalized, r.CreatedAt, r.UpdatedAt,
			)
		if _, err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("failed to insert receipt: %w", err)
		}

		if err := insertItems(ctx, tx, r.ID, r.Items); err != nil {
			return err
		}
		if r.Finalized {
			return insertSplit(ctx, tx, r.ID, splittersOf(r.Items), r.Splits)
		}
		return nil
	})
}

// GetReceipt retrieves a receipt by ID, including items, splitters and splits.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	sel := sq.Select(receiptColumns...).From("receipts").Where(sq.Eq{"id": receiptID})
	q, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	r, err := scanReceipt(s.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, notFound(err, "receipt", receiptID)
	}

	if err := loadChildren(ctx, s.db, []*models.Receipt{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReceipt replaces a receipt's editable fields and items. The stored
// split is discarded and the receipt becomes unfinalized.
func (s *SQLiteStore) UpdateReceipt(ctx context.Context, r *models.Receipt) error {
	r.UpdatedAt = time.Now().Unix()
	prepare(r)
	r.ClearSplit()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		update := sq.Update("receipts").
			Set("title", r.Title).
			Set("category", r.Category).
			Set("subtotal", r.Subtotal).
			Set("tax", r.Tax).
			Set("tip", r.Tip).
			Set("total", r.Total).
			Set("finalized", false).
			Set("updated_at", r.UpdatedAt).
			Where(sq.Eq{"id": r.ID})
		res, err := exec(ctx, tx, update)
		if err != nil {
			return fmt.Errorf("failed to update receipt: %w", err)
		}
		if err := mustAffect(res, "receipt", r.ID); err != nil {
			return err
		}

		if err := deleteSplit(ctx, tx, r.ID); err != nil {
			return err
		}
		if _, err := exec(ctx, tx, sq.Delete("receipt_items").Where(sq.Eq{"receipt_id": r.ID})); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		return insertItems(ctx, tx, r.ID, r.Items)
	})
}

// SaveSplit stores who split each item and what each member owes, replacing
// any previous split, and marks the receipt finalized.
func (s *SQLiteStore) SaveSplit(ctx context.Context, receiptID string, splitters map[int][]string, splits []models.SplitDetail) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		update := sq.Update("receipts").
			Set("finalized", true).
			Set("updated_at", time.Now().Unix()).
			Where(sq.Eq{"id": receiptID})
		res, err := exec(ctx, tx, update)
		if err != nil {
			return fmt.Errorf("failed to finalize receipt: %w", err)
		}
		if err := mustAffect(res, "receipt", receiptID); err != nil {
			return err
		}

		if err := deleteSplit(ctx, tx, receiptID); err != nil {
			return err
		}
		return insertSplit(ctx, tx, receiptID, splitters, splits)
	})
}

// DeleteReceipt removes a receipt; items and splits go with it.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, receiptID string) error {
	res, err := exec(ctx, s.db, sq.Delete("receipts").Where(sq.Eq{"id": receiptID}))
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return mustAffect(res, "receipt", receiptID)
}

// ListReceipts returns receipts matching filter, newest first.
func (s *SQLiteStore) ListReceipts(ctx context.Context, filter storage.ListFilter) ([]models.Receipt, error) {
	sel := sq.Select(receiptColumns...).From("receipts")
	if filter.UserID != "" {
		sel = sel.Where(sq.Eq{"user_id": filter.UserID})
	}
	if !filter.Since.IsZero() {
		sel = sel.Where(sq.GtOrEq{"created_at": filter.Since.Unix()})
	}
	if !filter.Until.IsZero() {
		sel = sel.Where(sq.Lt{"created_at": filter.Until.Unix()})
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		sel = sel.Where("LOWER(category) = LOWER(?)", c)
	}
	sel = sel.OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		sel = sel.Limit(filter.Limit)
	}

	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var ptrs []*models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		ptrs = append(ptrs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	rows.Close()

	if err := loadChildren(ctx, s.db, ptrs); err != nil {
		return nil, err
	}

	out := make([]models.Receipt, len(ptrs))
	for i, r := range ptrs {
		out[i] = *r
	}
	return out, nil
}

// loadChildren fills items, splitters and splits for receipts with one query
// per table.
func loadChildren(ctx context.Context, q querier, receipts []*models.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	byID := make(map[string]*models.Receipt, len(receipts))
	ids := make([]string, len(receipts))
	for i, r := range receipts {
		byID[r.ID] = r
		ids[i] = r.ID
	}

	err := each(ctx, q,
		sq.Select("receipt_id", "position", "name", "price").
			From("receipt_items").
			Where(sq.Eq{"receipt_id": ids}).
			OrderBy("receipt_id", "position"),
		func(rows *sql.Rows) error {
			var id string
			var item models.ReceiptItem
			if err := rows.Scan(&id, &item.ID, &item.Name, &item.Price); err != nil {
				return err
			}
			byID[id].Items = append(byID[id].Items, item)
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	err = each(ctx, q,
		sq.Select("receipt_id", "position", "member").
			From("item_splitters").
			Where(sq.Eq{"receipt_id": ids}).
			OrderBy("receipt_id", "position", "member_order"),
		func(rows *sql.Rows) error {
			var id, member string
			var position int
			if err := rows.Scan(&id, &position, &member); err != nil {
				return err
			}
			items := byID[id].Items
			if position >= 1 && position <= len(items) {
				items[position-1].Splitters = append(items[position-1].Splitters, member)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load splitters: %w", err)
	}

	err = each(ctx, q,
		sq.Select("receipt_id", "member", "amount").
			From("split_details").
			Where(sq.Eq{"receipt_id": ids}).
			OrderBy("receipt_id", "member_order"),
		func(rows *sql.Rows) error {
			var id string
			var d models.SplitDetail
			if err := rows.Scan(&id, &d.Name, &d.Amount); err != nil {
				return err
			}
			byID[id].Splits = append(byID[id].Splits, d)
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load splits: %w", err)
	}
	return nil
}

func each(ctx context.Context, q querier, b sq.Sqlizer, fn func(*sql.Rows) error) error {
	rows, err := query(ctx, q, b)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func insertItems(ctx context.Context, tx *sql.Tx, receiptID string, items []models.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}
	insert := sq.Insert("receipt_items").Columns("receipt_id", "position", "name", "price")
	for _, item := range items {
		insert = insert.Values(receiptID, item.ID, item.Name, item.Price)
	}
	if _, err := exec(ctx, tx, insert); err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}
	return nil
}

func insertSplit(ctx context.Context, tx *sql.Tx, receiptID string, splitters map[int][]string, splits []models.SplitDetail) error {
	if len(splitters) > 0 {
		insert := sq.Insert("item_splitters").Columns("receipt_id", "position", "member", "member_order")
		for position, members := range splitters {
			for i, m := range members {
				insert = insert.Values(receiptID, position, m, i)
			}
		}
		if _, err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("failed to insert splitters: %w", err)
		}
	}

	if len(splits) > 0 {
		insert := sq.Insert("split_details").Columns("receipt_id", "member", "member_order", "amount")
		for i, d := range splits {
			insert = insert.Values(receiptID, d.Name, i, d.Amount)
		}
		if _, err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("failed to insert split details: %w", err)
		}
	}
	return nil
}

func deleteSplit(ctx context.Context, tx *sql.Tx, receiptID string) error {
	if _, err := exec(ctx, tx, sq.Delete("item_splitters").Where(sq.Eq{"receipt_id": receiptID})); err != nil {
		return fmt.Errorf("failed to delete splitters: %w", err)
	}
	if _, err := exec(ctx, tx, sq.Delete("split_details").Where(sq.Eq{"receipt_id": receiptID})); err != nil {
		return fmt.Errorf("failed to delete split details: %w", err)
	}
	return nil
}

func splittersOf(items []models.ReceiptItem) map[int][]string {
	out := make(map[int][]string)
	for _, item := range items {
		if len(item.Splitters) > 0 {
			out[item.ID] = item.Splitters
		}
	}
	return out
}

// prepare renumbers items by position and fills the default title and category.
func prepare(r *models.Receipt) {
	r.Renumber()
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = generateTitle(r.Created())
	}
	r.Category = strings.TrimSpace(r.Category)
	if r.Category == "" {
		r.Category = models.DefaultCategory
	}
}

// generateTitle names an untitled receipt after the day it was created.
func generateTitle(created time.Time) string {
	return fmt.Sprintf("Receipt - %s", created.Format("Jan 2, 2006"))
}
