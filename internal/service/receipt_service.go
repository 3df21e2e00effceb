package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/smartsplit/internal/analytics"
	"github.com/mmynk/smartsplit/internal/blob"
	"github.com/mmynk/smartsplit/internal/calculator"
	"github.com/mmynk/smartsplit/internal/extract"
	"github.com/mmynk/smartsplit/internal/middleware"
	"github.com/mmynk/smartsplit/internal/models"
	"github.com/mmynk/smartsplit/internal/notify"
	"github.com/mmynk/smartsplit/internal/split"
	"github.com/mmynk/smartsplit/internal/storage"
	"github.com/mmynk/smartsplit/pkg/api"
	"github.com/mmynk/smartsplit/pkg/api/apiconnect"
)

var timeNow = time.Now

// MaxListLimit caps ListReceipts page size.
const MaxListLimit = 500

var _ apiconnect.ReceiptServiceHandler = (*ReceiptService)(nil)

// ReceiptService implements the Connect ReceiptService. Every call acts on
// behalf of the user set in the context by middleware.RequireAuth.
type ReceiptService struct {
	store     storage.Store
	extractor extract.Extractor
	images    blob.Store
	mailer    notify.Mailer
	logger    *slog.Logger
}

// NewReceiptService wires the service. A nil extractor disables
// ExtractReceipt; a nil image store skips uploads.
func NewReceiptService(store storage.Store, extractor extract.Extractor, images blob.Store, mailer notify.Mailer, logger *slog.Logger) *ReceiptService {
	if mailer == nil {
		mailer = notify.LogMailer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptService{
		store:     store,
		extractor: extractor,
		images:    images,
		mailer:    mailer,
		logger:    logger,
	}
}

// ExtractReceipt uploads the photo and reads its items concurrently. If
// either fails the call fails and an uploaded photo is removed.
func (s *ReceiptService) ExtractReceipt(ctx context.Context, req *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, connectError(err)
	}
	if s.extractor == nil {
		return nil, connectError(errExtractionDisabled)
	}

	image := req.Msg.Image
	mimeType, err := extract.CheckImage(image, req.Msg.MimeType)
	if err != nil {
		s.logger.Warn("ExtractReceipt rejected upload", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	s.logger.Info("ExtractReceipt request", "user_id", userID, "mime_type", mimeType, "bytes", len(image))

	var (
		key, url string
		draft    *extract.Draft
	)
	g, gctx := errgroup.WithContext(ctx)
	if s.images != nil {
		g.Go(func() error {
			k := blob.ImageKey(userID, mimeType)
			u, err := s.images.Put(gctx, k, mimeType, image)
			if err != nil {
				return fmt.Errorf("%w: %v", errUploadFailed, err)
			}
			key, url = k, u
			return nil
		})
	}
	g.Go(func() error {
		d, err := s.extractor.Extract(gctx, image, mimeType)
		if err != nil {
			return err
		}
		draft = d
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("ExtractReceipt failed", "user_id", userID, "error", err)
		if key != "" {
			if derr := s.images.Delete(context.WithoutCancel(ctx), key); derr != nil {
				s.logger.Warn("Failed to remove uploaded image", "key", key, "error", derr)
			}
		}
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.ExtractReceiptResponse{
		Items:    itemsToAPI(draft.Items),
		Subtotal: draft.Subtotal,
		ImageKey: key,
		ImageURL: url,
	}), nil
}

// CreateReceipt saves a new, unfinalized receipt.
func (s *ReceiptService) CreateReceipt(ctx context.Context, req *connect.Request[api.CreateReceiptRequest]) (*connect.Response[api.CreateReceiptResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	items, err := itemsFromAPI(req.Msg.Items)
	if err != nil {
		return nil, connectError(err)
	}
	if err := checkCharges(req.Msg.Tax, req.Msg.Tip); err != nil {
		return nil, connectError(err)
	}
	if key := req.Msg.ImageKey; key != "" && !strings.HasPrefix(key, "receipts/"+userID+"/") {
		return nil, connectError(errImageKey)
	}

	receipt := models.NewReceipt(userID, items, req.Msg.Tax, req.Msg.Tip)
	receipt.Title = req.Msg.Title
	receipt.Category = req.Msg.Category
	receipt.ImageKey = req.Msg.ImageKey
	receipt.ImageURL = req.Msg.ImageURL

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		s.logger.Error("CreateReceipt failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Receipt created", "receipt_id", receipt.ID, "user_id", userID, "items", len(items))
	return connect.NewResponse(&api.CreateReceiptResponse{Receipt: receiptToAPI(receipt)}), nil
}

// GetReceipt returns one of the caller's receipts.
func (s *ReceiptService) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetReceiptResponse{Receipt: receiptToAPI(receipt)}), nil
}

// UpdateReceipt replaces a receipt's items and charges. Any finalized split
// is discarded.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, req *connect.Request[api.UpdateReceiptRequest]) (*connect.Response[api.UpdateReceiptResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, connectError(err)
	}

	items, err := itemsFromAPI(req.Msg.Items)
	if err != nil {
		return nil, connectError(err)
	}
	if err := checkCharges(req.Msg.Tax, req.Msg.Tip); err != nil {
		return nil, connectError(err)
	}

	receipt.Title = req.Msg.Title
	receipt.Category = req.Msg.Category
	receipt.Items = items
	receipt.Tax = req.Msg.Tax
	receipt.Tip = req.Msg.Tip
	receipt.Recalculate()

	if err := s.store.UpdateReceipt(ctx, receipt); err != nil {
		s.logger.Error("UpdateReceipt failed", "receipt_id", receipt.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Receipt updated", "receipt_id", receipt.ID, "items", len(items))
	return connect.NewResponse(&api.UpdateReceiptResponse{Receipt: receiptToAPI(receipt)}), nil
}

// DeleteReceipt removes a receipt and, best effort, its photo.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, req *connect.Request[api.DeleteReceiptRequest]) (*connect.Response[api.DeleteReceiptResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, connectError(err)
	}

	if err := s.store.DeleteReceipt(ctx, receipt.ID); err != nil {
		s.logger.Error("DeleteReceipt failed", "receipt_id", receipt.ID, "error", err)
		return nil, connectError(err)
	}

	if receipt.ImageKey != "" && s.images != nil {
		if err := s.images.Delete(ctx, receipt.ImageKey); err != nil {
			s.logger.Warn("Failed to delete receipt image", "receipt_id", receipt.ID, "key", receipt.ImageKey, "error", err)
		}
	}

	s.logger.Info("Receipt deleted", "receipt_id", receipt.ID, "user_id", receipt.UserID)
	return connect.NewResponse(&api.DeleteReceiptResponse{}), nil
}

// ListReceipts returns the caller's receipts, newest first.
func (s *ReceiptService) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	filter, err := listFilter(userID, req.Msg.Since, req.Msg.Until)
	if err != nil {
		return nil, connectError(err)
	}
	filter.Category = req.Msg.Category
	if req.Msg.Limit > 0 {
		filter.Limit = uint64(min(req.Msg.Limit, MaxListLimit))
	}

	receipts, err := s.store.ListReceipts(ctx, filter)
	if err != nil {
		s.logger.Error("ListReceipts failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.ReceiptSummary, len(receipts))
	for i := range receipts {
		out[i] = summaryToAPI(&receipts[i])
	}
	return connect.NewResponse(&api.ListReceiptsResponse{Receipts: out}), nil
}

// CalculateSplit previews a split without touching storage.
func (s *ReceiptService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, connectError(err)
	}

	items := make([]calculator.Item, len(req.Msg.Items))
	for i, item := range req.Msg.Items {
		id := item.ID
		if id == 0 {
			id = i + 1
		}
		items[i] = calculator.Item{ID: id, Description: item.Name, Price: item.Price}
	}

	result, err := calculator.CalculateSplit(calculator.Input{
		Items:      items,
		Members:    req.Msg.Members,
		Assignment: calculator.Assignment(req.Msg.Assignment),
		Tax:        req.Msg.Tax,
		Tip:        req.Msg.Tip,
		Subtotal:   req.Msg.Subtotal,
	})
	if err != nil {
		s.logger.Warn("CalculateSplit rejected", "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CalculateSplitResponse{Split: splitToAPI(result)}), nil
}

// FinalizeSplit assigns a saved receipt's items, computes the split and
// stores it. Finalizing again overwrites the previous split.
func (s *ReceiptService) FinalizeSplit(ctx context.Context, req *connect.Request[api.FinalizeSplitRequest]) (*connect.Response[api.FinalizeSplitResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, connectError(err)
	}

	session, err := buildSession(receipt.Items, req.Msg.Members, req.Msg.Assignment)
	if err != nil {
		s.logger.Warn("FinalizeSplit rejected", "receipt_id", receipt.ID, "error", err)
		return nil, connectError(err)
	}

	result, err := session.Finalize(receipt.Tax, receipt.Tip)
	if err != nil {
		s.logger.Warn("FinalizeSplit not ready", "receipt_id", receipt.ID, "error", err)
		return nil, connectError(err)
	}

	details := splitDetails(result)
	if err := s.store.SaveSplit(ctx, receipt.ID, result.Splitters, details); err != nil {
		s.logger.Error("SaveSplit failed", "receipt_id", receipt.ID, "error", err)
		return nil, connectError(err)
	}

	receipt.Items = session.Items()
	receipt.Splits = details
	receipt.Finalized = true

	s.logger.Info("Split finalized", "receipt_id", receipt.ID, "members", len(details))
	return connect.NewResponse(&api.FinalizeSplitResponse{
		Receipt: receiptToAPI(receipt),
		Split:   splitToAPI(result),
	}), nil
}

// ShareSplit emails the summary of a finalized receipt. Without a recipient
// it goes to the caller.
func (s *ReceiptService) ShareSplit(ctx context.Context, req *connect.Request[api.ShareSplitRequest]) (*connect.Response[api.ShareSplitResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, connectError(err)
	}
	if !receipt.Finalized {
		return nil, connectError(errNotFinalized)
	}

	to := strings.TrimSpace(req.Msg.To)
	if to == "" {
		to = middleware.GetEmail(ctx)
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return nil, connectError(fmt.Errorf("%w: %q", errInvalidRecipient, to))
	}

	summary := receiptSummary(receipt)
	subject := "Smart Split: " + receipt.Title
	body := fmt.Sprintf("%s (%s)\n\n%s\n\nTotal: $%s\n",
		receipt.Title,
		receipt.Created().Format("Jan 2, 2006"),
		summary,
		decimal.NewFromFloat(receipt.Total).StringFixed(2),
	)

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Error("ShareSplit failed", "receipt_id", receipt.ID, "error", err)
		return nil, connectError(fmt.Errorf("%w: %v", errMailFailed, err))
	}

	s.logger.Info("Split shared", "receipt_id", receipt.ID)
	return connect.NewResponse(&api.ShareSplitResponse{SentTo: to, Summary: summary}), nil
}

// GetAnalytics summarizes the caller's spending.
func (s *ReceiptService) GetAnalytics(ctx context.Context, req *connect.Request[api.GetAnalyticsRequest]) (*connect.Response[api.GetAnalyticsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	filter, err := listFilter(userID, req.Msg.Since, req.Msg.Until)
	if err != nil {
		return nil, connectError(err)
	}

	receipts, err := s.store.ListReceipts(ctx, filter)
	if err != nil {
		s.logger.Error("GetAnalytics failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetAnalyticsResponse{
		Analytics: analyticsToAPI(analytics.Compute(receipts)),
	}), nil
}

// ownedReceipt loads a receipt the caller owns.
func (s *ReceiptService) ownedReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if receiptID == "" {
		return nil, errReceiptIDRequired
	}

	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		s.logger.Warn("Failed to load receipt", "receipt_id", receiptID, "user_id", userID, "error", err)
		return nil, err
	}
	if receipt.UserID != userID {
		s.logger.Warn("Receipt access denied", "receipt_id", receiptID, "user_id", userID)
		return nil, errNotOwner
	}
	return receipt, nil
}

func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", errAuthRequired
	}
	return userID, nil
}

func checkCharges(tax, tip float64) error {
	if tax < 0 || tip < 0 {
		return calculator.ErrNegativeCharge
	}
	return nil
}

func listFilter(userID string, since, until int64) (storage.ListFilter, error) {
	f := storage.ListFilter{UserID: userID}
	if since > 0 {
		f.Since = time.Unix(since, 0)
	}
	if until > 0 {
		f.Until = time.Unix(until, 0)
	}
	if since > 0 && until > 0 && until <= since {
		return f, errInvalidRange
	}
	return f, nil
}

// buildSession replays the requested members and assignment onto a split
// session over items.
func buildSession(items []models.ReceiptItem, members []string, assignment map[string][]int) (*split.Session, error) {
	session := split.NewSession(items)
	for _, m := range members {
		if err := session.AddMember(m); err != nil {
			return nil, err
		}
	}
	for member, ids := range assignment {
		if err := session.Assign(strings.TrimSpace(member), ids...); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// receiptSummary renders the stored split as "<name>: $X.XX" lines.
func receiptSummary(r *models.Receipt) string {
	members := make([]string, len(r.Splits))
	owed := make(map[string]decimal.Decimal, len(r.Splits))
	for i, d := range r.Splits {
		members[i] = d.Name
		owed[d.Name] = decimal.NewFromFloat(d.Amount)
	}
	return calculator.Summary(members, owed)
}
