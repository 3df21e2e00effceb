package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/smartsplit/internal/auth"
	"github.com/mmynk/smartsplit/internal/calculator"
	"github.com/mmynk/smartsplit/internal/extract"
	"github.com/mmynk/smartsplit/internal/notify"
	"github.com/mmynk/smartsplit/internal/split"
	"github.com/mmynk/smartsplit/internal/storage"
)

var (
	errAuthRequired       = errors.New("authentication required")
	errNotOwner           = errors.New("receipt belongs to another user")
	errReceiptIDRequired  = errors.New("receipt_id is required")
	errItemName           = errors.New("item name is required")
	errNotFinalized       = errors.New("receipt has not been finalized")
	errInvalidRecipient   = errors.New("invalid recipient email")
	errInvalidRange       = errors.New("until must be after since")
	errExtractionDisabled = errors.New("receipt extraction is not configured")
	errUploadFailed       = errors.New("failed to store receipt image")
	errImageKey           = errors.New("image_key does not belong to the caller")
	errMailFailed         = errors.New("failed to send email")
)

// invalidArgument lists errors caused by bad caller input.
var invalidArgument = []error{
	errReceiptIDRequired,
	errItemName,
	errInvalidRecipient,
	errInvalidRange,
	errImageKey,
	calculator.ErrNoMembers,
	calculator.ErrDuplicateMember,
	calculator.ErrDuplicateItem,
	calculator.ErrUnknownMember,
	calculator.ErrUnknownItem,
	calculator.ErrUnassignedItem,
	calculator.ErrNegativeCharge,
	calculator.ErrSubtotalMismatch,
	split.ErrEmptyName,
	split.ErrMemberExists,
	split.ErrMemberNotFound,
	split.ErrTooManyMembers,
	split.ErrItemNotFound,
	extract.ErrImageRequired,
	extract.ErrUnsupportedMedia,
	notify.ErrMissingFields,
	auth.ErrWeakPassword,
	auth.ErrInvalidEmail,
}

// connectError maps a domain error to the Connect code clients see.
func connectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, errAuthRequired):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, split.ErrNotReady), errors.Is(err, errNotFinalized):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, errExtractionDisabled), errors.Is(err, errUploadFailed), errors.Is(err, errMailFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}
