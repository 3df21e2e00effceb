// Package blob stores uploaded receipt images.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid object key")

// Store persists receipt images and returns a URL they can be fetched from.
type Store interface {
	// Put stores data under key and returns its URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ImageKey returns a fresh object key for a user's receipt image.
func ImageKey(userID, contentType string) string {
	return fmt.Sprintf("receipts/%s/%s%s", userID, uuid.New().String(), extensions[contentType])
}

// validKey rejects keys that could escape the store's root.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
