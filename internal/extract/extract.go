// Package extract turns a receipt photo into editable line items using a
// generative vision model.
//
// Extraction runs in two passes: the first asks the model to read every item
// and price off the image, the second asks it to clean that output into
// {"Item Name": "$Price"} pairs. Both responses are repaired before parsing
// because model output is frequently almost-JSON.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmynk/smartsplit/internal/models"
)

var (
	ErrImageRequired     = errors.New("image required")
	ErrUnsupportedMedia  = errors.New("only image files are supported")
	ErrMalformedResponse = errors.New("model returned malformed JSON")
	ErrEmptyResponse     = errors.New("model returned an empty response")
)

// Image is an uploaded receipt photo.
type Image struct {
	Data     []byte
	MIMEType string
}

// Draft is the extracted, not yet saved, content of a receipt.
type Draft struct {
	Items    []models.ReceiptItem
	Subtotal float64
}

// Extractor reads line items from a receipt image.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (*Draft, error)
}

// Generator sends one prompt, optionally with an image, to a generative model
// and returns the raw text of its reply.
type Generator interface {
	Generate(ctx context.Context, prompt string, image *Image) (string, error)
}

// CheckImage validates an upload and returns its MIME type, sniffing it from
// the bytes when mimeType is empty.
func CheckImage(image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", ErrImageRequired
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mimeType)
	}
	return mimeType, nil
}
