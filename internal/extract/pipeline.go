package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

const extractPrompt = "Please return a JSON block with all the items and their prices in this format " +
	"extracted from the uploaded receipt. Make sure to include discounts and negative numbers."

const cleanupPrompt = `Here is a json output from OCR extracted key values from a receipt. Please clean up all the keys and values based on these rules:
{
  "Item Name": "$Price"
}
- All keys should be human readable (e.g. Bounty Paper Towels)
- Values with a discount code such as (-A) should be returned as negative price value

%s`

// Pipeline implements Extractor with an extract pass and a cleanup pass.
type Pipeline struct {
	gen Generator
}

var _ Extractor = (*Pipeline)(nil)

// NewPipeline creates a Pipeline backed by gen.
func NewPipeline(gen Generator) *Pipeline {
	return &Pipeline{gen: gen}
}

// Extract reads the items off a receipt image.
func (p *Pipeline) Extract(ctx context.Context, image []byte, mimeType string) (*Draft, error) {
	mimeType, err := CheckImage(image, mimeType)
	if err != nil {
		return nil, err
	}

	raw, err := p.gen.Generate(ctx, extractPrompt, &Image{Data: image, MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("extract pass: %w", err)
	}
	extracted, err := Repair(raw)
	if err != nil {
		return nil, fmt.Errorf("extract pass: %w", err)
	}
	slog.Debug("Extract pass complete", "bytes", len(extracted))

	raw, err = p.gen.Generate(ctx, fmt.Sprintf(cleanupPrompt, extracted), nil)
	if err != nil {
		return nil, fmt.Errorf("cleanup pass: %w", err)
	}
	cleaned, err := Repair(raw)
	if err != nil {
		return nil, fmt.Errorf("cleanup pass: %w", err)
	}

	items, err := ParseItems(cleaned)
	if err != nil {
		return nil, fmt.Errorf("cleanup pass: %w", err)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price))
	}
	slog.Info("Receipt extracted", "items", len(items), "subtotal", subtotal.StringFixed(2))

	return &Draft{Items: items, Subtotal: subtotal.InexactFloat64()}, nil
}
