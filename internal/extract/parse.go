package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/mmynk/smartsplit/internal/models"
)

var (
	nonNumeric    = regexp.MustCompile(`[^\d.-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// entry is one key/value pair of a JSON object, in document order.
type entry struct {
	Key   string
	Value json.RawMessage
}

// Repair fixes common model output damage (code fences, trailing commas,
// single quotes, truncation) and returns compact, valid JSON.
func Repair(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyResponse
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(repaired)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return buf.String(), nil
}

// ParseItems converts cleaned model output into receipt items.
//
// Two shapes are accepted: an object of "name": price pairs, or an array of
// single-key objects. Everything from the first key mentioning "total" onwards
// is dropped, so subtotal, tax and total lines never become items.
func ParseItems(doc string) ([]models.ReceiptItem, error) {
	entries, err := orderedEntries([]byte(doc))
	if err != nil {
		return nil, err
	}
	entries = trimAtTotal(entries)

	items := make([]models.ReceiptItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.ReceiptItem{
			ID:    len(items) + 1,
			Name:  strings.TrimSpace(e.Key),
			Price: parsePrice(e.Value),
		})
	}
	return items, nil
}

func orderedEntries(doc []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	switch tok {
	case json.Delim('{'):
		return readObject(dec)
	case json.Delim('['):
		var entries []entry
		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			elem := json.NewDecoder(bytes.NewReader(raw))
			elem.UseNumber()
			if t, err := elem.Token(); err != nil || t != json.Delim('{') {
				continue
			}
			fields, err := readObject(elem)
			if err != nil {
				return nil, err
			}
			if len(fields) > 0 {
				entries = append(entries, fields[0])
			}
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: expected an object or array", ErrMalformedResponse)
	}
}

// readObject reads key/value pairs until the closing brace. The opening
// brace must already have been consumed.
func readObject(dec *json.Decoder) ([]entry, error) {
	var entries []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key is not a string", ErrMalformedResponse)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		entries = append(entries, entry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return entries, nil
}

func trimAtTotal(entries []entry) []entry {
	for i, e := range entries {
		if strings.Contains(strings.ToLower(strings.TrimSpace(e.Key)), "total") {
			return entries[:i]
		}
	}
	return entries
}

// parsePrice reads a price from a JSON number or a string like "$4.99",
// "-$1.00" or "5.00-". Anything unreadable is 0 so the user can fix it by hand.
func parsePrice(raw json.RawMessage) float64 {
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return 0
	}

	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		cleaned := nonNumeric.ReplaceAllString(v, "")
		// Receipts print discounts with a trailing minus.
		if strings.HasSuffix(cleaned, "-") && !strings.HasPrefix(cleaned, "-") {
			cleaned = "-" + strings.TrimSuffix(cleaned, "-")
		}
		num := leadingNumber.FindString(cleaned)
		if num == "" {
			return 0
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
