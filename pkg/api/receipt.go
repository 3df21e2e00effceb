package api

// Item is one receipt line. ID is the 1-based position on the receipt and is
// assigned by the server on create and update.
type Item struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Splitters []string `json:"splitters,omitempty"`
}

// MemberShare is what one member owes on a finalized receipt.
type MemberShare struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Receipt struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Category  string        `json:"category"`
	Items     []Item        `json:"items"`
	Subtotal  float64       `json:"subtotal"`
	Tax       float64       `json:"tax"`
	Tip       float64       `json:"tip"`
	Total     float64       `json:"total"`
	ImageURL  string        `json:"image_url,omitempty"`
	Finalized bool          `json:"finalized"`
	Splits    []MemberShare `json:"splits,omitempty"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}

// ReceiptSummary is a receipt as shown in the history list.
type ReceiptSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	Finalized bool    `json:"finalized"`
	CreatedAt int64   `json:"created_at"`
}

// PersonItem is one member's portion of one item.
type PersonItem struct {
	ItemID int     `json:"item_id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PersonSplit is one member's breakdown. Percent is their share of the grand
// total, 0..100.
type PersonSplit struct {
	Name     string       `json:"name"`
	Subtotal float64      `json:"subtotal"`
	Tax      float64      `json:"tax"`
	Tip      float64      `json:"tip"`
	Total    float64      `json:"total"`
	Percent  float64      `json:"percent"`
	Items    []PersonItem `json:"items"`
}

// Split is a computed allocation. Summary is the plain-text export.
type Split struct {
	Subtotal float64       `json:"subtotal"`
	Tax      float64       `json:"tax"`
	Tip      float64       `json:"tip"`
	Total    float64       `json:"total"`
	People   []PersonSplit `json:"people"`
	Summary  string        `json:"summary"`
}

type ExtractReceiptRequest struct {
	Image    []byte `json:"image"` // base64 in JSON
	MimeType string `json:"mime_type"`
}

type ExtractReceiptResponse struct {
	Items    []Item  `json:"items"`
	Subtotal float64 `json:"subtotal"`
	ImageKey string  `json:"image_key"`
	ImageURL string  `json:"image_url"`
}

type CreateReceiptRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Items    []Item  `json:"items"`
	Tax      float64 `json:"tax"`
	Tip      float64 `json:"tip"`
	ImageKey string  `json:"image_key,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

type CreateReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type GetReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

type GetReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type UpdateReceiptRequest struct {
	ReceiptID string  `json:"receipt_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Items     []Item  `json:"items"`
	Tax       float64 `json:"tax"`
	Tip       float64 `json:"tip"`
}

type UpdateReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type DeleteReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

type DeleteReceiptResponse struct{}

// ListReceiptsRequest filters the caller's receipts. Since and Until are Unix
// seconds; zero means unbounded.
type ListReceiptsRequest struct {
	Since    int64  `json:"since,omitempty"`
	Until    int64  `json:"until,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int32  `json:"limit,omitempty"`
}

type ListReceiptsResponse struct {
	Receipts []ReceiptSummary `json:"receipts"`
}

// CalculateSplitRequest previews a split without saving anything. Subtotal is
// optional; when set it must match the item prices.
type CalculateSplitRequest struct {
	Items      []Item           `json:"items"`
	Members    []string         `json:"members"`
	Assignment map[string][]int `json:"assignment"`
	Tax        float64          `json:"tax"`
	Tip        float64          `json:"tip"`
	Subtotal   *float64         `json:"subtotal,omitempty"`
}

type CalculateSplitResponse struct {
	Split *Split `json:"split"`
}

// FinalizeSplitRequest assigns a saved receipt's items (by ID) to members.
type FinalizeSplitRequest struct {
	ReceiptID  string           `json:"receipt_id"`
	Members    []string         `json:"members"`
	Assignment map[string][]int `json:"assignment"`
}

type FinalizeSplitResponse struct {
	Receipt *Receipt `json:"receipt"`
	Split   *Split   `json:"split"`
}

// ShareSplitRequest emails a finalized summary. An empty To sends it to the
// caller's own address.
type ShareSplitRequest struct {
	ReceiptID string `json:"receipt_id"`
	To        string `json:"to,omitempty"`
}

type ShareSplitResponse struct {
	SentTo  string `json:"sent_to"`
	Summary string `json:"summary"`
}

type GetAnalyticsRequest struct {
	Since int64 `json:"since,omitempty"`
	Until int64 `json:"until,omitempty"`
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type MemberStat struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type Analytics struct {
	TotalSpent     float64         `json:"total_spent"`
	ReceiptCount   int             `json:"receipt_count"`
	AverageReceipt float64         `json:"average_receipt"`
	Monthly        []MonthTotal    `json:"monthly"`
	Categories     []CategoryTotal `json:"categories"`
	Members        []MemberStat    `json:"members"`
}

type GetAnalyticsResponse struct {
	Analytics *Analytics `json:"analytics"`
}
