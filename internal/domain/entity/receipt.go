package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line on a receipt, already formatted to 2 places.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// Receipt is a printable view of a bill, composed at print time.
// Amounts are rounded for display only; the bill keeps exact values.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	BillID        string        `json:"bill_id"`
	Date          string        `json:"date"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      string        `json:"sub_total"`
	Tax           string        `json:"tax"`
	Total         string        `json:"total"`
}
