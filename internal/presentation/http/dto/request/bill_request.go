package request

// CustomerRequest is the customer block of a bill
type CustomerRequest struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
}

// BillItemRequest is one requested line
type BillItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateBillRequest represents a sale. Field rules are checked by the billing
// service so that every problem comes back in one 422 response.
type CreateBillRequest struct {
	Customer CustomerRequest   `json:"customer"`
	Items    []BillItemRequest `json:"items"`
}

// BillFilterRequest represents bill list parameters
type BillFilterRequest struct {
	Customer string `form:"customer"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
