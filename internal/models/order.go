package models

// LineItem is a Product as it appeared on an Order together with what was
// actually paid for it after item-specific sales.
type LineItem struct {
	Product    Product `json:"product"`
	PaidAmount Cents   `json:"paid_amount"`
}

// Order is one purchase. Subtotal is the price after order-wide coupons and
// before shipping and tax; Total is what left the bank account. Neither is
// checked against the line items.
type Order struct {
	DatePlaced  Date       `json:"date_placed"`
	DateShipped Date       `json:"date_shipped"`
	Subtotal    Cents      `json:"subtotal"`
	Total       Cents      `json:"total"`
	Products    []LineItem `json:"products"`
	Notes       string     `json:"notes"`
}

func (l LineItem) Equal(o LineItem) bool {
	return l.PaidAmount == o.PaidAmount && l.Product.Equal(o.Product)
}

func (o Order) Equal(other Order) bool {
	return o.DatePlaced == other.DatePlaced &&
		o.DateShipped == other.DateShipped &&
		o.Subtotal == other.Subtotal &&
		o.Total == other.Total &&
		o.Notes == other.Notes &&
		sliceEqual(o.Products, other.Products, LineItem.Equal)
}

// OrdersEqual compares two stores element by element.
func OrdersEqual(a, b []Order) bool {
	return sliceEqual(a, b, Order.Equal)
}
