package ledger

import (
	"github.com/uptrace/bun"
)

type OrderRow struct {
	bun.BaseModel `bun:"table:ledger_orders,alias:lo"`

	ID           string `bun:"id,pk"`
	StorePath    string `bun:"store_path,notnull"`
	Position     int    `bun:"position,notnull"`
	PlacedYear   int64  `bun:"placed_year,notnull"`
	PlacedMonth  int    `bun:"placed_month,notnull"`
	PlacedDay    int    `bun:"placed_day,notnull"`
	ShippedYear  int64  `bun:"shipped_year,notnull"`
	ShippedMonth int    `bun:"shipped_month,notnull"`
	ShippedDay   int    `bun:"shipped_day,notnull"`
	Subtotal     int64  `bun:"subtotal,notnull"`
	Total        int64  `bun:"total,notnull"`
	LineCount    int    `bun:"line_count,notnull"`
	Notes        string `bun:"notes"`
}

// Product kinds record how a product hangs off its parent.
const (
	KindLine  = "line"
	KindItem  = "item"
	KindAssoc = "assoc"
)

type ProductRow struct {
	bun.BaseModel `bun:"table:ledger_products,alias:lp"`

	ID           string `bun:"id,pk"`
	StorePath    string `bun:"store_path,notnull"`
	OrderID      string `bun:"order_id,notnull"`
	ParentID     string `bun:"parent_id,nullzero"`
	Kind         string `bun:"kind,notnull"`
	Position     int    `bun:"position,notnull"`
	Depth        int    `bun:"depth,notnull"`
	Name         string `bun:"name"`
	Description  string `bun:"description"`
	BasePrice    int64  `bun:"base_price,notnull"`
	StickerPrice int64  `bun:"sticker_price,notnull"`
	PaidAmount   *int64 `bun:"paid_amount"`
	HasItems     bool   `bun:"has_items,notnull"`
	HasAddOns    bool   `bun:"has_add_ons,notnull"`
}

type AddOnRow struct {
	bun.BaseModel `bun:"table:ledger_add_ons,alias:la"`

	ID           string `bun:"id,pk"`
	StorePath    string `bun:"store_path,notnull"`
	OrderID      string `bun:"order_id,notnull"`
	ProductID    string `bun:"product_id,notnull"`
	Position     int    `bun:"position,notnull"`
	Name         string `bun:"name"`
	Description  string `bun:"description"`
	StickerPrice int64  `bun:"sticker_price,notnull"`
	ActualPrice  int64  `bun:"actual_price,notnull"`
	HasAssoc     bool   `bun:"has_assoc,notnull"`
}

// Summary totals one exported store.
type Summary struct {
	Orders   int   `bun:"orders"`
	Subtotal int64 `bun:"subtotal"`
	Total    int64 `bun:"total"`
	Paid     int64 `bun:"-"`
	Products int   `bun:"-"`
	AddOns   int   `bun:"-"`
}
