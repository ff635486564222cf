// Package ledger copies order stores into SQLite so they can be queried
// with ordinary SQL. The binary store stays the source of truth; an export
// can always be thrown away and rebuilt.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"purchase-tracker/internal/logger"
	"purchase-tracker/internal/models"
)

// ErrOutOfRange means a value does not fit SQLite's signed 64-bit integers.
var ErrOutOfRange = errors.New("value exceeds the SQLite integer range")

type Ledger struct {
	Bun    *bun.DB
	Logger *logger.Logger
}

// Open opens (or creates) the SQLite database at path.
func Open(path string, log *logger.Logger) (*Ledger, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	sqldb.SetMaxOpenConns(1)
	if err := sqldb.Ping(); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	return New(bun.NewDB(sqldb, sqlitedialect.New()), log), nil
}

func New(db *bun.DB, log *logger.Logger) *Ledger {
	return &Ledger{Bun: db, Logger: log}
}

func (l *Ledger) Close() error {
	return l.Bun.Close()
}

func (l *Ledger) CreateSchema(ctx context.Context) error {
	for _, model := range []any{(*OrderRow)(nil), (*ProductRow)(nil), (*AddOnRow)(nil)} {
		if _, err := l.Bun.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create ledger table: %w", err)
		}
	}
	l.Logger.LogDatabase("schema", "ledger_*", "tables ready")
	return nil
}

// Export replaces whatever was exported earlier for storePath with orders.
func (l *Ledger) Export(ctx context.Context, storePath string, orders []models.Order) error {
	rows, err := flatten(storePath, orders)
	if err != nil {
		return err
	}

	err = l.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{(*OrderRow)(nil), (*ProductRow)(nil), (*AddOnRow)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("store_path = ?", storePath).Exec(ctx); err != nil {
				return fmt.Errorf("clear previous export: %w", err)
			}
		}
		if len(rows.orders) > 0 {
			if _, err := tx.NewInsert().Model(&rows.orders).Exec(ctx); err != nil {
				return fmt.Errorf("insert orders: %w", err)
			}
		}
		if len(rows.products) > 0 {
			if _, err := tx.NewInsert().Model(&rows.products).Exec(ctx); err != nil {
				return fmt.Errorf("insert products: %w", err)
			}
		}
		if len(rows.addOns) > 0 {
			if _, err := tx.NewInsert().Model(&rows.addOns).Exec(ctx); err != nil {
				return fmt.Errorf("insert add-ons: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Logger.LogDatabase("export", storePath, fmt.Sprintf("%d orders, %d products, %d add-ons",
		len(rows.orders), len(rows.products), len(rows.addOns)))
	return nil
}

func (l *Ledger) Summary(ctx context.Context, storePath string) (Summary, error) {
	var s Summary
	err := l.Bun.NewSelect().
		Model((*OrderRow)(nil)).
		ColumnExpr("COUNT(*) AS orders").
		ColumnExpr("COALESCE(SUM(subtotal), 0) AS subtotal").
		ColumnExpr("COALESCE(SUM(total), 0) AS total").
		Where("store_path = ?", storePath).
		Scan(ctx, &s)
	if err != nil {
		return s, fmt.Errorf("summarise orders: %w", err)
	}

	err = l.Bun.NewSelect().
		Model((*ProductRow)(nil)).
		ColumnExpr("COALESCE(SUM(paid_amount), 0)").
		Where("store_path = ? AND kind = ?", storePath, KindLine).
		Scan(ctx, &s.Paid)
	if err != nil {
		return s, fmt.Errorf("summarise line items: %w", err)
	}

	if s.Products, err = l.Bun.NewSelect().Model((*ProductRow)(nil)).Where("store_path = ?", storePath).Count(ctx); err != nil {
		return s, fmt.Errorf("count products: %w", err)
	}
	if s.AddOns, err = l.Bun.NewSelect().Model((*AddOnRow)(nil)).Where("store_path = ?", storePath).Count(ctx); err != nil {
		return s, fmt.Errorf("count add-ons: %w", err)
	}
	return s, nil
}

// Lines returns the top-level line items of one exported order in order.
func (l *Ledger) Lines(ctx context.Context, storePath string, position int) ([]ProductRow, error) {
	var lines []ProductRow
	err := l.Bun.NewSelect().
		Model(&lines).
		Join("JOIN ledger_orders AS lo ON lo.id = lp.order_id").
		Where("lo.store_path = ? AND lo.position = ?", storePath, position).
		Where("lp.kind = ?", KindLine).
		OrderExpr("lp.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return lines, nil
}

// flatRows remembers the first out-of-range value so flatten can check once.
type flatRows struct {
	orders   []OrderRow
	products []ProductRow
	addOns   []AddOnRow
	order    int
	err      error
}

func (f *flatRows) signed(field string, v uint64) int64 {
	if v > math.MaxInt64 && f.err == nil {
		f.err = fmt.Errorf("order %d: %s %d: %w", f.order, field, v, ErrOutOfRange)
	}
	return int64(v)
}

func flatten(storePath string, orders []models.Order) (*flatRows, error) {
	f := &flatRows{}
	for i, o := range orders {
		f.order = i
		orderID := uuid.NewString()
		f.orders = append(f.orders, OrderRow{
			ID:           orderID,
			StorePath:    storePath,
			Position:     i,
			PlacedYear:   f.signed("placed year", o.DatePlaced.Year),
			PlacedMonth:  int(o.DatePlaced.Month),
			PlacedDay:    int(o.DatePlaced.Day),
			ShippedYear:  f.signed("shipped year", o.DateShipped.Year),
			ShippedMonth: int(o.DateShipped.Month),
			ShippedDay:   int(o.DateShipped.Day),
			Subtotal:     f.signed("subtotal", uint64(o.Subtotal)),
			Total:        f.signed("total", uint64(o.Total)),
			LineCount:    len(o.Products),
			Notes:        o.Notes,
		})
		for j, line := range o.Products {
			paid := f.signed("paid amount", uint64(line.PaidAmount))
			f.product(storePath, orderID, "", KindLine, j, 1, line.Product, &paid)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f, nil
}

func (f *flatRows) product(storePath, orderID, parentID, kind string, position, depth int, p models.Product, paid *int64) {
	id := uuid.NewString()
	items, hasItems := p.Items.Get()
	addOns, hasAddOns := p.AddOns.Get()

	f.products = append(f.products, ProductRow{
		ID:           id,
		StorePath:    storePath,
		OrderID:      orderID,
		ParentID:     parentID,
		Kind:         kind,
		Position:     position,
		Depth:        depth,
		Name:         p.Name,
		Description:  p.Description,
		BasePrice:    f.signed("base price of "+p.Name, uint64(p.BasePrice)),
		StickerPrice: f.signed("sticker price of "+p.Name, uint64(p.StickerPrice)),
		PaidAmount:   paid,
		HasItems:     hasItems,
		HasAddOns:    hasAddOns,
	})

	for i, item := range items {
		f.product(storePath, orderID, id, KindItem, i, depth+1, item, nil)
	}
	for i, a := range addOns {
		addOnID := uuid.NewString()
		assoc, hasAssoc := a.AssocProduct.Get()
		f.addOns = append(f.addOns, AddOnRow{
			ID:           addOnID,
			StorePath:    storePath,
			OrderID:      orderID,
			ProductID:    id,
			Position:     i,
			Name:         a.Name,
			Description:  a.Description,
			StickerPrice: f.signed("sticker price of "+a.Name, uint64(a.StickerPrice)),
			ActualPrice:  f.signed("actual price of "+a.Name, uint64(a.ActualPrice)),
			HasAssoc:     hasAssoc,
		})
		if hasAssoc {
			f.product(storePath, orderID, addOnID, KindAssoc, 0, depth+1, assoc, nil)
		}
	}
}
