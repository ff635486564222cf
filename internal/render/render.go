// Package render formats orders as indented plain text for people to read.
package render

import (
	"fmt"
	"io"
	"strings"

	"purchase-tracker/internal/models"
)

const indent = "  "

// printer remembers the first write error so callers can check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, strings.Repeat(indent, depth)+format+"\n", args...)
}

// Store writes every order, numbered from zero.
func Store(w io.Writer, orders []models.Order) error {
	p := &printer{w: w}
	if len(orders) == 0 {
		p.line(0, "(no orders)")
		return p.err
	}
	for i, o := range orders {
		p.line(0, "%d.", i)
		p.order(o, 1)
	}
	return p.err
}

func Order(w io.Writer, o models.Order) error {
	p := &printer{w: w}
	p.order(o, 0)
	return p.err
}

// Product writes p indented depth levels.
func Product(w io.Writer, prod models.Product, depth int) error {
	p := &printer{w: w}
	p.product(prod, depth)
	return p.err
}

func AddOn(w io.Writer, a models.AddOn, depth int) error {
	p := &printer{w: w}
	p.addOn(a, depth)
	return p.err
}

// OrderString is Order rendered into a string.
func OrderString(o models.Order) string {
	var b strings.Builder
	_ = Order(&b, o)
	return b.String()
}

func (p *printer) order(o models.Order, depth int) {
	p.line(depth, "Placed: %s", o.DatePlaced)
	p.line(depth, "Shipped: %s", o.DateShipped)
	p.line(depth, "Subtotal: %s", o.Subtotal)
	p.line(depth, "Total: %s", o.Total)
	p.line(depth, "Products:")
	for i, item := range o.Products {
		p.line(depth+1, "%d. paid %s", i, item.PaidAmount)
		p.product(item.Product, depth+2)
	}
	if o.Notes != "" {
		p.line(depth, "Notes: %s", o.Notes)
	}
}

func (p *printer) product(prod models.Product, depth int) {
	p.line(depth, "Name: %s", prod.Name)
	p.line(depth, "Description: %s", prod.Description)
	p.line(depth, "Base Price: %s", prod.BasePrice)
	p.line(depth, "Sticker Price: %s", prod.StickerPrice)
	if items, ok := prod.Items.Get(); ok {
		p.line(depth, "Sub-products:")
		for i, item := range items {
			p.line(depth+1, "%d.", i)
			p.product(item, depth+2)
		}
	}
	if addOns, ok := prod.AddOns.Get(); ok {
		p.line(depth, "Add-ons:")
		for i, a := range addOns {
			p.line(depth+1, "%d.", i)
			p.addOn(a, depth+2)
		}
	}
}

func (p *printer) addOn(a models.AddOn, depth int) {
	p.line(depth, "Name: %s", a.Name)
	p.line(depth, "Description: %s", a.Description)
	p.line(depth, "Sticker Price: %s", a.StickerPrice)
	p.line(depth, "Actual Price: %s", a.ActualPrice)
	if assoc, ok := a.AssocProduct.Get(); ok {
		p.line(depth, "Associated Product:")
		p.product(assoc, depth+1)
	}
}
