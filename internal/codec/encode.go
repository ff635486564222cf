package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"purchase-tracker/internal/models"
)

const (
	tagAbsent  byte = 0
	tagPresent byte = 1
)

// MaxDepth bounds how many Product levels a store may nest. Encode refuses
// deeper trees so that whatever is written can be read back.
const MaxDepth = 1024

// Encode writes orders to w in a single Write call.
func Encode(w io.Writer, orders []models.Order) error {
	data, err := Marshal(orders)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write order store: %w", err)
	}
	return nil
}

// Marshal returns the encoding of orders. The same orders always produce the
// same bytes.
func Marshal(orders []models.Order) ([]byte, error) {
	e := &encoder{}
	e.length(len(orders))
	for i := range orders {
		if err := e.order(&orders[i]); err != nil {
			return nil, fmt.Errorf("encode order %d: %w", i, err)
		}
	}
	return e.buf, nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) u64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *encoder) cents(v models.Cents) {
	e.u64(uint64(v))
}

func (e *encoder) length(n int) {
	e.u64(uint64(n))
}

func (e *encoder) str(s string) {
	e.length(len(s))
	e.buf = append(e.buf, s...)
}

func (e *encoder) tag(present bool) {
	if present {
		e.u8(tagPresent)
		return
	}
	e.u8(tagAbsent)
}

func (e *encoder) date(d models.Date) {
	e.u8(d.Month)
	e.u8(d.Day)
	e.u64(d.Year)
}

func (e *encoder) order(o *models.Order) error {
	e.date(o.DatePlaced)
	e.date(o.DateShipped)
	e.cents(o.Subtotal)
	e.cents(o.Total)
	e.length(len(o.Products))
	for i := range o.Products {
		if err := e.product(&o.Products[i].Product, 1); err != nil {
			return err
		}
		e.cents(o.Products[i].PaidAmount)
	}
	e.str(o.Notes)
	return nil
}

func (e *encoder) product(p *models.Product, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}
	e.str(p.Name)
	e.str(p.Description)
	e.cents(p.BasePrice)
	e.cents(p.StickerPrice)

	items, ok := p.Items.Get()
	e.tag(ok)
	if ok {
		e.length(len(items))
		for i := range items {
			if err := e.product(&items[i], depth+1); err != nil {
				return err
			}
		}
	}

	addOns, ok := p.AddOns.Get()
	e.tag(ok)
	if ok {
		e.length(len(addOns))
		for i := range addOns {
			if err := e.addOn(&addOns[i], depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// addOn encodes a at the depth of the product that owns it; its associated
// product sits one level below.
func (e *encoder) addOn(a *models.AddOn, depth int) error {
	e.str(a.Name)
	e.str(a.Description)
	e.cents(a.StickerPrice)
	e.cents(a.ActualPrice)

	assoc, ok := a.AssocProduct.Get()
	e.tag(ok)
	if ok {
		return e.product(&assoc, depth+1)
	}
	return nil
}
