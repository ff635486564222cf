package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"purchase-tracker/internal/models"
)

// Smallest possible encodings, used to reject length prefixes that cannot
// fit in what is left of the input before allocating anything.
const (
	minTextSize     = 8
	minDateSize     = 1 + 1 + 8
	minProductSize  = 2*minTextSize + 8 + 8 + 1 + 1
	minAddOnSize    = 2*minTextSize + 8 + 8 + 1
	minLineItemSize = minProductSize + 8
	minOrderSize    = 2*minDateSize + 8 + 8 + 8 + minTextSize
)

// Decode reads r to the end and decodes it as an order store.
func Decode(r io.Reader) ([]models.Order, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read order store: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes data as an order store. Any failure is a *DecodeError;
// partially decoded orders are never returned.
func Unmarshal(data []byte) ([]models.Order, error) {
	d := &decoder{data: data}
	n, err := d.count("order count", minOrderSize)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, n)
	for i := range orders {
		if err := d.order(&orders[i]); err != nil {
			return nil, err
		}
	}
	if d.remaining() > 0 {
		return nil, d.fail("end of store", ErrTrailingData)
	}
	return orders, nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) fail(field string, err error) error {
	return &DecodeError{Offset: d.off, Field: field, Err: err}
}

func (d *decoder) u8(field string) (uint8, error) {
	if d.remaining() < 1 {
		return 0, d.fail(field, ErrTruncated)
	}
	v := d.data[d.off]
	d.off++
	return v, nil
}

func (d *decoder) u64(field string) (uint64, error) {
	if d.remaining() < 8 {
		return 0, d.fail(field, ErrTruncated)
	}
	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8
	return v, nil
}

func (d *decoder) cents(field string) (models.Cents, error) {
	v, err := d.u64(field)
	return models.Cents(v), err
}

// count reads a sequence length and checks that that many elements of at
// least minSize bytes each could still follow.
func (d *decoder) count(field string, minSize int) (int, error) {
	start := d.off
	n, err := d.u64(field)
	if err != nil {
		return 0, err
	}
	if n > uint64(d.remaining()/minSize) {
		return 0, &DecodeError{Offset: start, Field: field, Err: ErrLengthOverflow}
	}
	return int(n), nil
}

func (d *decoder) str(field string) (string, error) {
	start := d.off
	n, err := d.u64(field)
	if err != nil {
		return "", err
	}
	if n > uint64(d.remaining()) {
		return "", &DecodeError{Offset: start, Field: field, Err: ErrLengthOverflow}
	}
	s := string(d.data[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

func (d *decoder) tag(field string) (bool, error) {
	start := d.off
	b, err := d.u8(field)
	if err != nil {
		return false, err
	}
	switch b {
	case tagAbsent:
		return false, nil
	case tagPresent:
		return true, nil
	default:
		return false, &DecodeError{Offset: start, Field: field, Err: fmt.Errorf("%w 0x%02x", ErrBadTag, b)}
	}
}

func (d *decoder) date(field string) (models.Date, error) {
	var dt models.Date
	var err error
	if dt.Month, err = d.u8(field + " month"); err != nil {
		return dt, err
	}
	if dt.Day, err = d.u8(field + " day"); err != nil {
		return dt, err
	}
	if dt.Year, err = d.u64(field + " year"); err != nil {
		return dt, err
	}
	return dt, nil
}

func (d *decoder) order(o *models.Order) error {
	var err error
	if o.DatePlaced, err = d.date("date placed"); err != nil {
		return err
	}
	if o.DateShipped, err = d.date("date shipped"); err != nil {
		return err
	}
	if o.Subtotal, err = d.cents("subtotal"); err != nil {
		return err
	}
	if o.Total, err = d.cents("total"); err != nil {
		return err
	}
	n, err := d.count("line item count", minLineItemSize)
	if err != nil {
		return err
	}
	o.Products = make([]models.LineItem, n)
	for i := range o.Products {
		if err := d.product(&o.Products[i].Product, 1); err != nil {
			return err
		}
		if o.Products[i].PaidAmount, err = d.cents("paid amount"); err != nil {
			return err
		}
	}
	o.Notes, err = d.str("notes")
	return err
}

func (d *decoder) product(p *models.Product, depth int) error {
	if depth > MaxDepth {
		return d.fail("product", ErrTooDeep)
	}
	var err error
	if p.Name, err = d.str("product name"); err != nil {
		return err
	}
	if p.Description, err = d.str("product description"); err != nil {
		return err
	}
	if p.BasePrice, err = d.cents("base price"); err != nil {
		return err
	}
	if p.StickerPrice, err = d.cents("sticker price"); err != nil {
		return err
	}

	present, err := d.tag("items tag")
	if err != nil {
		return err
	}
	if present {
		n, err := d.count("item count", minProductSize)
		if err != nil {
			return err
		}
		items := make([]models.Product, n)
		for i := range items {
			if err := d.product(&items[i], depth+1); err != nil {
				return err
			}
		}
		p.Items = models.Some(items)
	}

	present, err = d.tag("add-ons tag")
	if err != nil {
		return err
	}
	if present {
		n, err := d.count("add-on count", minAddOnSize)
		if err != nil {
			return err
		}
		addOns := make([]models.AddOn, n)
		for i := range addOns {
			if err := d.addOn(&addOns[i], depth); err != nil {
				return err
			}
		}
		p.AddOns = models.Some(addOns)
	}
	return nil
}

func (d *decoder) addOn(a *models.AddOn, depth int) error {
	var err error
	if a.Name, err = d.str("add-on name"); err != nil {
		return err
	}
	if a.Description, err = d.str("add-on description"); err != nil {
		return err
	}
	if a.StickerPrice, err = d.cents("add-on sticker price"); err != nil {
		return err
	}
	if a.ActualPrice, err = d.cents("add-on actual price"); err != nil {
		return err
	}
	present, err := d.tag("associated product tag")
	if err != nil {
		return err
	}
	if present {
		var assoc models.Product
		if err := d.product(&assoc, depth+1); err != nil {
			return err
		}
		a.AssocProduct = models.Some(assoc)
	}
	return nil
}
