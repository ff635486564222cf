package render_test

import (
	"bytes"
	"errors"
	"testing"

	"purchase-tracker/internal/models"
	"purchase-tracker/internal/render"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Widget(t *testing.T) {
	o := models.Order{
		DatePlaced:  models.NewDate(1, 15, 2024),
		DateShipped: models.NewDate(1, 20, 2024),
		Subtotal:    1999,
		Total:       2149,
		Products: []models.LineItem{{
			Product:    models.Product{Name: "Widget", Description: "A widget", BasePrice: 1500, StickerPrice: 1999},
			PaidAmount: 1999,
		}},
		Notes: "gift",
	}

	want := `Placed: 1/15/2024
Shipped: 1/20/2024
Subtotal: $19.99
Total: $21.49
Products:
  0. paid $19.99
    Name: Widget
    Description: A widget
    Base Price: $15.00
    Sticker Price: $19.99
Notes: gift
`
	assert.Equal(t, want, render.OrderString(o))
}

func TestProduct_NestedIndentation(t *testing.T) {
	p := models.Product{
		Name:  "Kit",
		Items: models.Some([]models.Product{}),
		AddOns: models.Some([]models.AddOn{{
			Name:         "Case",
			StickerPrice: 5,
			ActualPrice:  4,
			AssocProduct: models.Some(models.Product{Name: "Strap"}),
		}}),
	}

	var buf bytes.Buffer
	assert.NoError(t, render.Product(&buf, p, 1))

	want := `  Name: Kit
  Description: 
  Base Price: $0.00
  Sticker Price: $0.00
  Sub-products:
  Add-ons:
    0.
      Name: Case
      Description: 
      Sticker Price: $0.05
      Actual Price: $0.04
      Associated Product:
        Name: Strap
        Description: 
        Base Price: $0.00
        Sticker Price: $0.00
`
	assert.Equal(t, want, buf.String())
}

func TestStore_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, render.Store(&buf, nil))
	assert.Equal(t, "(no orders)\n", buf.String())
}

func TestStore_Numbered(t *testing.T) {
	var buf bytes.Buffer
	orders := []models.Order{{Notes: "a"}, {Notes: "b"}}
	assert.NoError(t, render.Store(&buf, orders))
	assert.Contains(t, buf.String(), "0.\n  Placed: 0/0/0\n")
	assert.Contains(t, buf.String(), "1.\n")
	assert.Contains(t, buf.String(), "  Notes: b\n")
}

var errClosed = errors.New("closed pipe")

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestWriteErrorIsReturned(t *testing.T) {
	err := render.Order(brokenWriter{}, models.Order{})
	assert.ErrorIs(t, err, errClosed)

	err = render.AddOn(brokenWriter{}, models.AddOn{}, 0)
	assert.ErrorIs(t, err, errClosed)
}
