package receipt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchase-tracker/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func sampleOrder() models.Order {
	return models.Order{
		DatePlaced:  models.NewDate(1, 15, 2024),
		DateShipped: models.NewDate(1, 17, 2024),
		Subtotal:    1999,
		Total:       2149,
		Products: []models.LineItem{
			{Product: models.Product{Name: "Widget"}, PaidAmount: 1999},
			{Product: models.Product{Name: "Gift wrap"}, PaidAmount: 0},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("orders.bin", 3, sampleOrder())
	assert.Equal(t, "orders.bin", s.Store)
	assert.Equal(t, 3, s.Index)
	assert.Equal(t, "1/15/2024", s.DatePlaced)
	assert.Equal(t, models.Cents(2149), s.Total)
	assert.Equal(t, []Item{{Name: "Widget", Paid: 1999}, {Name: "Gift wrap", Paid: 0}}, s.Items)
}

func TestPNG_Plain(t *testing.T) {
	g := NewGenerator("", 128)
	png, err := g.PNG(Summarize("orders.bin", 0, sampleOrder()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	payload, err := g.Payload(Summarize("orders.bin", 0, sampleOrder()))
	require.NoError(t, err)
	assert.Contains(t, payload, `"name":"Widget"`)
}

func TestPayload_SealedRoundTrip(t *testing.T) {
	g := NewGenerator("s3cret", 256)
	want := Summarize("orders.bin", 1, sampleOrder())

	payload, err := g.Payload(want)
	require.NoError(t, err)
	assert.NotContains(t, payload, "Widget")

	got, err := g.Open(payload)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	png, err := g.PNG(want)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestOpen_Errors(t *testing.T) {
	g := NewGenerator("s3cret", 256)

	_, err := g.Open("not base64 !")
	assert.Error(t, err)

	_, err = g.Open("AAAA")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	other, err := NewGenerator("other", 256).Payload(Summarize("x", 0, models.Order{}))
	require.NoError(t, err)
	_, err = g.Open(other)
	assert.Error(t, err)
}
