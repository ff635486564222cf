package models_test

import (
	"encoding/json"
	"testing"

	"purchase-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsString(t *testing.T) {
	assert.Equal(t, "$0.00", models.Cents(0).String())
	assert.Equal(t, "$0.05", models.Cents(5).String())
	assert.Equal(t, "$19.99", models.Cents(1999).String())
	assert.Equal(t, "$1000.10", models.Cents(100010).String())
}

func TestDate(t *testing.T) {
	d := models.NewDate(2, 31, 2024)
	assert.Equal(t, "2/31/2024", d.String())
	assert.False(t, d.IsZero(), "calendar legality is not checked")
	assert.True(t, models.NewDate(0, 1, 2024).IsZero())
	assert.True(t, models.NewDate(1, 1, 0).IsZero())
}

func TestOptional(t *testing.T) {
	var absent models.Optional[int]
	_, ok := absent.Get()
	assert.False(t, ok)
	assert.Equal(t, 7, absent.OrElse(7))

	present := models.Some(3)
	v, ok := present.Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, present.OrElse(7))

	assert.Equal(t, absent, models.None[int]())
}

func TestOptionalJSON(t *testing.T) {
	p := models.Product{
		Name:  "Kit",
		Items: models.Some([]models.Product{}),
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
	assert.Contains(t, string(data), `"add_ons":null`)

	var back models.Product
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Items.Present())
	assert.False(t, back.AddOns.Present())
	assert.True(t, p.Equal(back))
}

func TestEqual_DistinguishesPresence(t *testing.T) {
	absent := models.Product{Name: "Lamp"}
	empty := models.Product{Name: "Lamp", AddOns: models.Some([]models.AddOn{})}
	nilSlice := models.Product{Name: "Lamp", AddOns: models.Some[[]models.AddOn](nil)}

	assert.False(t, absent.Equal(empty))
	assert.True(t, empty.Equal(nilSlice))

	withAssoc := models.AddOn{Name: "Bulb", AssocProduct: models.Some(models.Product{Name: "LED"})}
	withoutAssoc := models.AddOn{Name: "Bulb"}
	assert.False(t, withAssoc.Equal(withoutAssoc))
	assert.True(t, withAssoc.Equal(withAssoc))
}

func TestOrderEqual(t *testing.T) {
	a := models.Order{
		Subtotal: 100,
		Total:    50,
		Products: []models.LineItem{{Product: models.Product{Name: "Pen"}, PaidAmount: 100}},
	}
	b := a
	b.Products = []models.LineItem{{Product: models.Product{Name: "Pen"}, PaidAmount: 99}}

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
	assert.True(t, models.OrdersEqual(nil, []models.Order{}))
	assert.False(t, models.OrdersEqual([]models.Order{a}, []models.Order{b}))
}

func TestProductDepth(t *testing.T) {
	leaf := models.Product{Name: "leaf"}
	assert.Equal(t, 1, leaf.Depth())

	viaAddOn := models.Product{
		AddOns: models.Some([]models.AddOn{{AssocProduct: models.Some(models.Product{
			Items: models.Some([]models.Product{leaf}),
		})}}),
	}
	assert.Equal(t, 3, viaAddOn.Depth())
}
