package models

// Product is one purchasable thing. BasePrice excludes add-ons and
// StickerPrice includes them; neither has to agree with the prices of Items
// or AddOns, since bundles are often priced below their parts.
type Product struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	BasePrice    Cents               `json:"base_price"`
	StickerPrice Cents               `json:"sticker_price"`
	Items        Optional[[]Product] `json:"items"`
	AddOns       Optional[[]AddOn]   `json:"add_ons"`
}

// AddOn is an extra attached to a Product. StickerPrice and ActualPrice are
// the add-on's own prices, never those of AssocProduct.
type AddOn struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	StickerPrice Cents             `json:"sticker_price"`
	ActualPrice  Cents             `json:"actual_price"`
	AssocProduct Optional[Product] `json:"assoc_product"`
}

// Depth is the number of Product levels in the tree rooted at p, counting
// both sub-items and products associated with add-ons.
func (p Product) Depth() int {
	deepest := 0
	if items, ok := p.Items.Get(); ok {
		for _, item := range items {
			deepest = max(deepest, item.Depth())
		}
	}
	if addOns, ok := p.AddOns.Get(); ok {
		for _, a := range addOns {
			if assoc, ok := a.AssocProduct.Get(); ok {
				deepest = max(deepest, assoc.Depth())
			}
		}
	}
	return deepest + 1
}

func (p Product) Equal(o Product) bool {
	if p.Name != o.Name || p.Description != o.Description ||
		p.BasePrice != o.BasePrice || p.StickerPrice != o.StickerPrice {
		return false
	}
	return optionalSliceEqual(p.Items, o.Items, Product.Equal) &&
		optionalSliceEqual(p.AddOns, o.AddOns, AddOn.Equal)
}

func (a AddOn) Equal(o AddOn) bool {
	if a.Name != o.Name || a.Description != o.Description ||
		a.StickerPrice != o.StickerPrice || a.ActualPrice != o.ActualPrice {
		return false
	}
	mine, ok1 := a.AssocProduct.Get()
	theirs, ok2 := o.AssocProduct.Get()
	if ok1 != ok2 {
		return false
	}
	return !ok1 || mine.Equal(theirs)
}

func optionalSliceEqual[T any](a, b Optional[[]T], eq func(T, T) bool) bool {
	x, ok1 := a.Get()
	y, ok2 := b.Get()
	if ok1 != ok2 {
		return false
	}
	return sliceEqual(x, y, eq)
}

func sliceEqual[T any](x, y []T, eq func(T, T) bool) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !eq(x[i], y[i]) {
			return false
		}
	}
	return true
}
