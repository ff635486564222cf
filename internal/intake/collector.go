// Package intake builds orders out of answers from a Provider.
package intake

import (
	"fmt"

	"purchase-tracker/internal/models"
)

// Provider hands out already validated values, one per question.
type Provider interface {
	Text(question string) (string, error)
	Uint(question string) (uint64, error)
	YesNo(question string) (bool, error)
	Count(question string) (int, error)
	Date(question string) (models.Date, error)
}

// Collector asks the questions for an order, recursing into sub-items,
// add-ons and associated products as the answers demand.
type Collector struct {
	in Provider
}

func NewCollector(in Provider) *Collector {
	return &Collector{in: in}
}

func (c *Collector) Order() (models.Order, error) {
	var o models.Order
	var err error

	if o.DatePlaced, err = c.in.Date("Date the order was placed (MM/DD/YYYY)? Illegal dates are not rejected."); err != nil {
		return o, err
	}
	if o.DateShipped, err = c.in.Date("Date the order was shipped (MM/DD/YYYY)?"); err != nil {
		return o, err
	}
	if o.Subtotal, err = c.cents("Subtotal in cents (after coupons and sales, before shipping and taxes)?"); err != nil {
		return o, err
	}
	if o.Total, err = c.cents("Total in cents (the amount actually paid)?"); err != nil {
		return o, err
	}

	n, err := c.in.Count("How many products were ordered?")
	if err != nil {
		return o, err
	}
	o.Products = []models.LineItem{}
	for i := 0; i < n; i++ {
		p, err := c.Product(fmt.Sprintf("product %d", i))
		if err != nil {
			return o, err
		}
		paid, err := c.cents(fmt.Sprintf("Amount paid in cents for %s, after its add-ons and sales?", p.Name))
		if err != nil {
			return o, err
		}
		o.Products = append(o.Products, models.LineItem{Product: p, PaidAmount: paid})
	}

	if o.Notes, err = c.in.Text("Any other notes for this order?"); err != nil {
		return o, err
	}
	return o, nil
}

// Product collects one product. label names it in the questions, e.g.
// "product 0" or "sub-item 2 of Desk".
func (c *Collector) Product(label string) (models.Product, error) {
	var p models.Product
	var err error

	if p.Name, err = c.in.Text(fmt.Sprintf("Name of %s?", label)); err != nil {
		return p, err
	}
	if p.Description, err = c.in.Text(fmt.Sprintf("Description of %s?", p.Name)); err != nil {
		return p, err
	}
	if p.BasePrice, err = c.cents(fmt.Sprintf("Price of %s in cents, excluding add-ons and sales?", p.Name)); err != nil {
		return p, err
	}
	if p.StickerPrice, err = c.cents(fmt.Sprintf("Price of %s in cents, including add-ons but excluding sales?", p.Name)); err != nil {
		return p, err
	}

	hasItems, err := c.in.YesNo(fmt.Sprintf("Does %s have sub-items?", p.Name))
	if err != nil {
		return p, err
	}
	if hasItems {
		n, err := c.in.Count(fmt.Sprintf("How many sub-items does %s have?", p.Name))
		if err != nil {
			return p, err
		}
		items := []models.Product{}
		for i := 0; i < n; i++ {
			item, err := c.Product(fmt.Sprintf("sub-item %d of %s", i, p.Name))
			if err != nil {
				return p, err
			}
			items = append(items, item)
		}
		p.Items = models.Some(items)
	}

	hasAddOns, err := c.in.YesNo(fmt.Sprintf("Does %s have add-ons?", p.Name))
	if err != nil {
		return p, err
	}
	if hasAddOns {
		n, err := c.in.Count(fmt.Sprintf("How many add-ons does %s have?", p.Name))
		if err != nil {
			return p, err
		}
		addOns := []models.AddOn{}
		for i := 0; i < n; i++ {
			a, err := c.AddOn(fmt.Sprintf("add-on %d of %s", i, p.Name))
			if err != nil {
				return p, err
			}
			addOns = append(addOns, a)
		}
		p.AddOns = models.Some(addOns)
	}
	return p, nil
}

func (c *Collector) AddOn(label string) (models.AddOn, error) {
	var a models.AddOn
	var err error

	if a.Name, err = c.in.Text(fmt.Sprintf("Name of %s?", label)); err != nil {
		return a, err
	}
	if a.Description, err = c.in.Text(fmt.Sprintf("Description of %s?", a.Name)); err != nil {
		return a, err
	}
	if a.StickerPrice, err = c.cents(fmt.Sprintf("Usual price of the add-on %s in cents (not the price of its associated product)?", a.Name)); err != nil {
		return a, err
	}
	if a.ActualPrice, err = c.cents(fmt.Sprintf("Price of the add-on %s in cents after discounts?", a.Name)); err != nil {
		return a, err
	}

	hasAssoc, err := c.in.YesNo(fmt.Sprintf("Does %s come with an associated product?", a.Name))
	if err != nil {
		return a, err
	}
	if hasAssoc {
		p, err := c.Product(fmt.Sprintf("the product associated with %s", a.Name))
		if err != nil {
			return a, err
		}
		a.AssocProduct = models.Some(p)
	}
	return a, nil
}

func (c *Collector) cents(question string) (models.Cents, error) {
	v, err := c.in.Uint(question)
	return models.Cents(v), err
}
