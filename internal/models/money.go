package models

import "fmt"

// Cents is an amount of money in minor currency units.
type Cents uint64

// String renders the amount as dollars, e.g. $21.49.
func (c Cents) String() string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}
