package models

import "fmt"

// Date is a calendar date as the user typed it. Calendar legality is never
// checked: 2/31/2024 is a valid Date.
type Date struct {
	Month uint8  `json:"month"`
	Day   uint8  `json:"day"`
	Year  uint64 `json:"year"`
}

func NewDate(month, day uint8, year uint64) Date {
	return Date{Month: month, Day: day, Year: year}
}

// IsZero reports whether any field is zero. Input providers refuse such dates;
// the model itself accepts them.
func (d Date) IsZero() bool {
	return d.Month == 0 || d.Day == 0 || d.Year == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Month, d.Day, d.Year)
}
