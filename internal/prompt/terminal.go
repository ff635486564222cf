// Package prompt reads answers from a line-oriented terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"purchase-tracker/internal/models"
)

// ErrInputClosed is returned when input ends before a question is answered.
var ErrInputClosed = errors.New("input closed before the question was answered")

// Terminal asks each question on out and reads one line per answer from in.
// Malformed answers are explained and asked again rather than failing.
type Terminal struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{scanner: bufio.NewScanner(in), out: out}
}

func (t *Terminal) say(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) line() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(t.scanner.Text()), nil
}

func (t *Terminal) Text(question string) (string, error) {
	t.say("%s", question)
	return t.line()
}

func (t *Terminal) Uint(question string) (uint64, error) {
	t.say("%s", question)
	for {
		answer, err := t.line()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseUint(answer, 10, 64)
		if err == nil {
			return v, nil
		}
		t.say("%q is not a whole number. Type digits only, no sign, decimal point or currency symbol.", answer)
	}
}

func (t *Terminal) Count(question string) (int, error) {
	t.say("%s", question)
	for {
		answer, err := t.line()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseUint(answer, 10, 64)
		if err == nil && v <= math.MaxInt32 {
			return int(v), nil
		}
		t.say("%q is not a usable count. Type a whole number.", answer)
	}
}

func (t *Terminal) YesNo(question string) (bool, error) {
	t.say("%s (Yes/No)", question)
	for {
		answer, err := t.line()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		t.say("Please type \"Yes\" or \"No\".")
	}
}

func (t *Terminal) Date(question string) (models.Date, error) {
	t.say("%s", question)
	for {
		answer, err := t.line()
		if err != nil {
			return models.Date{}, err
		}
		d, err := ParseDate(answer)
		if err == nil {
			return d, nil
		}
		t.say("%v. Use MM/DD/YYYY, e.g. 01/15/2024.", err)
	}
}

// ParseDate reads MM/DD/YYYY. Each part must be a positive number that fits
// its field; the combination is not checked against a calendar.
func ParseDate(s string) (models.Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return models.Date{}, fmt.Errorf("%q does not have three parts", s)
	}
	month, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
	if err != nil {
		return models.Date{}, fmt.Errorf("bad month %q", parts[0])
	}
	day, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
	if err != nil {
		return models.Date{}, fmt.Errorf("bad day %q", parts[1])
	}
	year, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return models.Date{}, fmt.Errorf("bad year %q", parts[2])
	}
	d := models.NewDate(uint8(month), uint8(day), year)
	if d.IsZero() {
		return models.Date{}, fmt.Errorf("%q has a zero month, day or year", s)
	}
	return d, nil
}
