package store

import (
	"slices"

	"purchase-tracker/internal/models"
)

type Mode int

const (
	ModeNew Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "new"
}

// Session is one run against a store: the orders read at the start, any
// appended since, and the file they will all be written to.
type Session struct {
	mode   Mode
	source string
	target string
	orders []models.Order
}

// CreateNew starts an empty store destined for target, which must not exist.
func CreateNew(target string) (*Session, error) {
	if err := checkAbsent(target); err != nil {
		return nil, err
	}
	return &Session{mode: ModeNew, target: target, orders: []models.Order{}}, nil
}

// OpenUpdate loads source and prepares to write it, with whatever gets
// appended, to target. All path checks run before source is read.
func OpenUpdate(source, target string) (*Session, error) {
	same, err := samePath(source, target)
	if err != nil {
		return nil, err
	}
	if same {
		return nil, &PathError{Op: "update", Path: target, Err: ErrSamePath}
	}
	if err := checkAbsent(target); err != nil {
		return nil, err
	}
	if err := checkPresent(source); err != nil {
		return nil, err
	}

	orders, err := Load(source)
	if err != nil {
		return nil, err
	}
	return &Session{mode: ModeUpdate, source: source, target: target, orders: orders}, nil
}

func (s *Session) Mode() Mode     { return s.mode }
func (s *Session) Source() string { return s.source }
func (s *Session) Target() string { return s.target }
func (s *Session) Len() int       { return len(s.orders) }

// Orders returns a copy of the orders held by the session.
func (s *Session) Orders() []models.Order {
	return slices.Clone(s.orders)
}

func (s *Session) Append(orders ...models.Order) {
	s.orders = append(s.orders, orders...)
}

// Save writes every order to the target in one go.
func (s *Session) Save() error {
	return Write(s.target, s.orders)
}
