package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the source path does not exist.
	ErrNotFound = errors.New("order store not found")
	// ErrInvalid means the source exists but is not an order store.
	ErrInvalid = errors.New("not a valid order store")
	// ErrTargetExists means a write would overwrite an existing file.
	ErrTargetExists = errors.New("target already exists")
	// ErrSamePath means an update would read and write the same file.
	ErrSamePath = errors.New("source and target are the same file")
)

// PathError records the operation and file a store failure happened on.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
