package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"purchase-tracker/internal/codec"
	"purchase-tracker/internal/models"
)

// Load decodes the whole store at path.
func Load(path string) ([]models.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Op: "open", Path: path, Err: ErrNotFound}
		}
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	orders, err := codec.Decode(f)
	if err != nil {
		var decodeErr *codec.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, &PathError{Op: "decode", Path: path, Err: fmt.Errorf("%w: %w", ErrInvalid, err)}
		}
		return nil, &PathError{Op: "read", Path: path, Err: err}
	}
	return orders, nil
}

// Write encodes orders into a new file at path. An existing file is never
// touched. If anything fails after the file was created, it is removed again.
func Write(path string, orders []models.Order) (err error) {
	data, err := codec.Marshal(orders)
	if err != nil {
		return &PathError{Op: "encode", Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &PathError{Op: "create", Path: path, Err: ErrTargetExists}
		}
		return &PathError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(path)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err = f.Sync(); err != nil {
		return &PathError{Op: "sync", Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &PathError{Op: "close", Path: path, Err: err}
	}
	return nil
}

func checkAbsent(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return &PathError{Op: "create", Path: path, Err: ErrTargetExists}
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return &PathError{Op: "stat", Path: path, Err: err}
	}
}

func checkPresent(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &PathError{Op: "open", Path: path, Err: ErrNotFound}
	case err != nil:
		return &PathError{Op: "stat", Path: path, Err: err}
	case info.IsDir():
		return &PathError{Op: "open", Path: path, Err: fmt.Errorf("%w: is a directory", ErrInvalid)}
	}
	return nil
}

func samePath(source, target string) (bool, error) {
	a, err := filepath.Abs(source)
	if err != nil {
		return false, &PathError{Op: "resolve", Path: source, Err: err}
	}
	b, err := filepath.Abs(target)
	if err != nil {
		return false, &PathError{Op: "resolve", Path: target, Err: err}
	}
	if a == b {
		return true, nil
	}

	si, err := os.Stat(source)
	if err != nil {
		return false, nil
	}
	ti, err := os.Stat(target)
	if err != nil {
		return false, nil
	}
	return os.SameFile(si, ti), nil
}
