package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for dataset errors.
var (
	ErrNotFound       = errors.New("model not found")
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrDuplicateModel = errors.New("duplicate model")
)

// ValidationError lists every problem found in a dataset.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidDataset, e.Source, strings.Join(e.Problems, "; "))
}

// Unwrap lets errors.Is match ErrInvalidDataset.
func (e *ValidationError) Unwrap() error { return ErrInvalidDataset }
