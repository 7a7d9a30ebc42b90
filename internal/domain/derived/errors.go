package derived

import "errors"

// Sentinel kinds for derived metric errors.
var (
	ErrEmptyDataset = errors.New("empty dataset")
	ErrNotRanked    = errors.New("model not in ranked sequence")
	ErrUndefined    = errors.New("metric undefined for dataset")
)
