package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrExport = errors.New("export failed")
	ErrNoPage = errors.New("no page renderer configured")
)
