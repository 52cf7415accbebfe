package hwpxfill

import "errors"

var (
	// ErrCellNotFound is returned when no address marker matches the coordinate.
	ErrCellNotFound = errors.New("cell not found")

	// ErrMalformedDocument is returned when the enclosing <hp:tc> boundaries
	// cannot be found around an address marker.
	ErrMalformedDocument = errors.New("malformed document: unbalanced cell boundaries")

	// ErrNestedCell is returned when the boundary scan crosses another cell,
	// i.e. the cell contains a nested table.
	ErrNestedCell = errors.New("nested cell: boundary scan crossed another <hp:tc>")

	// ErrSourceUnavailable wraps failures opening an archive or spreadsheet.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrPartNotFound is returned when an archive lacks the requested part.
	ErrPartNotFound = errors.New("archive part not found")
)
