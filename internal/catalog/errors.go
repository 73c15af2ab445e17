package catalog

import "errors"

var (
	// ErrInvalidCatalog wraps every catalog construction failure.
	ErrInvalidCatalog = errors.New("invalid provider catalog")

	// ErrCycle indicates that following prerequisite links does not terminate.
	ErrCycle = errors.New("prerequisite cycle")

	// ErrUnsupportedVersion indicates the catalog data version is rejected by
	// the configured constraint.
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
)
