package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCoverage indicates that some request has no eligible provider.
	// The concrete error is a *MissingCoverageError.
	ErrMissingCoverage = errors.New("missing coverage")

	// ErrInfeasible indicates that every request is individually coverable but
	// pinned requests cannot be assigned distinct providers.
	ErrInfeasible = errors.New("requests cannot be satisfied together")
)

// MissingCoverageError names the first request no provider can serve.
type MissingCoverageError struct {
	Index   int
	Request RequestedCapability
	// Capability is the display name of Request.Kind.
	Capability string
}

func (e *MissingCoverageError) Error() string {
	return fmt.Sprintf("%v: no provider offers %d %s (request #%d)",
		ErrMissingCoverage, e.Request.Quality, e.Capability, e.Index+1)
}

func (e *MissingCoverageError) Unwrap() error {
	return ErrMissingCoverage
}
