package resolver

import "context"

// Resolver computes a Plan for a given Input.
//
// Implementations return either a Plan with at least one path, a
// *MissingCoverageError, or ErrInfeasible. Context cancellation aborts the
// search and returns the context error.
type Resolver interface {
	Resolve(ctx context.Context, in Input) (Plan, error)
}
