package ratelimit

import "context"

// Limiter admits or rejects a request identity against the sliding-window
// quota. Implementations must be safe for concurrent use and must fail
// closed: if the backing store cannot be consulted, the request is rejected.
type Limiter interface {
	Allow(ctx context.Context, identity string) bool
}
