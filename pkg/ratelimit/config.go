package ratelimit

import "time"

// Config holds the sliding-window parameters shared by all backends.
type Config struct {
	// MaxRequests is the admission quota per identity per window.
	MaxRequests int

	// Window is the trailing interval requests are counted over.
	Window time.Duration

	// KeyPrefix namespaces limiter keys in the backing store.
	KeyPrefix string
}

// GraceTTL is how long an idle identity's window survives in the store
// past the window itself before the store may discard it.
const GraceTTL = 10 * time.Second

// DefaultConfig returns the production defaults: 3 requests per 60 seconds.
func DefaultConfig() *Config {
	return &Config{
		MaxRequests: 3,
		Window:      60 * time.Second,
		KeyPrefix:   "rate_limit:",
	}
}

// RetentionTTL is the expiry applied to an identity's window key on each
// admitted request.
func (c *Config) RetentionTTL() time.Duration {
	return c.Window + GraceTTL
}
