package ratelimiter

import "time"

// Result is the outcome of a rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative when denied
	ResetAt   time.Time // next refill
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed calls.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Config defines a token bucket. Load it with a prefix to keep several
// limiters apart, e.g. AUTH_RATELIMIT_CAPACITY.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"10"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return ErrInvalidConfig
	case c.RefillRate <= 0:
		return ErrInvalidConfig
	case c.RefillInterval <= 0:
		return ErrInvalidConfig
	}
	return nil
}
