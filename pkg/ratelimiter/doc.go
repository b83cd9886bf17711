// Package ratelimiter provides token bucket rate limiting with memory and
// Redis storage and an HTTP middleware.
//
// A Bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each Allow consumes one token; a negative remainder means
// the call is denied.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     5,
//		RefillInterval: 15 * time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, "otp:"+email)
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		// retry after res.RetryAfter()
//	}
//
// Middleware applies a Bucket per request key (see ByIP) and answers 429
// with Retry-After once the bucket is empty.
package ratelimiter
