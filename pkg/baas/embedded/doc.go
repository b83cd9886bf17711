// Package embedded implements the baas contract in-process for self-hosted
// deployments.
//
// The Platform issues six-digit email passcodes, exchanges them for
// sessions and serves documents. State lives behind three interfaces so the
// same logic runs on memory for tests and development and on Postgres or
// MongoDB plus Redis in production:
//
//   - DocumentStore holds documents, including the reserved accounts
//     collection. See the pgstore and mongostore packages.
//   - ChallengeStore holds pending passcodes. See the redisstore package.
//   - session.Store holds issued sessions.
//
// Passcodes are never stored: challenges keep an HMAC of the code keyed by
// the platform secret and compare in constant time. A challenge is dropped
// after it expires, after it is redeemed, or after too many wrong codes.
// Every redemption reserves an attempt before the code is compared.
//
// Issuance is limited per email by a ratelimiter.Bucket; pass a shared store
// with WithRateLimitStore when running several replicas.
package embedded
