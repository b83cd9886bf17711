// Package redis connects go-redis clients with retry and exposes a
// readiness probe.
package redis
