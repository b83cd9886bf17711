// Package mongo connects the official MongoDB driver with retry and exposes
// a readiness probe.
package mongo
