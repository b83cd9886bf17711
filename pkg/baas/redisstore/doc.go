// Package redisstore keeps embedded platform passcode challenges in Redis.
// Challenges are hashes that expire with the passcode; attempts are
// incremented by a script so concurrent redemptions each reserve a distinct
// attempt.
package redisstore
