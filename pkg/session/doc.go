// Package session manages opaque session secrets.
//
// Two halves live here. The transport carries the secret between browser
// and server in the "appwrite-session" cookie with fixed attributes
// (Path=/, HttpOnly, SameSite=Strict, Secure). The store keeps server-side
// session records for self-hosted deployments; records are keyed by the
// SHA-256 hash of the secret so a leaked store never yields usable cookies.
//
// Stores:
//
//	store := session.NewMemoryStore(5 * time.Minute) // background cleanup
//	defer store.Close()
//
//	store := session.NewRedisStore(rdb, session.WithKeyPrefix("drive:session:"))
package session
