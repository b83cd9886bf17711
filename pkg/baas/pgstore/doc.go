// Package pgstore is a PostgreSQL document store for the embedded platform.
// Documents live in a single JSONB table; equality filters use containment so
// the GIN index serves them. Uniqueness is enforced by a constraint on a
// per-collection key derived from the configured indexes.
//
//	pool, _ := pg.Connect(ctx, cfg)
//	_ = pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log)
//	docs := pgstore.New(pool, usersIndex)
package pgstore
