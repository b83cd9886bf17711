// Package pg bootstraps PostgreSQL access on pgx/v5.
//
// Connect opens a pool and pings it, retrying with exponential backoff while
// the database comes up. Migrate applies goose migrations from any fs.FS,
// usually an embed.FS owned by the package that defines the schema.
// Healthcheck plugs the pool into the readiness endpoint.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
//		return err
//	}
//
// Error helpers such as IsDuplicateKeyError classify *pgconn.PgError values
// by SQLSTATE.
package pg
