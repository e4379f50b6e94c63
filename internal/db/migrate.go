package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the two tables if they are missing. users.places holds the
// owned place ids explicitly; the pair of columns (users.places, places.creator)
// is only ever mutated together inside one transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			image         TEXT NOT NULL DEFAULT '',
			places        TEXT[] NOT NULL DEFAULT '{}'
		)
	`)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS places (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			address     TEXT NOT NULL,
			lat         DOUBLE PRECISION NOT NULL,
			lng         DOUBLE PRECISION NOT NULL,
			image       TEXT NOT NULL DEFAULT '',
			creator     TEXT NOT NULL REFERENCES users(id)
		)
	`)

	return err
}
