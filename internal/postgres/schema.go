package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id            TEXT PRIMARY KEY,
	position      INT NOT NULL DEFAULT 0,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	icon          TEXT NOT NULL DEFAULT '',
	color         TEXT NOT NULL DEFAULT '',
	course_count  INT NOT NULL DEFAULT 0,
	subcategories TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS courses (
	id                  TEXT PRIMARY KEY,
	position            INT NOT NULL DEFAULT 0,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	instructor          TEXT NOT NULL,
	instructor_avatar   TEXT NOT NULL DEFAULT '',
	category            TEXT NOT NULL,
	level               TEXT NOT NULL,
	price               DOUBLE PRECISION NOT NULL DEFAULT 0,
	original_price      DOUBLE PRECISION,
	discount_percentage INT NOT NULL DEFAULT 0,
	rating              DOUBLE PRECISION NOT NULL DEFAULT 0,
	reviews_count       INT NOT NULL DEFAULT 0,
	students_enrolled   INT NOT NULL DEFAULT 0,
	duration            TEXT NOT NULL DEFAULT '',
	lectures            INT NOT NULL DEFAULT 0,
	thumbnail           TEXT NOT NULL DEFAULT '',
	image               TEXT NOT NULL DEFAULT '',
	last_updated        TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_bestseller       BOOLEAN NOT NULL DEFAULT false,
	is_new              BOOLEAN NOT NULL DEFAULT false,
	is_featured         BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS activity_log (
	event_id       UUID PRIMARY KEY,
	event_type     TEXT NOT NULL,
	device_id      TEXT NOT NULL,
	producer       TEXT NOT NULL,
	payload        JSONB NOT NULL,
	occurred_at    TIMESTAMPTZ NOT NULL,
	recorded_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS activity_log_device_idx ON activity_log (device_id, occurred_at);
`

// EnsureSchema creates the catalog and activity tables when missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
