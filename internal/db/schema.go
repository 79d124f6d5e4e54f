package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables if they are missing, it is safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS public.app_user
(
    id            SERIAL PRIMARY KEY,
    name          VARCHAR NOT NULL,
    email         VARCHAR NOT NULL,
    img           VARCHAR,
    age           INTEGER,
    password_hash VARCHAR NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT app_user_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS public.workout
(
    id              SERIAL PRIMARY KEY,
    owner_id        INTEGER NOT NULL REFERENCES public.app_user (id) ON DELETE CASCADE,
    category        VARCHAR NOT NULL,
    name            VARCHAR NOT NULL,
    sets            INTEGER NOT NULL DEFAULT 0,
    reps            INTEGER NOT NULL DEFAULT 0,
    weight          DOUBLE PRECISION NOT NULL DEFAULT 0,
    duration        DOUBLE PRECISION NOT NULL DEFAULT 0,
    calories_burned DOUBLE PRECISION NOT NULL DEFAULT 0,
    date            DATE NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT workout_owner_name_key UNIQUE (owner_id, name)
);

CREATE INDEX IF NOT EXISTS ix_workout_owner_date ON public.workout (owner_id, date);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
