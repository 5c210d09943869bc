package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates every table the discovery store reads. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS continents (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS countries (
	id           BIGSERIAL PRIMARY KEY,
	continent_id BIGINT NOT NULL REFERENCES continents(id),
	name         TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS cities (
	id         BIGSERIAL PRIMARY KEY,
	country_id BIGINT NOT NULL REFERENCES countries(id),
	name       TEXT NOT NULL,
	UNIQUE (country_id, name)
);
CREATE INDEX IF NOT EXISTS cities_country_idx ON cities (country_id);

CREATE TABLE IF NOT EXISTS styles (
	id        BIGSERIAL PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS profiles (
	user_id                   BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	display_name              TEXT,
	handle                    TEXT UNIQUE,
	profile_picture_file      TEXT,
	home_city_id              BIGINT REFERENCES cities(id),
	active_city_id            BIGINT REFERENCES cities(id),
	role                      TEXT CHECK (role IN ('leader', 'follower', 'both')),
	skill_level               TEXT CHECK (skill_level IN ('beginner', 'intermediate', 'advanced', 'professional')),
	is_teacher                BOOLEAN NOT NULL DEFAULT FALSE,
	is_dj                     BOOLEAN NOT NULL DEFAULT FALSE,
	is_photographer           BOOLEAN NOT NULL DEFAULT FALSE,
	is_event_organizer        BOOLEAN NOT NULL DEFAULT FALSE,
	open_to_meet_travelers    BOOLEAN NOT NULL DEFAULT FALSE,
	seeking_practice_partners BOOLEAN NOT NULL DEFAULT FALSE,
	liked_by_count            INTEGER NOT NULL DEFAULT 0,
	is_complete               BOOLEAN NOT NULL DEFAULT FALSE,
	created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS profiles_home_city_idx ON profiles (home_city_id) WHERE is_complete;
CREATE INDEX IF NOT EXISTS profiles_active_city_idx ON profiles (active_city_id) WHERE is_complete;

CREATE TABLE IF NOT EXISTS profile_styles (
	user_id  BIGINT NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
	style_id BIGINT NOT NULL REFERENCES styles(id),
	level    TEXT,
	PRIMARY KEY (user_id, style_id)
);
CREATE INDEX IF NOT EXISTS profile_styles_style_idx ON profile_styles (style_id);

CREATE TABLE IF NOT EXISTS connections (
	id             BIGSERIAL PRIMARY KEY,
	user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	target_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status         TEXT NOT NULL CHECK (status IN ('pending', 'accepted', 'rejected', 'disconnected')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, target_user_id)
);

CREATE TABLE IF NOT EXISTS trips (
	id                 BIGSERIAL PRIMARY KEY,
	user_id            BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	city_id            BIGINT NOT NULL REFERENCES cities(id),
	start_date         DATE NOT NULL,
	end_date           DATE NOT NULL,
	share_with_friends BOOLEAN NOT NULL DEFAULT FALSE,
	CHECK (end_date >= start_date)
);
CREATE INDEX IF NOT EXISTS trips_user_idx ON trips (user_id, end_date);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
