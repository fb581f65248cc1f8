package database

import (
	"context"
	"database/sql"
)

// schema contains the DDL for every table the API touches. Statements are
// idempotent so EnsureSchema can run on every startup. Display IDs
// (display_id columns) are human-facing sequential numbers allocated from the
// counters table; the auto-increment id columns stay internal.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(100) NOT NULL DEFAULT '',
		birth DATE NULL,
		gender TINYINT(1) NOT NULL DEFAULT 0,
		role ENUM('admin','user','guest') NOT NULL DEFAULT 'user',
		profile_image_url VARCHAR(512) NOT NULL DEFAULT '',
		thumbnail_image_url VARCHAR(512) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_refresh_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name VARCHAR(32) PRIMARY KEY,
		seq BIGINT UNSIGNED NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS stadiums (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		display_id BIGINT UNSIGNED NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		province VARCHAR(100) NOT NULL DEFAULT '',
		city VARCHAR(100) NOT NULL,
		district VARCHAR(100) NOT NULL,
		address VARCHAR(255) NOT NULL,
		shower TINYINT(1) NOT NULL DEFAULT 0,
		free_parking TINYINT(1) NOT NULL DEFAULT 0,
		shoes_rental TINYINT(1) NOT NULL DEFAULT 0,
		vest_rental TINYINT(1) NOT NULL DEFAULT 0,
		ball_rental TINYINT(1) NOT NULL DEFAULT 0,
		drink_sale TINYINT(1) NOT NULL DEFAULT 0,
		toilet_gender_division TINYINT(1) NOT NULL DEFAULT 0,
		image_url VARCHAR(512) NOT NULL DEFAULT '',
		thumbnail_url VARCHAR(512) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sub_fields (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		display_id BIGINT UNSIGNED NOT NULL UNIQUE,
		stadium_id BIGINT UNSIGNED NOT NULL,
		field_name VARCHAR(100) NOT NULL,
		width INT UNSIGNED NOT NULL,
		height INT UNSIGNED NOT NULL,
		indoor TINYINT(1) NOT NULL DEFAULT 0,
		surface VARCHAR(50) NOT NULL DEFAULT 'grass',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_subfield_stadium (stadium_id)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		display_id BIGINT UNSIGNED NOT NULL UNIQUE,
		sub_field_id BIGINT UNSIGNED NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		duration_minutes INT UNSIGNED NOT NULL,
		level VARCHAR(50) NOT NULL DEFAULT '',
		gender VARCHAR(20) NOT NULL DEFAULT '',
		match_format VARCHAR(20) NOT NULL DEFAULT '',
		theme VARCHAR(50) NOT NULL DEFAULT '',
		fee INT UNSIGNED NOT NULL DEFAULT 0,
		minimum_players INT UNSIGNED NOT NULL DEFAULT 0,
		maximum_players INT UNSIGNED NOT NULL,
		current_players INT UNSIGNED NOT NULL DEFAULT 0,
		spots_left INT UNSIGNED NOT NULL DEFAULT 0,
		is_full TINYINT(1) NOT NULL DEFAULT 0,
		application_deadline_minutes_before INT UNSIGNED NOT NULL DEFAULT 10,
		status ENUM('recruiting','closed','cancelled') NOT NULL DEFAULT 'recruiting',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_match_subfield_time (sub_field_id, starts_at, ends_at),
		INDEX idx_match_starts (starts_at)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		match_id BIGINT UNSIGNED NOT NULL,
		status ENUM('active','cancelled') NOT NULL DEFAULT 'active',
		reserved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_reservation_match (match_id, status),
		INDEX idx_reservation_user (user_id, status)
	)`,
}

// EnsureSchema creates any missing tables. It is safe to call on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
