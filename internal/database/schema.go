package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied at startup; every statement is idempotent. The sessions
// table carries a unique index on the token value and an index on created_at
// for the reaper's age scans.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		names         VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL DEFAULT '',
		id_card       VARCHAR(64)  NOT NULL DEFAULT '',
		username      VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(16)  NOT NULL,
		active        TINYINT(1)   NOT NULL DEFAULT 1,
		locked        TINYINT(1)   NOT NULL DEFAULT 0,
		created_by    BIGINT       NOT NULL DEFAULT 1,
		modified_by   BIGINT       NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		modified_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT       NOT NULL,
		token      VARCHAR(512) NOT NULL,
		revoked    TINYINT(1)   NOT NULL DEFAULT 0,
		expired    TINYINT(1)   NOT NULL DEFAULT 0,
		created_at DATETIME     NOT NULL,
		UNIQUE KEY uq_sessions_token (token),
		KEY idx_sessions_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS json_contents (
		id          BIGINT AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(255)  NOT NULL,
		json        VARCHAR(2048) NOT NULL,
		path        VARCHAR(255)  NOT NULL DEFAULT '',
		created_by  BIGINT        NOT NULL DEFAULT 1,
		modified_by BIGINT        NOT NULL DEFAULT 1,
		created_at  DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		modified_at DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_json_contents_created_by (created_by),
		KEY idx_json_contents_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// EnsureFirstAdmin creates the bootstrap ADMIN principal when no account
// holds the ADMIN role yet. The password arrives already hashed.
func EnsureFirstAdmin(ctx context.Context, db *sql.DB, username, passwordHash string) error {
	var n int64
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role='ADMIN'").Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (names, username, password_hash, role, active, locked)
		 VALUES ('Administrator', ?, ?, 'ADMIN', 1, 0)`,
		username, passwordHash)
	return err
}
