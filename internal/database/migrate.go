package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations contains the full schema as idempotent CREATE TABLE
// statements, executed in order at startup.  The UNIQUE KEY on
// users.email is load-bearing: account provisioning for external
// logins does a check-then-create, and this constraint is what turns
// a concurrent duplicate create into a detectable conflict instead
// of a second row.  Likewise the UNIQUE KEY on votes(post_id, user_id)
// backs the vote upsert.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(120)    NOT NULL,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		is_active     TINYINT(1)      NOT NULL DEFAULT 1,
		is_superuser  TINYINT(1)      NOT NULL DEFAULT 0,
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email),
		KEY idx_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS boards (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name        VARCHAR(120)    NOT NULL,
		description VARCHAR(500)    NULL,
		manager_id  BIGINT UNSIGNED NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_boards_name (name),
		CONSTRAINT fk_boards_manager FOREIGN KEY (manager_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title      VARCHAR(300)    NOT NULL,
		content    MEDIUMTEXT      NOT NULL,
		owner_id   BIGINT UNSIGNED NOT NULL,
		board_id   BIGINT UNSIGNED NOT NULL,
		is_sticky  TINYINT(1)      NOT NULL DEFAULT 0,
		is_elite   TINYINT(1)      NOT NULL DEFAULT 0,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_posts_board_created (board_id, created_at),
		CONSTRAINT fk_posts_owner FOREIGN KEY (owner_id) REFERENCES users(id),
		CONSTRAINT fk_posts_board FOREIGN KEY (board_id) REFERENCES boards(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		post_id    BIGINT UNSIGNED NOT NULL,
		owner_id   BIGINT UNSIGNED NOT NULL,
		content    TEXT            NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_comments_post_created (post_id, created_at),
		CONSTRAINT fk_comments_post FOREIGN KEY (post_id) REFERENCES posts(id),
		CONSTRAINT fk_comments_owner FOREIGN KEY (owner_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS votes (
		post_id    BIGINT UNSIGNED NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		value      TINYINT         NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (post_id, user_id),
		CONSTRAINT fk_votes_post FOREIGN KEY (post_id) REFERENCES posts(id),
		CONSTRAINT fk_votes_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statements one by one.  Every statement is
// idempotent so running it on every boot is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
