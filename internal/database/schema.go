package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password      VARCHAR(255) NOT NULL,
		phone_number  VARCHAR(32)  NOT NULL,
		address       VARCHAR(255) NOT NULL,
		city          VARCHAR(100) NOT NULL,
		state         VARCHAR(100) NOT NULL,
		zip_code      VARCHAR(20)  NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'customer' CHECK (role IN ('admin', 'customer')),
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		last_login    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id             SERIAL PRIMARY KEY,
		user_id        INTEGER       NOT NULL UNIQUE REFERENCES users(id),
		account_number VARCHAR(16)   NOT NULL UNIQUE,
		account_type   VARCHAR(16)   NOT NULL DEFAULT 'savings' CHECK (account_type IN ('savings', 'checking', 'fixed_deposit')),
		balance        NUMERIC(15,2) NOT NULL DEFAULT 0.00,
		is_active      BOOLEAN       NOT NULL DEFAULT TRUE,
		kyc_verified   BOOLEAN       NOT NULL DEFAULT FALSE,
		version        INTEGER       NOT NULL DEFAULT 1,
		date_opened    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		last_activity  TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS beneficiaries (
		id             SERIAL PRIMARY KEY,
		account_id     INTEGER       NOT NULL REFERENCES accounts(id),
		name           VARCHAR(255)  NOT NULL,
		account_number VARCHAR(64)   NOT NULL,
		bank_name      VARCHAR(255)  NOT NULL,
		transfer_limit NUMERIC(15,2) NOT NULL DEFAULT 10000.00,
		nickname       VARCHAR(100),
		is_active      BOOLEAN       NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS beneficiaries_account_id_idx ON beneficiaries (account_id)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id               SERIAL PRIMARY KEY,
		account_id       INTEGER       NOT NULL REFERENCES accounts(id),
		transaction_type VARCHAR(16)   NOT NULL CHECK (transaction_type IN ('deposit', 'withdrawal', 'transfer', 'fee')),
		amount           NUMERIC(15,2) NOT NULL CHECK (amount > 0),
		description      VARCHAR(255),
		reference        VARCHAR(64),
		to_account       VARCHAR(64),
		from_account     VARCHAR(64),
		balance_after    NUMERIC(15,2) NOT NULL,
		status           VARCHAR(16)   NOT NULL DEFAULT 'completed' CHECK (status IN ('pending', 'completed', 'failed', 'cancelled')),
		performed_by     INTEGER       NOT NULL,
		idempotency_key  VARCHAR(128),
		created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_account_created_idx ON transactions (account_id, created_at DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS transactions_idempotency_idx
		ON transactions (account_id, idempotency_key) WHERE idempotency_key IS NOT NULL`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
