package db

import (
	"database/sql"
	"fmt"
)

// Statements are idempotent; ApplySchema runs on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone_number TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		img_avatar_url TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'client' CHECK (role IN ('client', 'staff', 'admin')),
		verification_code TEXT NOT NULL DEFAULT '',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		points INTEGER NOT NULL DEFAULT 0,
		discount_code TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		image_url TEXT NOT NULL DEFAULT '',
		rating NUMERIC(3,1) NOT NULL DEFAULT 0,
		category_id BIGINT NOT NULL REFERENCES categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS menu_item_options (
		id BIGSERIAL PRIMARY KEY,
		menu_item_id BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS tables (
		id BIGSERIAL PRIMARY KEY,
		table_number TEXT NOT NULL UNIQUE,
		table_type TEXT NOT NULL CHECK (table_type IN ('indoor', 'outdoor', 'vip')),
		seats INTEGER NOT NULL CHECK (seats > 0),
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'occupied', 'reserved')),
		is_available BOOLEAN NOT NULL DEFAULT FALSE,
		qr_code TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		table_id BIGINT NOT NULL REFERENCES tables(id),
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'preparing', 'ready', 'delivered', 'cancelled')),
		total_price NUMERIC(10,2) NOT NULL CHECK (total_price >= 0),
		reservation_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id BIGINT NOT NULL REFERENCES menu_items(id),
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		note TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS order_item_options (
		id BIGSERIAL PRIMARY KEY,
		order_item_id BIGINT NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
		option_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_category_id ON menu_items(category_id)`,
}

// ApplySchema creates the tables the application needs if they do not exist.
func ApplySchema(conn *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
