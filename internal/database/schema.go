package database

import (
	"context"
	"fmt"
)

// OrdersTableSQL holds placed orders. Items and the pricing snapshot are frozen as JSON.
const OrdersTableSQL = `CREATE TABLE IF NOT EXISTS orders (
    id VARCHAR(64) PRIMARY KEY,
    idempotency_key VARCHAR(128) NULL,
    session_id VARCHAR(128) NOT NULL,
    items JSON NOT NULL,
    pricing JSON NOT NULL,
    total DECIMAL(12,2) NOT NULL,
    currency CHAR(3) NOT NULL,
    placed_at TIMESTAMP(3) NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uk_idempotency_key (idempotency_key),
    INDEX idx_session_placed (session_id, placed_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// CMSDocumentsTableSQL is the key/value store behind cms.SQLStorage.
const CMSDocumentsTableSQL = `CREATE TABLE IF NOT EXISTS cms_documents (
    doc_key VARCHAR(191) PRIMARY KEY,
    body LONGBLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// SetupSchema creates the application tables
func (db *DB) SetupSchema(ctx context.Context) error {
	statements := []string{
		OrdersTableSQL,
		CMSDocumentsTableSQL,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// DropSchema removes the application tables
func (db *DB) DropSchema(ctx context.Context) error {
	queries := []string{
		"DROP TABLE IF EXISTS orders",
		"DROP TABLE IF EXISTS cms_documents",
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	return nil
}
