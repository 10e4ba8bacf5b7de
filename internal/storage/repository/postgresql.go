// Package repository implements the PostgreSQL data store for users,
// contests, registrations, payments, subscriptions and the QCM content with
// per-user progression.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Register the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors translated from driver-level failures. Services branch on
// these instead of sql.ErrNoRows.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("already exists")
	ErrAlreadyProcessed = errors.New("already processed")
)

// Storage wraps the PostgreSQL connection and implements every repository
// interface the services declare.
type Storage struct {
	DB *sql.DB
}

// New opens the PostgreSQL connection and pings it.
func New(storageConnectionString string) (*Storage, error) {
	const op = "repository.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies the schema has been migrated.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'inscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table inscriptions missing or query error: %w", err)
	}
	return nil
}
