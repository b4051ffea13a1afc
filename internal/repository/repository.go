// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository provides typed access to the relational store.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Repository wraps the database handle for all durable state.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying handle for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// Tx is an open storage transaction. Writes issued through a Tx become
// visible atomically on Commit and never otherwise.
type Tx struct {
	tx *sqlx.Tx
}

// BeginTx opens a transaction on the shared connection pool.
func (r *Repository) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Commit makes all writes of the transaction durable.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback discards the transaction. Safe to call after Commit; the
// resulting sql.ErrTxDone is swallowed so it can sit in a defer.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// wrapError converts database/sql errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
