// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/database/schema"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/dberr"
	"github.com/leoFagundes/breakfast-budget-club/pkg/uuidv7"
)

// Querier is the subset of pgxpool.Pool used by [PostgresStore].
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists documents as JSONB rows.
type PostgresStore struct {
	pool Querier
}

// NewPostgresStore wraps a connection pool.
func NewPostgresStore(pool Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Query implements [Store].
func (store *PostgresStore) Query(context context.Context, collection string, query Query) ([]Document, error) {
	table := schema.PortalDocument
	args := []any{collection}

	var builder strings.Builder
	fmt.Fprintf(&builder, `SELECT %s, %s FROM %s WHERE %s = $1`, table.ID, table.Data, table.Table, table.Collection)

	if len(query.Filters) > 0 {
		containment, err := filterObject(query.Filters)
		if err != nil {
			return nil, err
		}
		args = append(args, containment)
		fmt.Fprintf(&builder, ` AND %s @> $%d::jsonb`, table.Data, len(args))
	}

	if query.OrderBy != "" {
		args = append(args, query.OrderBy)
		direction := "ASC"
		if query.Descending {
			direction = "DESC"
		}
		fmt.Fprintf(&builder, ` ORDER BY %s -> $%d %s NULLS LAST, %s, %s`, table.Data, len(args), direction, table.CreatedAt, table.ID)
	} else {
		fmt.Fprintf(&builder, ` ORDER BY %s, %s`, table.CreatedAt, table.ID)
	}

	if query.Limit > 0 {
		fmt.Fprintf(&builder, ` LIMIT %d`, query.Limit)
	}

	rows, err := store.pool.Query(context, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_document_query_failed: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var document Document
		if err := rows.Scan(&document.ID, &document.Data); err != nil {
			return nil, fmt.Errorf("postgres_document_scan_failed: %w", err)
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_document_rows_failed: %w", err)
	}

	return documents, nil
}

// Get implements [Store].
func (store *PostgresStore) Get(context context.Context, collection, id string) (Document, error) {
	table := schema.PortalDocument
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 AND %s = $2`,
		table.ID, table.Data, table.Table, table.Collection, table.ID)

	var document Document
	err := store.pool.QueryRow(context, query, collection, id).Scan(&document.ID, &document.Data)
	if err != nil {
		if dberr.IsNoRows(err) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("postgres_document_get_failed: %w", err)
	}

	return document, nil
}

// Create implements [Store].
func (store *PostgresStore) Create(context context.Context, collection string, data any) (string, error) {
	id := uuidv7.New()
	object, err := toObject(id, data)
	if err != nil {
		return "", err
	}

	table := schema.PortalDocument
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3::jsonb)`,
		table.Table, table.Collection, table.ID, table.Data)

	if _, err := store.pool.Exec(context, query, collection, id, object); err != nil {
		return "", translateWriteError("postgres_document_create_failed", err)
	}

	return id, nil
}

// Put implements [Store].
func (store *PostgresStore) Put(context context.Context, collection, id string, data any) error {
	object, err := toObject(id, data)
	if err != nil {
		return err
	}

	table := schema.PortalDocument
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()`,
		table.Table, table.Collection, table.ID, table.Data,
		table.Collection, table.ID, table.Data, table.Data, table.UpdatedAt)

	if _, err := store.pool.Exec(context, query, collection, id, object); err != nil {
		return translateWriteError("postgres_document_put_failed", err)
	}

	return nil
}

// Update implements [Store].
func (store *PostgresStore) Update(context context.Context, collection, id string, patch map[string]any) error {
	table := schema.PortalDocument
	query := fmt.Sprintf(`UPDATE %s SET %s = %s || $3::jsonb, %s = NOW() WHERE %s = $1 AND %s = $2`,
		table.Table, table.Data, table.Data, table.UpdatedAt, table.Collection, table.ID)

	tag, err := store.pool.Exec(context, query, collection, id, sanitizePatch(patch))
	if err != nil {
		return translateWriteError("postgres_document_update_failed", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete implements [Store].
func (store *PostgresStore) Delete(context context.Context, collection, id string) error {
	table := schema.PortalDocument
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.Collection, table.ID)

	tag, err := store.pool.Exec(context, query, collection, id)
	if err != nil {
		return fmt.Errorf("postgres_document_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// filterObject folds equality filters into one JSONB containment argument.
func filterObject(filters []Filter) ([]byte, error) {
	object := make(map[string]any, len(filters))
	for _, filter := range filters {
		if _, exists := object[filter.Field]; exists {
			return nil, errors.New("docstore: duplicate filter field " + filter.Field)
		}
		object[filter.Field] = filter.Value
	}
	return json.Marshal(object)
}

func translateWriteError(operation string, err error) error {
	if dberr.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrConflict, dberr.Constraint(err))
	}
	return fmt.Errorf("%s: %w", operation, err)
}
