// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package notes

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed notes store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Retrieval

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64, limit, offset int) ([]*Note, int, error) {
	const countQuery = `SELECT COUNT(*) FROM notes WHERE user_id = $1`

	var total int
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_notes")
	}

	const query = `
		SELECT id, user_id, title, content, color, is_pinned, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY is_pinned DESC, updated_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notes")
	}
	defer rows.Close()

	var results []*Note
	for rows.Next() {
		note := &Note{}
		err := rows.Scan(
			&note.ID, &note.UserID, &note.Title, &note.Content,
			&note.Color, &note.IsPinned, &note.CreatedAt, &note.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_note")
		}
		results = append(results, note)
	}

	return results, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, userID int64, id string) (*Note, error) {
	const query = `
		SELECT id, user_id, title, content, color, is_pinned, created_at, updated_at
		FROM notes
		WHERE id = $1 AND user_id = $2
	`
	note := &Note{}
	err := repository.db.QueryRow(context, query, id, userID).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.Color, &note.IsPinned, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Note")
	}
	return note, nil
}

// # Mutation

func (repository *PostgresRepository) Create(context context.Context, note *Note) error {
	const query = `
		INSERT INTO notes (id, user_id, title, content, color, is_pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := repository.db.QueryRow(context, query,
		note.ID, note.UserID, note.Title, note.Content, note.Color, note.IsPinned,
	).Scan(&note.CreatedAt, &note.UpdatedAt)

	return dberr.Wrap(err, "Note")
}

func (repository *PostgresRepository) Update(context context.Context, note *Note) error {
	const query = `
		UPDATE notes
		SET title = $3, content = $4, color = $5, is_pinned = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := repository.db.QueryRow(context, query,
		note.ID, note.UserID, note.Title, note.Content, note.Color, note.IsPinned,
	).Scan(&note.UpdatedAt)

	return dberr.Wrap(err, "Note")
}

func (repository *PostgresRepository) Delete(context context.Context, userID int64, id string) error {
	const query = `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	result, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_note")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Note")
	}
	return nil
}

// # Batch Synchronization

/*
Sync applies a client changeset in one transaction.

Description: Executes within an ACID transaction to guarantee atomicity.
 1. Upserts each incoming note, keyed by its client UUID. The conflict
    target only updates rows already owned by the same user; an upsert that
    affects zero rows means the UUID belongs to someone else.
 2. Deletes the listed IDs, again scoped by owner.

Rolls back completely if any stage fails so a rejected batch leaves no
partial writes.

Parameters:
  - context: context.Context
  - userID: int64 (Owner of every row in the batch)
  - upserts: []*Note
  - deleteIDs: []string

Returns:
  - error: ErrConflict on a foreign UUID, otherwise transactional failures
*/
func (repository *PostgresRepository) Sync(context context.Context, userID int64, upserts []*Note, deleteIDs []string) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_sync_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Owned Upserts
	const upsertQuery = `
		INSERT INTO notes (id, user_id, title, content, color, is_pinned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content,
		    color = EXCLUDED.color, is_pinned = EXCLUDED.is_pinned,
		    updated_at = NOW()
		WHERE notes.user_id = EXCLUDED.user_id
	`
	for _, note := range upserts {
		result, err := transaction.Exec(context, upsertQuery,
			note.ID, userID, note.Title, note.Content, note.Color, note.IsPinned,
		)
		if err != nil {
			return dberr.Wrap(err, "sync_upsert_note")
		}

		// Zero rows: the conflict row belongs to another user.
		if result.RowsAffected() == 0 {
			return apperr.Conflict("Note ID already exists")
		}
	}

	// Step 2: Owned Deletions
	const deleteQuery = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	for _, id := range deleteIDs {
		if _, err := transaction.Exec(context, deleteQuery, id, userID); err != nil {
			return dberr.Wrap(err, "sync_delete_note")
		}
	}

	// Persist Atomic Changeset
	return transaction.Commit(context)
}
