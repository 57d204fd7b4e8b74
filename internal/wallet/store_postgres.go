// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package wallet

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

// NewPostgresRepository constructs a PostgreSQL backed wallet store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Categories

func (repository *PostgresRepository) ListCategories(context context.Context, userID int64) ([]*Category, error) {
	const query = `
		SELECT id, user_id, name, icon, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		category := &Category{}
		err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Icon, &category.CreatedAt)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}

	return categories, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, category *Category) error {
	const query = `
		INSERT INTO categories (user_id, name, icon, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	err := repository.db.QueryRow(context, query,
		category.UserID, category.Name, category.Icon,
	).Scan(&category.ID, &category.CreatedAt)

	return dberr.Wrap(err, "Category")
}

func (repository *PostgresRepository) UpdateCategory(context context.Context, category *Category) error {
	const query = `
		UPDATE categories
		SET name = $3, icon = $4
		WHERE id = $1 AND user_id = $2
	`
	result, err := repository.db.Exec(context, query,
		category.ID, category.UserID, category.Name, category.Icon,
	)
	if err != nil {
		return dberr.Wrap(err, "Category")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

func (repository *PostgresRepository) DeleteCategory(context context.Context, userID, id int64) error {
	const query = `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	result, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

// # Budgets

func (repository *PostgresRepository) ListBudgets(context context.Context, userID int64, month string) ([]*Budget, error) {
	const query = `
		SELECT b.category_id, b.month, b.amount
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE c.user_id = $1 AND b.month = $2
		ORDER BY b.category_id ASC
	`
	rows, err := repository.db.Query(context, query, userID, month)
	if err != nil {
		return nil, dberr.Wrap(err, "list_budgets")
	}
	defer rows.Close()

	var budgets []*Budget
	for rows.Next() {
		budget := &Budget{}
		if err := rows.Scan(&budget.CategoryID, &budget.Month, &budget.Amount); err != nil {
			return nil, dberr.Wrap(err, "scan_budget")
		}
		budgets = append(budgets, budget)
	}

	return budgets, nil
}

/*
ReplaceBudgets swaps a month's full allocation.

Description: Executes within an ACID transaction to guarantee atomicity.
 1. Counts how many of the referenced categories the user actually owns;
    a mismatch means the batch references a foreign or deleted category.
 2. Deletes the month's existing rows for the user.
 3. Inserts the new allocation.

Rolls back completely if any stage fails so the month never holds a mix of
old and new rows.

Parameters:
  - context: context.Context
  - userID: int64
  - month: string (YYYY-MM)
  - items: []*Budget

Returns:
  - error: ErrValidation on a foreign category, transactional failures
*/
func (repository *PostgresRepository) ReplaceBudgets(context context.Context, userID int64, month string, items []*Budget) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_budget_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Ownership Check
	categoryIDs := make([]int64, 0, len(items))
	for _, item := range items {
		categoryIDs = append(categoryIDs, item.CategoryID)
	}

	if len(categoryIDs) > 0 {
		const ownedQuery = `
			SELECT COUNT(DISTINCT id) FROM categories
			WHERE user_id = $1 AND id = ANY($2)
		`
		var owned int
		if err := transaction.QueryRow(context, ownedQuery, userID, categoryIDs).Scan(&owned); err != nil {
			return dberr.Wrap(err, "check_category_ownership")
		}

		distinct := map[int64]struct{}{}
		for _, id := range categoryIDs {
			distinct[id] = struct{}{}
		}
		if owned != len(distinct) {
			return apperr.ValidationError("Budget references a category you do not own")
		}
	}

	// Step 2: Clear Existing Month
	const deleteQuery = `
		DELETE FROM budgets
		WHERE month = $1 AND category_id IN (SELECT id FROM categories WHERE user_id = $2)
	`
	if _, err := transaction.Exec(context, deleteQuery, month, userID); err != nil {
		return dberr.Wrap(err, "clear_month_budgets")
	}

	// Step 3: Insert New Allocation
	const insertQuery = `
		INSERT INTO budgets (category_id, month, amount)
		VALUES ($1, $2, $3)
	`
	for _, item := range items {
		if _, err := transaction.Exec(context, insertQuery, item.CategoryID, month, item.Amount); err != nil {
			return dberr.Wrap(err, "insert_budget")
		}
	}

	// Persist Atomic Changeset
	return transaction.Commit(context)
}
