// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package wallet

import "context"

// # Wallet Data Access

// Repository defines the data access contract for categories and budgets.
// All methods are scoped by the owning user ID.
type Repository interface {

	// ListCategories returns the user's categories, oldest first.
	ListCategories(context context.Context, userID int64) ([]*Category, error)

	/*
		CreateCategory persists a new category for the user.

		Returns:
		  - error: ErrConflict on a duplicate name for the same user
	*/
	CreateCategory(context context.Context, category *Category) error

	// UpdateCategory renames an owned category.
	UpdateCategory(context context.Context, category *Category) error

	/*
		DeleteCategory removes an owned category and, via cascade, its
		budget rows.

		Returns:
		  - error: ErrNotFound if missing or not owned
	*/
	DeleteCategory(context context.Context, userID, id int64) error

	// ListBudgets returns the user's allocation for one month.
	ListBudgets(context context.Context, userID int64, month string) ([]*Budget, error)

	/*
		ReplaceBudgets swaps the month's allocation in one transaction:
		verify every referenced category belongs to userID, delete the
		month's existing rows, insert the new set. Any failure rolls the
		whole swap back.

		Returns:
		  - error: ErrValidation when a category is not owned,
		    otherwise transactional failures
	*/
	ReplaceBudgets(context context.Context, userID int64, month string, items []*Budget) error
}
