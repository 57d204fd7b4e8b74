// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package wallet

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/kertasdev/kertas/internal/platform/validate"
)

// monthPattern matches the YYYY-MM budget month key.
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// # Service Layer

// Service orchestrates business rules for categories and budgets.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new wallet [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Categories

// ListCategories returns the user's expense categories.
func (service *Service) ListCategories(context context.Context, userID int64) ([]*Category, error) {
	return service.repo.ListCategories(context, userID)
}

// CreateCategory validates and persists a new category.
func (service *Service) CreateCategory(context context.Context, category *Category) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.CreateCategory(context, category); err != nil {
		return err
	}

	service.logger.Info("category_created",
		slog.Int64("category_id", category.ID),
		slog.Int64("user_id", category.UserID),
	)

	return nil
}

// UpdateCategory renames an owned category.
func (service *Service) UpdateCategory(context context.Context, category *Category) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)

	if err := validator.Err(); err != nil {
		return err
	}

	return service.repo.UpdateCategory(context, category)
}

// DeleteCategory removes an owned category and its budget rows.
func (service *Service) DeleteCategory(context context.Context, userID, id int64) error {
	return service.repo.DeleteCategory(context, userID, id)
}

// # Budgets

// ListBudgets returns the user's allocation for one month.
func (service *Service) ListBudgets(context context.Context, userID int64, month string) ([]*Budget, error) {
	if !monthPattern.MatchString(month) {
		return nil, validate.RequiredError(FieldMonth, "must be formatted as YYYY-MM")
	}
	return service.repo.ListBudgets(context, userID, month)
}

/*
ReplaceBudgets swaps the user's complete allocation for one month.

Description: Validates the month key and every amount, then delegates to
the store's transactional delete-and-insert. Negative amounts are rejected
up front; category ownership is enforced inside the transaction.

Parameters:
  - context: context.Context
  - userID: int64
  - allocation: BudgetAllocation

Returns:
  - error: Validation failures or transactional failures
*/
func (service *Service) ReplaceBudgets(context context.Context, userID int64, allocation BudgetAllocation) error {
	if !monthPattern.MatchString(allocation.Month) {
		return validate.RequiredError(FieldMonth, "must be formatted as YYYY-MM")
	}

	validator := &validate.Validator{}
	for _, item := range allocation.Items {
		validator.Custom(FieldCategoryID, item.CategoryID <= 0, "must reference a category")
		validator.Custom(FieldAmount, item.Amount < 0, "must not be negative")
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.ReplaceBudgets(context, userID, allocation.Month, allocation.Items); err != nil {
		return err
	}

	service.logger.Info("budgets_replaced",
		slog.Int64("user_id", userID),
		slog.String("month", allocation.Month),
		slog.Int("items", len(allocation.Items)),
	)

	return nil
}
