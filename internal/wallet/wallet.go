// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package wallet manages expense categories and monthly budgets.

# Core Responsibility

  - Categories: user-owned expense buckets.
  - Budgets: per-month amounts assigned to categories, replaced as a set.

A month's budget is always written as a whole: the client sends the complete
allocation and the store swaps it in one transaction, so a month can never
hold a half-updated mix of old and new rows.
*/
package wallet

import "time"

// Category represents a user-owned expense bucket.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Budget is one category's allocation for a month.
type Budget struct {
	CategoryID int64  `json:"category_id"`
	Month      string `json:"month"` // YYYY-MM
	Amount     int64  `json:"amount"`
}

// BudgetAllocation is a client's complete budget for one month.
type BudgetAllocation struct {
	Month string    `json:"month"`
	Items []*Budget `json:"items"`
}

// # Field Identifiers

const (
	FieldName       = "name"
	FieldMonth      = "month"
	FieldAmount     = "amount"
	FieldCategoryID = "category_id"
)
