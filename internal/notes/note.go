// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package notes manages per-user notes and their offline synchronization.

Notes are owned rows: every query is scoped by the authenticated user ID, and
a note is addressed by a client-generated UUID so offline clients can create
notes before they ever reach the server.

# Core Responsibility

  - CRUD: Defines the [Note] entity and its lifecycle.
  - Sync: Applies a client's batched upserts and deletions atomically.
  - Ownership: A note UUID belongs to exactly one user, forever.
*/
package notes

import "time"

// Note represents a single user-owned note.
type Note struct {
	ID        string    `json:"id"` // Client-generated UUID
	UserID    int64     `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     *string   `json:"color,omitempty"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncRequest is a client's offline changeset: rows to upsert and IDs to
// delete, applied in one transaction.
type SyncRequest struct {
	Upserts   []*Note  `json:"upserts"`
	DeleteIDs []string `json:"delete_ids"`
}

// # Field Identifiers

const (
	FieldID      = "id"
	FieldTitle   = "title"
	FieldContent = "content"
	FieldUpserts = "upserts"
)
