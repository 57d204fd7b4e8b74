// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package notes

import "context"

// # Notes Data Access

// Repository defines the data access contract for user notes.
//
// Every method is scoped by the owning user ID; there is no way to address
// another user's note through this interface.
type Repository interface {

	/*
		ListByUser returns one page of a user's notes, pinned first.

		Returns:
		  - []*Note: The requested page
		  - int: Total note count for the user, for pagination metadata
		  - error: Database retrieval failures
	*/
	ListByUser(context context.Context, userID int64, limit, offset int) ([]*Note, int, error)

	/*
		FindByID retrieves one note owned by userID.

		Returns:
		  - *Note: Hydrated entity
		  - error: ErrNotFound if missing or owned by someone else
	*/
	FindByID(context context.Context, userID int64, id string) (*Note, error)

	/*
		Create persists a new note under the client-supplied UUID.

		Returns:
		  - error: ErrConflict when the UUID is already taken
	*/
	Create(context context.Context, note *Note) error

	/*
		Update rewrites the mutable columns of an owned note.

		Returns:
		  - error: ErrNotFound if the note is missing or not owned
	*/
	Update(context context.Context, note *Note) error

	/*
		Delete removes an owned note.

		Returns:
		  - error: ErrNotFound if the note is missing or not owned
	*/
	Delete(context context.Context, userID int64, id string) error

	/*
		Sync applies a batch of upserts and deletions in one transaction.

		An upsert whose UUID exists under a different owner aborts the whole
		batch with ErrConflict; nothing from the batch persists.

		Returns:
		  - error: Transactional or database failures
	*/
	Sync(context context.Context, userID int64, upserts []*Note, deleteIDs []string) error
}
