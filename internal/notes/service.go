// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package notes

import (
	"context"
	"log/slog"

	"github.com/kertasdev/kertas/internal/platform/validate"
)

// # Service Layer

// Service orchestrates business rules for user notes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new notes [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListNotes returns one page of the notes owned by userID plus the total count.
func (service *Service) ListNotes(context context.Context, userID int64, limit, offset int) ([]*Note, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}

// GetNote retrieves one owned note.
func (service *Service) GetNote(context context.Context, userID int64, id string) (*Note, error) {
	return service.repo.FindByID(context, userID, id)
}

/*
CreateNote validates and persists a new note under its client UUID.

Parameters:
  - context: context.Context
  - note: *Note (ID supplied by the client)

Returns:
  - error: Validation failures, ErrConflict on a taken UUID
*/
func (service *Service) CreateNote(context context.Context, note *Note) error {
	validator := &validate.Validator{}
	validator.Required(FieldID, note.ID).
		UUID(FieldID, note.ID).
		Required(FieldTitle, note.Title).
		MaxLen(FieldTitle, note.Title, 200)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, note); err != nil {
		return err
	}

	service.logger.Info("note_created",
		slog.String("note_id", note.ID),
		slog.Int64("user_id", note.UserID),
	)

	return nil
}

// UpdateNote validates and rewrites an owned note.
func (service *Service) UpdateNote(context context.Context, note *Note) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, note.Title).MaxLen(FieldTitle, note.Title, 200)

	if err := validator.Err(); err != nil {
		return err
	}

	return service.repo.Update(context, note)
}

// DeleteNote removes an owned note.
func (service *Service) DeleteNote(context context.Context, userID int64, id string) error {
	return service.repo.Delete(context, userID, id)
}

/*
Sync applies an offline changeset atomically.

Description: Validates every UUID in the batch up front, then hands the
whole set to the store as one transaction. A single foreign UUID rejects
the entire batch so the client can reconcile before retrying.

Parameters:
  - context: context.Context
  - userID: int64
  - request: SyncRequest

Returns:
  - error: Validation failures, ErrConflict, or transactional failures
*/
func (service *Service) Sync(context context.Context, userID int64, request SyncRequest) error {
	validator := &validate.Validator{}
	for _, note := range request.Upserts {
		validator.Required(FieldID, note.ID).
			UUID(FieldID, note.ID).
			Required(FieldTitle, note.Title)
	}
	for _, id := range request.DeleteIDs {
		validator.UUID(FieldID, id)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Sync(context, userID, request.Upserts, request.DeleteIDs); err != nil {
		return err
	}

	service.logger.Info("notes_synced",
		slog.Int64("user_id", userID),
		slog.Int("upserts", len(request.Upserts)),
		slog.Int("deletes", len(request.DeleteIDs)),
	)

	return nil
}
