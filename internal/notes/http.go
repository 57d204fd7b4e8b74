// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package notes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kertasdev/kertas/internal/platform/middleware"
	requestutil "github.com/kertasdev/kertas/internal/platform/request"
	"github.com/kertasdev/kertas/internal/platform/respond"
	"github.com/kertasdev/kertas/internal/platform/validate"
	"github.com/kertasdev/kertas/pkg/pagination"
)

// Handler implements the notes HTTP endpoints.
type Handler struct {
	notesService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{notesService: service}
}

// Routes returns a [chi.Router] with the notes endpoints. Every route
// requires an authenticated session.
//
// # Endpoints
//   - GET    /          : Lists the caller's notes, paginated via page/limit.
//   - POST   /          : Creates a note under a client UUID.
//   - GET    /{noteID}  : Fetches one note.
//   - PUT    /{noteID}  : Rewrites one note.
//   - DELETE /{noteID}  : Deletes one note.
//   - POST   /sync      : Applies an offline changeset atomically.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Post("/sync", handler.sync)
	router.Get("/{noteID}", handler.get)
	router.Put("/{noteID}", handler.update)
	router.Delete("/{noteID}", handler.remove)

	return router
}

// # Request Payloads

type notePayload struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Color    *string `json:"color"`
	IsPinned bool    `json:"is_pinned"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	results, total, err := handler.notesService.ListNotes(request.Context(), claims.ID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.notesService.GetNote(request.Context(), claims.ID, requestutil.Param(request, "noteID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, note)
}

/*
Create persists a new note.

POST /api/v1/notes

Request:
  - Body: notePayload (ID is the client-generated UUID)

Response:
  - 201: Note: Created note
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: UUID already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input notePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	note := &Note{
		ID:       input.ID,
		UserID:   claims.ID,
		Title:    input.Title,
		Content:  input.Content,
		Color:    input.Color,
		IsPinned: input.IsPinned,
	}

	if err := handler.notesService.CreateNote(request.Context(), note); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, note)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input notePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	note := &Note{
		ID:       requestutil.Param(request, "noteID"),
		UserID:   claims.ID,
		Title:    input.Title,
		Content:  input.Content,
		Color:    input.Color,
		IsPinned: input.IsPinned,
	}

	if err := handler.notesService.UpdateNote(request.Context(), note); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, note)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.notesService.DeleteNote(request.Context(), claims.ID, requestutil.Param(request, "noteID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Sync applies the caller's offline changeset.

POST /api/v1/notes/sync

Description: Upserts and deletions from the body are applied in one
transaction; a UUID owned by a different user rejects the whole batch.

Request:
  - Body: SyncRequest (Upserts, DeleteIDs)

Response:
  - 200: Success message
  - 400: ErrInvalidJSON: Malformed batch
  - 409: ErrConflict: Foreign UUID in the batch; nothing persisted
*/
func (handler *Handler) sync(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input SyncRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.notesService.Sync(request.Context(), claims.ID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"message": "Notes synchronized",
	})
}
