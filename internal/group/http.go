// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package group

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/middleware"
	requestutil "github.com/kertasdev/kertas/internal/platform/request"
	"github.com/kertasdev/kertas/internal/platform/respond"
	"github.com/kertasdev/kertas/internal/platform/validate"
)

// Handler implements the group HTTP endpoints.
type Handler struct {
	groupService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{groupService: service}
}

// Routes returns a [chi.Router] with the group endpoints. Every route
// requires an authenticated session.
//
// # Endpoints
//   - GET    /                           : Lists the caller's groups.
//   - POST   /                           : Creates a group (caller becomes owner).
//   - GET    /{groupID}                  : Fetches one group.
//   - GET    /{groupID}/members          : Lists the roster.
//   - POST   /{groupID}/members          : Enrolls a user (owner only).
//   - DELETE /{groupID}/members/{userID} : Removes a user (owner only).
//   - GET    /{groupID}/tasks            : Lists the task board.
//   - POST   /{groupID}/tasks            : Creates a task with assignees.
//   - PUT    /{groupID}/tasks/{taskID}   : Updates a task's status.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{groupID}", handler.get)
	router.Get("/{groupID}/members", handler.listMembers)
	router.Post("/{groupID}/members", handler.addMember)
	router.Delete("/{groupID}/members/{userID}", handler.removeMember)
	router.Get("/{groupID}/tasks", handler.listTasks)
	router.Post("/{groupID}/tasks", handler.createTask)
	router.Put("/{groupID}/tasks/{taskID}", handler.updateTask)

	return router
}

// # Request Payloads

type createGroupRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	UserID int64 `json:"user_id"`
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	AssigneeIDs []int64    `json:"assignee_ids"`
}

type updateTaskRequest struct {
	Status TaskStatus `json:"status"`
}

func pathID(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(requestutil.Param(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Invalid identifier")
	}
	return id, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groups, err := handler.groupService.ListGroups(request.Context(), claims.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, groups)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createGroupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	group := &Group{Name: input.Name}
	if err := handler.groupService.CreateGroup(request.Context(), group, claims.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, group)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	group, err := handler.groupService.GetGroup(request.Context(), claims.ID, groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, group)
}

func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	members, err := handler.groupService.ListMembers(request.Context(), claims.ID, groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, members)
}

func (handler *Handler) addMember(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addMemberRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.groupService.AddMember(request.Context(), claims.ID, groupID, input.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{"message": "Member added"})
}

func (handler *Handler) removeMember(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := pathID(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.groupService.RemoveMember(request.Context(), claims.ID, groupID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) listTasks(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tasks, err := handler.groupService.ListTasks(request.Context(), claims.ID, groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tasks)
}

/*
CreateTask adds a task with its assignees to the board.

POST /api/v1/groups/{groupID}/tasks

Description: The task row and its assignee rows commit in one transaction;
an assignee who is not on the roster rejects the whole write.

Request:
  - Body: createTaskRequest (Title, Description, DueAt, AssigneeIDs)

Response:
  - 201: Task: Created task with assignees
  - 400: ErrInvalidJSON: Validation failure or non-member assignee
  - 404: ErrNotFound: Caller is not a member of the group
*/
func (handler *Handler) createTask(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	task := &Task{
		GroupID:     groupID,
		Title:       input.Title,
		Description: input.Description,
		DueAt:       input.DueAt,
		AssigneeIDs: input.AssigneeIDs,
	}

	if err := handler.groupService.CreateTask(request.Context(), claims.ID, task); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

func (handler *Handler) updateTask(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := pathID(request, "groupID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	taskID, err := pathID(request, "taskID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.groupService.UpdateTaskStatus(request.Context(), claims.ID, groupID, taskID, input.Status); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Task updated"})
}
