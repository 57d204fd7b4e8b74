// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package group

import (
	"context"
	"log/slog"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/validate"
)

// # Service Layer

// Service orchestrates business rules for groups, rosters, and tasks.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new group [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Group Management

// ListGroups returns the groups the caller belongs to.
func (service *Service) ListGroups(context context.Context, userID int64) ([]*Group, error) {
	return service.repo.ListByUser(context, userID)
}

// GetGroup retrieves one group the caller belongs to.
func (service *Service) GetGroup(context context.Context, userID, groupID int64) (*Group, error) {
	return service.repo.FindByID(context, userID, groupID)
}

/*
CreateGroup initialises a new workspace and enrolls the creator as owner.

Parameters:
  - context: context.Context
  - group: *Group
  - creatorID: int64

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) CreateGroup(context context.Context, group *Group, creatorID int64) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, group.Name).MaxLen(FieldName, group.Name, 200)

	if err := validator.Err(); err != nil {
		return err
	}

	group.OwnerID = creatorID
	if err := service.repo.Create(context, group); err != nil {
		return err
	}

	service.logger.Info("group_created",
		slog.Int64("group_id", group.ID),
		slog.Int64("creator_id", creatorID),
	)

	return nil
}

// # Membership Controls

// ListMembers returns the roster of a group the caller belongs to.
func (service *Service) ListMembers(context context.Context, userID, groupID int64) ([]*Member, error) {
	if err := service.requireMembership(context, groupID, userID); err != nil {
		return nil, err
	}
	return service.repo.ListMembers(context, groupID)
}

// AddMember enrolls a user; only the owner may change the roster.
func (service *Service) AddMember(context context.Context, actorID, groupID, userID int64) error {
	if err := service.requireOwner(context, actorID, groupID); err != nil {
		return err
	}

	member := &Member{GroupID: groupID, UserID: userID, Role: MemberRoleMember}
	if err := service.repo.AddMember(context, member); err != nil {
		return err
	}

	service.logger.Info("group_member_added",
		slog.Int64("group_id", groupID),
		slog.Int64("user_id", userID),
	)

	return nil
}

// RemoveMember drops a user from the roster; the owner cannot be removed.
func (service *Service) RemoveMember(context context.Context, actorID, groupID, userID int64) error {
	if err := service.requireOwner(context, actorID, groupID); err != nil {
		return err
	}

	group, err := service.repo.FindByID(context, actorID, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == userID {
		return apperr.ValidationError("The group owner cannot be removed")
	}

	return service.repo.RemoveMember(context, groupID, userID)
}

// # Task Board

// ListTasks returns the board of a group the caller belongs to.
func (service *Service) ListTasks(context context.Context, userID, groupID int64) ([]*Task, error) {
	if err := service.requireMembership(context, groupID, userID); err != nil {
		return nil, err
	}
	return service.repo.ListTasks(context, groupID)
}

/*
CreateTask adds a task to the board with its assignees.

Description: The caller must be a member. The task row and every assignee
row are written by the store in one transaction; an assignee outside the
roster rejects the whole write.

Parameters:
  - context: context.Context
  - creatorID: int64
  - task: *Task

Returns:
  - error: Validation, membership, or transactional failures
*/
func (service *Service) CreateTask(context context.Context, creatorID int64, task *Task) error {
	if err := service.requireMembership(context, task.GroupID, creatorID); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, task.Title).MaxLen(FieldTitle, task.Title, 200)
	for _, id := range task.AssigneeIDs {
		validator.Custom(FieldAssignees, id <= 0, "must be valid user identifiers")
	}

	if err := validator.Err(); err != nil {
		return err
	}

	task.CreatedBy = creatorID
	task.Status = TaskStatusOpen

	if err := service.repo.CreateTask(context, task); err != nil {
		return err
	}

	service.logger.Info("group_task_created",
		slog.Int64("group_id", task.GroupID),
		slog.Int64("task_id", task.ID),
		slog.Int("assignees", len(task.AssigneeIDs)),
	)

	return nil
}

// UpdateTaskStatus moves a task between open and done.
func (service *Service) UpdateTaskStatus(context context.Context, userID, groupID, taskID int64, status TaskStatus) error {
	if err := service.requireMembership(context, groupID, userID); err != nil {
		return err
	}

	if status != TaskStatusOpen && status != TaskStatusDone {
		return validate.RequiredError("status", "must be open or done")
	}

	return service.repo.UpdateTaskStatus(context, groupID, taskID, status)
}

// # Access Checks

func (service *Service) requireMembership(context context.Context, groupID, userID int64) error {
	member, err := service.repo.IsMember(context, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.NotFound("Group")
	}
	return nil
}

func (service *Service) requireOwner(context context.Context, actorID, groupID int64) error {
	group, err := service.repo.FindByID(context, actorID, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != actorID {
		return apperr.Forbidden("Only the group owner can manage the roster")
	}
	return nil
}
