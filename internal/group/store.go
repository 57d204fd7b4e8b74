// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package group

import "context"

// # Group Data Access

// Repository defines the data access contract for groups, members, and tasks.
type Repository interface {

	/*
		ListByUser returns the groups the user belongs to.

		Returns:
		  - []*Group: Groups with member counts
		  - error: Database retrieval failures
	*/
	ListByUser(context context.Context, userID int64) ([]*Group, error)

	/*
		FindByID retrieves one group the user belongs to.

		Returns:
		  - *Group: Hydrated entity
		  - error: ErrNotFound if missing or the user is not a member
	*/
	FindByID(context context.Context, userID, groupID int64) (*Group, error)

	/*
		Create persists a new group and enrolls the creator as owner,
		in one transaction.

		Returns:
		  - error: Transactional or persistence failures
	*/
	Create(context context.Context, group *Group) error

	// ListMembers returns the roster, owner first.
	ListMembers(context context.Context, groupID int64) ([]*Member, error)

	/*
		AddMember enrolls a user into a group.

		Returns:
		  - error: ErrConflict when already enrolled
	*/
	AddMember(context context.Context, member *Member) error

	// RemoveMember drops a user from the roster.
	RemoveMember(context context.Context, groupID, userID int64) error

	// IsMember reports whether userID belongs to groupID.
	IsMember(context context.Context, groupID, userID int64) (bool, error)

	// ListTasks returns the group's tasks with their assignee IDs.
	ListTasks(context context.Context, groupID int64) ([]*Task, error)

	/*
		CreateTask inserts the task row and its assignee rows in one
		transaction; an assignee outside the roster aborts the whole
		write.

		Returns:
		  - error: ErrValidation on a non-member assignee,
		    otherwise transactional failures
	*/
	CreateTask(context context.Context, task *Task) error

	// UpdateTaskStatus moves a task between open and done.
	UpdateTaskStatus(context context.Context, groupID, taskID int64, status TaskStatus) error
}
