// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package group

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed group store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Group Retrieval

func (repository *PostgresRepository) ListByUser(context context.Context, userID int64) ([]*Group, error) {
	const query = `
		SELECT g.id, g.name, g.owner_id, g.created_at,
		       (SELECT COUNT(*) FROM group_members WHERE group_id = g.id) AS member_count
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at ASC
	`
	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_groups")
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		err := rows.Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt, &group.MemberCount)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_group")
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, groupID int64) (*Group, error) {
	const query = `
		SELECT g.id, g.name, g.owner_id, g.created_at,
		       (SELECT COUNT(*) FROM group_members WHERE group_id = g.id) AS member_count
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE g.id = $1 AND m.user_id = $2
	`
	group := &Group{}
	err := repository.db.QueryRow(context, query, groupID, userID).Scan(
		&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt, &group.MemberCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Group")
	}
	return group, nil
}

/*
Create persists a new group and enrolls its creator.

Description: Executes within an ACID transaction: the group row and the
owner's membership row commit together, so a group can never exist without
its owner on the roster.

Parameters:
  - context: context.Context
  - group: *Group (OwnerID is the creating user)

Returns:
  - error: Transactional or persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, group *Group) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_group_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Group Row
	const groupQuery = `
		INSERT INTO groups (name, owner_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	err = transaction.QueryRow(context, groupQuery, group.Name, group.OwnerID).Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_group")
	}

	// Step 2: Owner Membership
	const memberQuery = `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := transaction.Exec(context, memberQuery, group.ID, group.OwnerID, MemberRoleOwner); err != nil {
		return dberr.Wrap(err, "enroll_owner")
	}

	group.MemberCount = 1

	// Persist Atomic Changeset
	return transaction.Commit(context)
}

// # Membership

func (repository *PostgresRepository) ListMembers(context context.Context, groupID int64) ([]*Member, error) {
	const query = `
		SELECT m.group_id, m.user_id, u.name, m.role, m.joined_at
		FROM group_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.group_id = $1
		ORDER BY m.role ASC, m.joined_at ASC
	`
	rows, err := repository.db.Query(context, query, groupID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_group_members")
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Name, &member.Role, &member.JoinedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_member")
		}
		members = append(members, member)
	}

	return members, nil
}

func (repository *PostgresRepository) AddMember(context context.Context, member *Member) error {
	const query = `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING joined_at
	`
	err := repository.db.QueryRow(context, query, member.GroupID, member.UserID, member.Role).Scan(&member.JoinedAt)
	return dberr.Wrap(err, "Membership")
}

func (repository *PostgresRepository) RemoveMember(context context.Context, groupID, userID int64) error {
	const query = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := repository.db.Exec(context, query, groupID, userID)
	if err != nil {
		return dberr.Wrap(err, "remove_member")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Membership")
	}
	return nil
}

func (repository *PostgresRepository) IsMember(context context.Context, groupID, userID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`

	var member bool
	if err := repository.db.QueryRow(context, query, groupID, userID).Scan(&member); err != nil {
		return false, dberr.Wrap(err, "check_membership")
	}
	return member, nil
}

// # Tasks

func (repository *PostgresRepository) ListTasks(context context.Context, groupID int64) ([]*Task, error) {
	const query = `
		SELECT t.id, t.group_id, t.title, t.description, t.status, t.due_at, t.created_by, t.created_at,
		       COALESCE(array_agg(a.user_id) FILTER (WHERE a.user_id IS NOT NULL), '{}') AS assignees
		FROM group_tasks t
		LEFT JOIN group_task_assignees a ON a.task_id = t.id
		WHERE t.group_id = $1
		GROUP BY t.id
		ORDER BY t.created_at DESC
	`
	rows, err := repository.db.Query(context, query, groupID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_group_tasks")
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task := &Task{}
		err := rows.Scan(
			&task.ID, &task.GroupID, &task.Title, &task.Description, &task.Status,
			&task.DueAt, &task.CreatedBy, &task.CreatedAt, &task.AssigneeIDs,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_task")
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

/*
CreateTask inserts a task and its assignee links.

Description: Executes within an ACID transaction to guarantee atomicity.
 1. Verifies every assignee is on the group's roster.
 2. Inserts the task row.
 3. Inserts one assignee row per member.

Rolls back completely if any stage fails: a task never persists with a
partial assignee list.

Parameters:
  - context: context.Context
  - task: *Task (GroupID, Title, AssigneeIDs populated)

Returns:
  - error: ErrValidation on a non-member assignee, transactional failures
*/
func (repository *PostgresRepository) CreateTask(context context.Context, task *Task) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_task_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Roster Check
	if len(task.AssigneeIDs) > 0 {
		const rosterQuery = `
			SELECT COUNT(DISTINCT user_id) FROM group_members
			WHERE group_id = $1 AND user_id = ANY($2)
		`
		var enrolled int
		if err := transaction.QueryRow(context, rosterQuery, task.GroupID, task.AssigneeIDs).Scan(&enrolled); err != nil {
			return dberr.Wrap(err, "check_assignees")
		}

		distinct := map[int64]struct{}{}
		for _, id := range task.AssigneeIDs {
			distinct[id] = struct{}{}
		}
		if enrolled != len(distinct) {
			return apperr.ValidationError("Task assignee is not a group member")
		}
	}

	// Step 2: Task Row
	const taskQuery = `
		INSERT INTO group_tasks (group_id, title, description, status, due_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	err = transaction.QueryRow(context, taskQuery,
		task.GroupID, task.Title, task.Description, task.Status, task.DueAt, task.CreatedBy,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_task")
	}

	// Step 3: Assignee Rows
	const assigneeQuery = `
		INSERT INTO group_task_assignees (task_id, user_id)
		VALUES ($1, $2)
	`
	for _, userID := range task.AssigneeIDs {
		if _, err := transaction.Exec(context, assigneeQuery, task.ID, userID); err != nil {
			return dberr.Wrap(err, "assign_task")
		}
	}

	// Persist Atomic Changeset
	return transaction.Commit(context)
}

func (repository *PostgresRepository) UpdateTaskStatus(context context.Context, groupID, taskID int64, status TaskStatus) error {
	const query = `UPDATE group_tasks SET status = $3 WHERE id = $2 AND group_id = $1`

	result, err := repository.db.Exec(context, query, groupID, taskID, status)
	if err != nil {
		return dberr.Wrap(err, "update_task_status")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}
	return nil
}
