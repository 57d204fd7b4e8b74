// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package group manages shared workspaces and their task boards.

A group is a small collaboration unit: members share a task list, tasks are
assigned to one or more members, and a task with its assignees is always
created as a single atomic write.

# Core Responsibility

  - Organization: Defines the [Group] entity and its [Member] roster.
  - Tasks: Manages [Task] rows and their assignee links.
  - Atomicity: A task and its assignees persist together or not at all.
*/
package group

import "time"

// # Group Enums

// MemberRole defines the authority level of a member within a group.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// TaskStatus tracks a task through its lifecycle.
type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

// # Core Entities

// Group represents a shared workspace.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	OwnerID     int64     `json:"owner_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member represents a user's affiliation within a group.
type Member struct {
	GroupID  int64      `json:"group_id"`
	UserID   int64      `json:"user_id"`
	Name     string     `json:"name"` // Denormalized for roster views
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// Task represents one item on a group's board.
type Task struct {
	ID          int64      `json:"id"`
	GroupID     int64      `json:"group_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	AssigneeIDs []int64    `json:"assignee_ids"`
	CreatedAt   time.Time  `json:"created_at"`
}

// # Field Identifiers

const (
	FieldName      = "name"
	FieldTitle     = "title"
	FieldAssignees = "assignee_ids"
)
