// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package group

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/platform/apperr"
)

type fakeRepo struct {
	groups  map[int64]*Group
	members map[int64][]int64 // group -> user IDs
	tasks   map[int64][]*Task
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		groups:  map[int64]*Group{},
		members: map[int64][]int64{},
		tasks:   map[int64][]*Task{},
	}
}

func (repo *fakeRepo) isMember(groupID, userID int64) bool {
	for _, id := range repo.members[groupID] {
		if id == userID {
			return true
		}
	}
	return false
}

func (repo *fakeRepo) ListByUser(_ context.Context, userID int64) ([]*Group, error) {
	var results []*Group
	for _, group := range repo.groups {
		if repo.isMember(group.ID, userID) {
			results = append(results, group)
		}
	}
	return results, nil
}

func (repo *fakeRepo) FindByID(_ context.Context, userID, groupID int64) (*Group, error) {
	group, ok := repo.groups[groupID]
	if !ok || !repo.isMember(groupID, userID) {
		return nil, apperr.NotFound("Group")
	}
	return group, nil
}

func (repo *fakeRepo) Create(_ context.Context, group *Group) error {
	repo.nextID++
	group.ID = repo.nextID
	repo.groups[group.ID] = group
	repo.members[group.ID] = []int64{group.OwnerID}
	group.MemberCount = 1
	return nil
}

func (repo *fakeRepo) ListMembers(_ context.Context, groupID int64) ([]*Member, error) {
	var members []*Member
	for _, userID := range repo.members[groupID] {
		members = append(members, &Member{GroupID: groupID, UserID: userID})
	}
	return members, nil
}

func (repo *fakeRepo) AddMember(_ context.Context, member *Member) error {
	if repo.isMember(member.GroupID, member.UserID) {
		return apperr.Conflict("Membership already exists")
	}
	repo.members[member.GroupID] = append(repo.members[member.GroupID], member.UserID)
	return nil
}

func (repo *fakeRepo) RemoveMember(_ context.Context, groupID, userID int64) error {
	ids := repo.members[groupID]
	for index, id := range ids {
		if id == userID {
			repo.members[groupID] = append(ids[:index], ids[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Membership")
}

func (repo *fakeRepo) IsMember(_ context.Context, groupID, userID int64) (bool, error) {
	return repo.isMember(groupID, userID), nil
}

func (repo *fakeRepo) ListTasks(_ context.Context, groupID int64) ([]*Task, error) {
	return repo.tasks[groupID], nil
}

func (repo *fakeRepo) CreateTask(_ context.Context, task *Task) error {
	for _, userID := range task.AssigneeIDs {
		if !repo.isMember(task.GroupID, userID) {
			return apperr.ValidationError("Task assignee is not a group member")
		}
	}
	repo.nextID++
	task.ID = repo.nextID
	repo.tasks[task.GroupID] = append(repo.tasks[task.GroupID], task)
	return nil
}

func (repo *fakeRepo) UpdateTaskStatus(_ context.Context, groupID, taskID int64, status TaskStatus) error {
	for _, task := range repo.tasks[groupID] {
		if task.ID == taskID {
			task.Status = status
			return nil
		}
	}
	return apperr.NotFound("Task")
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_CreateGroup_EnrollsOwner(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	group := &Group{Name: "Tim Dapur"}
	require.NoError(t, service.CreateGroup(context.Background(), group, 1))

	assert.Equal(t, int64(1), group.OwnerID)
	assert.True(t, repo.isMember(group.ID, 1))
}

func TestService_RosterIsOwnerControlled(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	group := &Group{Name: "Tim Dapur"}
	require.NoError(t, service.CreateGroup(context.Background(), group, 1))
	require.NoError(t, service.AddMember(context.Background(), 1, group.ID, 2))

	// A plain member cannot grow the roster.
	err := service.AddMember(context.Background(), 2, group.ID, 3)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.As(err).HTTPStatus)

	// The owner cannot be removed, even by themselves.
	err = service.RemoveMember(context.Background(), 1, group.ID, 1)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)

	require.NoError(t, service.RemoveMember(context.Background(), 1, group.ID, 2))
}

func TestService_CreateTask(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	group := &Group{Name: "Tim Dapur"}
	require.NoError(t, service.CreateGroup(context.Background(), group, 1))
	require.NoError(t, service.AddMember(context.Background(), 1, group.ID, 2))

	t.Run("member_assignees", func(t *testing.T) {
		task := &Task{GroupID: group.ID, Title: "Belanja mingguan", AssigneeIDs: []int64{1, 2}}
		require.NoError(t, service.CreateTask(context.Background(), 1, task))

		assert.Equal(t, TaskStatusOpen, task.Status)
		assert.Equal(t, int64(1), task.CreatedBy)
		assert.Positive(t, task.ID)
	})

	t.Run("non_member_assignee_rejected", func(t *testing.T) {
		task := &Task{GroupID: group.ID, Title: "Sapu dapur", AssigneeIDs: []int64{99}}
		err := service.CreateTask(context.Background(), 1, task)
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})

	t.Run("non_member_creator_sees_not_found", func(t *testing.T) {
		task := &Task{GroupID: group.ID, Title: "Intrusi"}
		err := service.CreateTask(context.Background(), 42, task)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("missing_title", func(t *testing.T) {
		err := service.CreateTask(context.Background(), 1, &Task{GroupID: group.ID})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})
}

func TestService_UpdateTaskStatus(t *testing.T) {
	repo := newFakeRepo()
	service := newTestService(repo)

	group := &Group{Name: "Tim Dapur"}
	require.NoError(t, service.CreateGroup(context.Background(), group, 1))

	task := &Task{GroupID: group.ID, Title: "Belanja"}
	require.NoError(t, service.CreateTask(context.Background(), 1, task))

	require.NoError(t, service.UpdateTaskStatus(context.Background(), 1, group.ID, task.ID, TaskStatusDone))
	assert.Equal(t, TaskStatusDone, task.Status)

	err := service.UpdateTaskStatus(context.Background(), 1, group.ID, task.ID, TaskStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}
