package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.projects.CreateProject(ctx, "sprint board", f.owner)
	require.NoError(t, err)
	assert.True(t, p.HasMember(f.owner), "creator is always a member")
	assert.Equal(t, f.owner, p.CreatedBy)

	_, err = f.projects.CreateProject(ctx, "", f.owner)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectMembership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.projects.CreateProject(ctx, "sprint board", f.owner)
	require.NoError(t, err)

	// non-member cannot view
	_, err = f.projects.GetProject(ctx, p.ID, f.member)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.projects.AddMember(ctx, p.ID, f.owner, f.member))
	// idempotent
	require.NoError(t, f.projects.AddMember(ctx, p.ID, f.owner, f.member))

	got, err := f.projects.GetProject(ctx, p.ID, f.member)
	require.NoError(t, err)
	assert.Len(t, got.Members, 2)

	// unknown user cannot be added
	err = f.projects.AddMember(ctx, p.ID, f.owner, uuid.New())
	assert.Error(t, err)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.projects.CreateProject(ctx, "sprint board", f.owner)
	require.NoError(t, err)
	require.NoError(t, f.projects.AddMember(ctx, p.ID, f.owner, f.member))

	task := f.newTask(p.ID, "keep me", f.member)

	// members cannot remove members, owner can
	err = f.projects.RemoveMember(ctx, p.ID, f.member, f.member)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, f.projects.RemoveMember(ctx, p.ID, f.owner, f.member))

	got, err := f.projects.GetProject(ctx, p.ID, f.owner)
	require.NoError(t, err)
	assert.False(t, got.HasMember(f.member))

	// removal does not touch task assignments
	kept, err := f.store.GetTask(task.ID)
	require.NoError(t, err)
	assert.True(t, kept.HasAssignee(f.member))

	// the creator cannot be removed
	err = f.projects.RemoveMember(ctx, p.ID, f.owner, f.owner)
	assert.Error(t, err)
}

func TestListProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.projects.CreateProject(ctx, "mine", f.owner)
	require.NoError(t, err)
	_, err = f.projects.CreateProject(ctx, "theirs", f.member)
	require.NoError(t, err)

	mine := f.projects.ListProjects(ctx, f.owner)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Name)
}

func TestRole(t *testing.T) {
	f := newFixture()
	p := f.newProject("alpha")

	assert.Equal(t, "owner", Role(&p, f.owner))
	assert.Equal(t, "member", Role(&p, f.member))
	assert.Equal(t, "", Role(&p, uuid.New()))
}
