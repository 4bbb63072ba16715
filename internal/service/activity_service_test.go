package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxBuckets(t *testing.T) {
	f := newFixture()
	p := f.newProject("alpha")
	ctx := context.Background()

	f.newTask(p.ID, "fresh", f.member)
	accepted := f.newTask(p.ID, "accepted", f.member)
	done := f.newTask(p.ID, "done", f.member)
	f.newTask(p.ID, "not mine", f.owner)

	_, err := f.tasks.Accept(ctx, accepted.ID, f.member)
	require.NoError(t, err)
	_, err = f.tasks.ToggleStatus(ctx, done.ID, f.owner)
	require.NoError(t, err)

	view, err := f.activity.Inbox(ctx, f.member)
	require.NoError(t, err)
	require.Len(t, view.Projects, 1)

	tasks := view.Projects[0].Tasks
	require.Len(t, tasks, 3, "only assigned tasks appear")

	byID := map[string]ActivityBucket{}
	for _, at := range tasks {
		byID[at.Task.Title] = at.Bucket
	}
	assert.Equal(t, BucketNew, byID["fresh"])
	assert.Equal(t, BucketActive, byID["accepted"])
	assert.Equal(t, BucketDone, byID["done"])
}

func TestInboxOrdering(t *testing.T) {
	f := newFixture()
	p := f.newProject("alpha")
	ctx := context.Background()

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	// all "new"; due dates ascending, nil due dates last
	f.newTask(p.ID, "no due", f.member)
	f.newTaskWithDue(p.ID, "due later", later, f.member)
	f.newTaskWithDue(p.ID, "due soon", soon, f.member)
	// accepted task sorts after every "new" task even with the earliest due date
	active := f.newTaskWithDue(p.ID, "active", time.Now().Add(time.Hour), f.member)
	_, err := f.tasks.Accept(ctx, active.ID, f.member)
	require.NoError(t, err)

	view, err := f.activity.Inbox(ctx, f.member)
	require.NoError(t, err)
	require.Len(t, view.Projects, 1)

	titles := make([]string, 0, 4)
	for _, at := range view.Projects[0].Tasks {
		titles = append(titles, at.Task.Title)
	}
	assert.Equal(t, []string{"due soon", "due later", "no due", "active"}, titles)
}

func TestInboxGroupsProjectsByName(t *testing.T) {
	f := newFixture()
	beta := f.newProject("beta")
	alpha := f.newProject("alpha")
	ctx := context.Background()

	f.newTask(beta.ID, "b1", f.member)
	f.newTask(alpha.ID, "a1", f.member)
	f.newTask(alpha.ID, "a2", f.member)

	view, err := f.activity.Inbox(ctx, f.member)
	require.NoError(t, err)
	require.Len(t, view.Projects, 2)
	assert.Equal(t, "alpha", view.Projects[0].ProjectName)
	assert.Equal(t, "beta", view.Projects[1].ProjectName)
	assert.Len(t, view.Projects[0].Tasks, 2)
	assert.Len(t, view.Projects[1].Tasks, 1)
	assert.Equal(t, f.member, view.UserID)
}

func TestInboxEmpty(t *testing.T) {
	f := newFixture()
	view, err := f.activity.Inbox(context.Background(), f.member)
	require.NoError(t, err)
	assert.Empty(t, view.Projects)
}
