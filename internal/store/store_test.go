package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

func newTestStore() *Store {
	return NewStore(zap.NewNop())
}

func seedProject(t *testing.T, s *Store, name string, members ...uuid.UUID) model.Project {
	t.Helper()
	p := &model.Project{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: members[0],
		Members:   members,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateProject(p))
	return *p
}

func TestUserStore(t *testing.T) {
	s := newTestStore()

	u := &model.User{ID: uuid.New(), Email: "a@example.com", CreatedAt: time.Now()}
	require.NoError(t, s.CreateUser(u))

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	byEmail, err := s.GetUserByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	err = s.CreateUser(&model.User{ID: uuid.New(), Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.GetUser(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStoreCreationOrder(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	p := seedProject(t, s, "alpha", owner)

	for _, title := range []string{"first", "second", "third"} {
		err := s.CreateTask(&model.Task{
			ID:        uuid.New(),
			ProjectID: p.ID,
			Title:     title,
			Status:    model.TaskStatusPending,
			CreatedBy: owner,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	tasks := s.ListTasksByProject(p.ID)
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "third", tasks[2].Title)
}

func TestCreateTaskRequiresProject(t *testing.T) {
	s := newTestStore()
	err := s.CreateTask(&model.Task{ID: uuid.New(), ProjectID: uuid.New(), Title: "orphan"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTaskReturnsClone(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	assignee := uuid.New()
	p := seedProject(t, s, "alpha", owner, assignee)

	task := &model.Task{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Title:     "clone me",
		Status:    model.TaskStatusPending,
		Assignees: []uuid.UUID{assignee},
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateTask(task))

	got, err := s.GetTask(task.ID)
	require.NoError(t, err)

	// mutating the returned copy must not leak into the store
	got.Assignees[0] = uuid.New()
	got.Title = "changed"

	again, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "clone me", again.Title)
	assert.Equal(t, assignee, again.Assignees[0])
}

func TestMutateTask(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	p := seedProject(t, s, "alpha", owner)

	task := &model.Task{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Title:     "pending",
		Status:    model.TaskStatusPending,
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateTask(task))

	err := s.MutateTask(task.ID, func(t *model.Task) error {
		t.Status = model.TaskStatusDone
		return nil
	})
	require.NoError(t, err)

	got, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDone, got.Status)

	err = s.MutateTask(uuid.New(), func(t *model.Task) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	p := seedProject(t, s, "alpha", owner)

	task := &model.Task{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Title:     "short lived",
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateTask(task))
	require.NoError(t, s.DeleteTask(task.ID))

	_, err := s.GetTask(task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.ListTasksByProject(p.ID))

	assert.ErrorIs(t, s.DeleteTask(task.ID), ErrNotFound)
}

func TestListTasksForUser(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	assignee := uuid.New()
	p1 := seedProject(t, s, "alpha", owner, assignee)
	p2 := seedProject(t, s, "beta", owner, assignee)

	mk := func(projectID uuid.UUID, title string, assignees ...uuid.UUID) {
		require.NoError(t, s.CreateTask(&model.Task{
			ID:        uuid.New(),
			ProjectID: projectID,
			Title:     title,
			Assignees: assignees,
			CreatedBy: owner,
			CreatedAt: time.Now(),
		}))
	}
	mk(p1.ID, "mine-1", assignee)
	mk(p1.ID, "not mine", owner)
	mk(p2.ID, "mine-2", assignee, owner)

	tasks := s.ListTasksForUser(assignee)
	require.Len(t, tasks, 2)
	titles := map[string]bool{}
	for _, task := range tasks {
		titles[task.Title] = true
	}
	assert.True(t, titles["mine-1"])
	assert.True(t, titles["mine-2"])
}

func TestMessageTranscript(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	p := seedProject(t, s, "alpha", owner)

	err := s.AppendMessage(&model.Message{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		SenderID:  owner,
		Content:   "orphan",
		SentAt:    time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	for _, c := range []string{"one", "two"} {
		require.NoError(t, s.AppendMessage(&model.Message{
			ID:        uuid.New(),
			ProjectID: p.ID,
			SenderID:  owner,
			Content:   c,
			SentAt:    time.Now(),
		}))
	}

	msgs := s.ListMessages(p.ID)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
}

func TestMutateProject(t *testing.T) {
	s := newTestStore()
	owner := uuid.New()
	p := seedProject(t, s, "alpha", owner)

	newMember := uuid.New()
	err := s.MutateProject(p.ID, func(p *model.Project) error {
		p.Members = append(p.Members, newMember)
		return nil
	})
	require.NoError(t, err)

	got, err := s.GetProject(p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasMember(newMember))

	err = s.MutateProject(uuid.New(), func(p *model.Project) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
