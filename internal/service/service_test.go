package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

// fakePublisher captures published events instead of talking to RabbitMQ.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	routingKey string
	payload    any
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

func (f *fakePublisher) routingKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, len(f.events))
	for i, e := range f.events {
		keys[i] = e.routingKey
	}
	return keys
}

type fixture struct {
	store     *store.Store
	publisher *fakePublisher
	tasks     *TaskService
	projects  *ProjectService
	chat      *ChatService
	activity  *ActivityService

	owner  uuid.UUID
	member uuid.UUID
}

func newFixture() *fixture {
	log := zap.NewNop()
	st := store.NewStore(log)
	pub := &fakePublisher{}

	f := &fixture{
		store:     st,
		publisher: pub,
		tasks:     NewTaskService(st, pub, log),
		projects:  NewProjectService(st, log),
		chat:      NewChatService(st, pub, log),
		activity:  NewActivityService(st, nil, log),
		owner:     uuid.New(),
		member:    uuid.New(),
	}

	f.addUser(f.owner, "owner@example.com")
	f.addUser(f.member, "member@example.com")
	return f
}

func (f *fixture) addUser(id uuid.UUID, email string) {
	err := f.store.CreateUser(&model.User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now(),
	})
	if err != nil {
		panic(err)
	}
}

// newProject creates a project owned by f.owner with f.member as a member.
func (f *fixture) newProject(name string) model.Project {
	p := &model.Project{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: f.owner,
		Members:   []uuid.UUID{f.owner, f.member},
		CreatedAt: time.Now(),
	}
	if err := f.store.CreateProject(p); err != nil {
		panic(err)
	}
	return *p
}

func (f *fixture) newTask(projectID uuid.UUID, title string, assignees ...uuid.UUID) model.Task {
	t := &model.Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
		Status:    model.TaskStatusPending,
		Assignees: assignees,
		CreatedBy: f.owner,
		CreatedAt: time.Now(),
	}
	if err := f.store.CreateTask(t); err != nil {
		panic(err)
	}
	return *t
}

func (f *fixture) newTaskWithDue(projectID uuid.UUID, title string, due time.Time, assignees ...uuid.UUID) model.Task {
	t := &model.Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
		Status:    model.TaskStatusPending,
		DueDate:   &due,
		Assignees: assignees,
		CreatedBy: f.owner,
		CreatedAt: time.Now(),
	}
	if err := f.store.CreateTask(t); err != nil {
		panic(err)
	}
	return *t
}
