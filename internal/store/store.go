package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already exists")
)

// Store is the in-memory board fixture. All state lives in process memory
// and is gone when the process exits. Every operation is applied atomically
// under a single RWMutex.
type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*model.User
	usersByEmail map[string]uuid.UUID

	projects map[uuid.UUID]*model.Project

	tasks          map[uuid.UUID]*model.Task
	tasksByProject map[uuid.UUID][]uuid.UUID // creation order per project

	messages map[uuid.UUID][]model.Message // chat transcript per project

	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		users:          make(map[uuid.UUID]*model.User),
		usersByEmail:   make(map[string]uuid.UUID),
		projects:       make(map[uuid.UUID]*model.Project),
		tasks:          make(map[uuid.UUID]*model.Task),
		tasksByProject: make(map[uuid.UUID][]uuid.UUID),
		messages:       make(map[uuid.UUID][]model.Message),
		logger:         logger,
	}
}

func cloneUUIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

func cloneTask(t *model.Task) model.Task {
	c := *t
	c.Assignees = cloneUUIDs(t.Assignees)
	c.Acknowledged = cloneUUIDs(t.Acknowledged)
	if t.Subtasks != nil {
		c.Subtasks = make([]model.Subtask, len(t.Subtasks))
		for i, st := range t.Subtasks {
			c.Subtasks[i] = st
			c.Subtasks[i].Assignees = cloneUUIDs(st.Assignees)
		}
	}
	if t.Attachments != nil {
		c.Attachments = make([]model.Attachment, len(t.Attachments))
		copy(c.Attachments, t.Attachments)
	}
	return c
}

func cloneProject(p *model.Project) model.Project {
	c := *p
	c.Members = cloneUUIDs(p.Members)
	return c
}
