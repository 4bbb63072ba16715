package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "taskboard/contracts/mq"
	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/pkg/metrics"
	"taskboard/pkg/rbac"
)

// TaskService owns the per-(task, user) acknowledgment machine:
//
//	Unassigned -> Assigned-New -> Assigned-Acknowledged
//
// Task.Status flips pending/done independently of per-user state.
// Every operation is a total function: acting on a missing task or a
// non-assignee is a guarded no-op, reported through the `applied` return.
type TaskService struct {
	store    *store.Store
	producer EventPublisher
	logger   *zap.Logger
}

func NewTaskService(st *store.Store, producer EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{store: st, producer: producer, logger: logger}
}

type CreateTaskInput struct {
	Title     string
	Notes     string
	DueDate   *time.Time
	Assignees []uuid.UUID
}

func (s *TaskService) CreateTask(ctx context.Context, projectID, creator uuid.UUID, in CreateTaskInput) (model.Task, error) {
	if in.Title == "" {
		return model.Task{}, ErrInvalidInput
	}

	p, err := s.store.GetProject(projectID)
	if err != nil {
		return model.Task{}, err
	}
	role := Role(&p, creator)
	if err := rbac.CheckPermission(role, rbac.PermissionCreateTask); err != nil {
		return model.Task{}, ErrForbidden
	}

	// 去重 + 校验：assignee 必须是项目成员
	assignees := make([]uuid.UUID, 0, len(in.Assignees))
	seen := make(map[uuid.UUID]struct{})
	for _, id := range in.Assignees {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if !p.HasMember(id) {
			return model.Task{}, fmt.Errorf("%w: assignee %s is not a project member", ErrInvalidInput, id)
		}
		assignees = append(assignees, id)
	}

	t := &model.Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     in.Title,
		Notes:     in.Notes,
		Status:    model.TaskStatusPending,
		DueDate:   in.DueDate,
		Assignees: assignees,
		CreatedBy: creator,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateTask(t); err != nil {
		return model.Task{}, err
	}

	for _, userID := range assignees {
		s.publishAssigned(t, userID, creator)
	}

	return *t, nil
}

// authorizeTask resolves the task and its project and checks the actor's
// permission within that project. Returns store.ErrNotFound untouched so
// guarded operations can map it to a no-op.
func (s *TaskService) authorizeTask(taskID, actor uuid.UUID, permission string) (model.Task, model.Project, error) {
	t, err := s.store.GetTask(taskID)
	if err != nil {
		return model.Task{}, model.Project{}, err
	}
	p, err := s.store.GetProject(t.ProjectID)
	if err != nil {
		return model.Task{}, model.Project{}, err
	}
	if err := rbac.CheckPermission(Role(&p, actor), permission); err != nil {
		return model.Task{}, model.Project{}, ErrForbidden
	}
	return t, p, nil
}

// Assign adds the user to the task's assignee set. Idempotent; the user
// enters Assigned-New unless an earlier acknowledgment entry survives,
// in which case they resume at Acknowledged. The actor must be a project
// member and the target must be one too, as in CreateTask.
func (s *TaskService) Assign(ctx context.Context, taskID, actor, userID uuid.UUID) (bool, error) {
	_, p, err := s.authorizeTask(taskID, actor, rbac.PermissionUpdateTask)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("Assign: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !p.HasMember(userID) {
		return false, fmt.Errorf("%w: assignee %s is not a project member", ErrInvalidInput, userID)
	}

	applied := false
	var snapshot model.Task

	err = s.store.MutateTask(taskID, func(t *model.Task) error {
		if t.HasAssignee(userID) {
			return nil
		}
		t.Assignees = append(t.Assignees, userID)
		applied = true
		snapshot = *t
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("Assign: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	metrics.IncrementTaskTransition("assigned")
	s.publishAssigned(&snapshot, userID, actor)
	return true, nil
}

// Accept moves the (task, user) pair to Assigned-Acknowledged and appends
// a chat message referencing the task.
func (s *TaskService) Accept(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	applied := false
	var snapshot model.Task

	err := s.store.MutateTask(taskID, func(t *model.Task) error {
		if !t.HasAssignee(userID) || t.HasAcknowledged(userID) {
			return nil
		}
		t.Acknowledged = append(t.Acknowledged, userID)
		applied = true
		snapshot = *t
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("Accept: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	s.appendTaskMessage(&snapshot, userID, fmt.Sprintf("accepted task %q", snapshot.Title))
	metrics.IncrementTaskTransition("accepted")
	s.publish(mqcontracts.RoutingKeyTaskAccepted, mqcontracts.TaskAckPayload{
		EventID:   uuid.NewString(),
		TaskID:    snapshot.ID.String(),
		ProjectID: snapshot.ProjectID.String(),
		UserID:    userID.String(),
		CreatedBy: snapshot.CreatedBy.String(),
		Title:     snapshot.Title,
		AckedAt:   time.Now(),
	})
	return true, nil
}

// Decline removes the user from the assignee set (back to Unassigned) and
// appends a chat message. Acknowledgment entries are never cleared here:
// neither other users' entries nor the decliner's own.
func (s *TaskService) Decline(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	applied := false
	var snapshot model.Task

	err := s.store.MutateTask(taskID, func(t *model.Task) error {
		if !t.HasAssignee(userID) {
			return nil
		}
		for i, id := range t.Assignees {
			if id == userID {
				t.Assignees = append(t.Assignees[:i], t.Assignees[i+1:]...)
				break
			}
		}
		// 子任务的 assignee 必须是父任务 assignee 的子集
		for i := range t.Subtasks {
			st := &t.Subtasks[i]
			for j, id := range st.Assignees {
				if id == userID {
					st.Assignees = append(st.Assignees[:j], st.Assignees[j+1:]...)
					break
				}
			}
		}
		applied = true
		snapshot = *t
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("Decline: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	s.appendTaskMessage(&snapshot, userID, fmt.Sprintf("declined task %q", snapshot.Title))
	metrics.IncrementTaskTransition("declined")
	s.publish(mqcontracts.RoutingKeyTaskDeclined, mqcontracts.TaskAckPayload{
		EventID:   uuid.NewString(),
		TaskID:    snapshot.ID.String(),
		ProjectID: snapshot.ProjectID.String(),
		UserID:    userID.String(),
		CreatedBy: snapshot.CreatedBy.String(),
		Title:     snapshot.Title,
		AckedAt:   time.Now(),
	})
	return true, nil
}

// ToggleStatus flips the task between pending and done, independent of
// any per-user acknowledgment state. Project members only.
func (s *TaskService) ToggleStatus(ctx context.Context, taskID, actor uuid.UUID) (bool, error) {
	_, _, err := s.authorizeTask(taskID, actor, rbac.PermissionUpdateTask)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("ToggleStatus: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var snapshot model.Task

	err = s.store.MutateTask(taskID, func(t *model.Task) error {
		if t.Status == model.TaskStatusDone {
			t.Status = model.TaskStatusPending
		} else {
			t.Status = model.TaskStatusDone
		}
		snapshot = *t
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("ToggleStatus: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	action := "completed"
	routingKey := mqcontracts.RoutingKeyTaskCompleted
	if snapshot.Status == model.TaskStatusPending {
		action = "reopened"
		routingKey = mqcontracts.RoutingKeyTaskReopened
	}

	assignees := make([]string, 0, len(snapshot.Assignees))
	for _, id := range snapshot.Assignees {
		assignees = append(assignees, id.String())
	}

	metrics.IncrementTaskTransition(action)
	s.publish(routingKey, mqcontracts.TaskStatusPayload{
		EventID:   uuid.NewString(),
		TaskID:    snapshot.ID.String(),
		ProjectID: snapshot.ProjectID.String(),
		UserID:    actor.String(),
		Title:     snapshot.Title,
		Status:    string(snapshot.Status),
		Assignees: assignees,
		ChangedAt: time.Now(),
	})
	return true, nil
}

// Comment appends a chat message referencing the task.
func (s *TaskService) Comment(ctx context.Context, taskID, userID uuid.UUID, text string) (bool, error) {
	if text == "" {
		return false, ErrInvalidInput
	}

	t, err := s.store.GetTask(taskID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("Comment: task not found", zap.String("task_id", taskID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	p, err := s.store.GetProject(t.ProjectID)
	if err != nil {
		return false, err
	}
	if Role(&p, userID) == "" {
		return false, ErrForbidden
	}

	s.appendTaskMessage(&t, userID, text)
	return true, nil
}

// GetTask returns the task by id. The viewer must be a member of the
// task's project.
func (s *TaskService) GetTask(ctx context.Context, taskID, viewer uuid.UUID) (model.Task, error) {
	t, err := s.store.GetTask(taskID)
	if err != nil {
		return model.Task{}, err
	}
	p, err := s.store.GetProject(t.ProjectID)
	if err != nil {
		return model.Task{}, err
	}
	if Role(&p, viewer) == "" {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

// ListProjectTasks returns the project's tasks in creation order. The
// viewer must be a project member.
func (s *TaskService) ListProjectTasks(ctx context.Context, projectID, viewer uuid.UUID) ([]model.Task, error) {
	p, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if Role(&p, viewer) == "" {
		return nil, ErrForbidden
	}
	return s.store.ListTasksByProject(projectID), nil
}

// DeleteTask removes the task. Owner only.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actor uuid.UUID) error {
	t, err := s.store.GetTask(taskID)
	if err != nil {
		return err
	}
	p, err := s.store.GetProject(t.ProjectID)
	if err != nil {
		return err
	}
	if err := rbac.CheckPermission(Role(&p, actor), rbac.PermissionDeleteTask); err != nil {
		return ErrForbidden
	}
	return s.store.DeleteTask(taskID)
}

func (s *TaskService) publishAssigned(t *model.Task, userID, actor uuid.UUID) {
	s.publish(mqcontracts.RoutingKeyTaskAssigned, mqcontracts.TaskAssignedPayload{
		EventID:    uuid.NewString(),
		TaskID:     t.ID.String(),
		ProjectID:  t.ProjectID.String(),
		UserID:     userID.String(),
		AssignedBy: actor.String(),
		Title:      t.Title,
		AssignedAt: time.Now(),
	})
}

// appendTaskMessage records the chat side effect of a task action.
func (s *TaskService) appendTaskMessage(t *model.Task, sender uuid.UUID, content string) {
	taskID := t.ID
	m := &model.Message{
		ID:        uuid.New(),
		ProjectID: t.ProjectID,
		Content:   content,
		SenderID:  sender,
		SentAt:    time.Now(),
		TaskID:    &taskID,
	}
	if err := s.store.AppendMessage(m); err != nil {
		s.logger.Warn("Failed to append task message",
			zap.String("task_id", t.ID.String()),
			zap.Error(err),
		)
	}
}

// publish sends the event without failing the operation: the in-memory
// mutation has already been applied and there is no rollback path.
func (s *TaskService) publish(routingKey string, payload any) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
