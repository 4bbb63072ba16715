package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/pkg/metrics"
)

const activityCacheTTL = 30 * time.Second

type ActivityBucket string

const (
	BucketNew    ActivityBucket = "new"    // assigned, not yet acknowledged, pending
	BucketActive ActivityBucket = "active" // assigned, acknowledged, pending
	BucketDone   ActivityBucket = "done"   // assigned, task marked done
)

type ActivityTask struct {
	Task   model.Task     `json:"task"`
	Bucket ActivityBucket `json:"bucket"`
}

type ProjectActivity struct {
	ProjectID   uuid.UUID      `json:"project_id"`
	ProjectName string         `json:"project_name"`
	Tasks       []ActivityTask `json:"tasks"`
}

type ActivityView struct {
	UserID      uuid.UUID         `json:"user_id"`
	Projects    []ProjectActivity `json:"projects"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// ActivityService derives the per-user Activity inbox: pure projections
// over the store, grouped by project, cached briefly in Redis.
type ActivityService struct {
	store  *store.Store
	rdb    *redis.Client
	logger *zap.Logger
}

func NewActivityService(st *store.Store, rdb *redis.Client, logger *zap.Logger) *ActivityService {
	return &ActivityService{store: st, rdb: rdb, logger: logger}
}

// Inbox computes the user's activity view: assigned tasks bucketed into
// new / active / done, new-first, due date ascending with nil due dates
// last, grouped by project.
func (s *ActivityService) Inbox(ctx context.Context, userID uuid.UUID) (ActivityView, error) {
	cacheKey := fmt.Sprintf("activity:%s", userID)

	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached ActivityView
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.IncrementActivityCache("hit")
				return cached, nil
			}
		}
		metrics.IncrementActivityCache("miss")
	}

	view := s.compute(userID)

	if s.rdb != nil {
		if data, err := json.Marshal(view); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, activityCacheTTL).Err(); err != nil {
				// 缓存失败不影响结果
				s.logger.Debug("Failed to cache activity view", zap.Error(err))
			}
		}
	}

	return view, nil
}

func bucketFor(t *model.Task, userID uuid.UUID) ActivityBucket {
	if t.Status == model.TaskStatusDone {
		return BucketDone
	}
	if t.IsNewFor(userID) {
		return BucketNew
	}
	return BucketActive
}

func bucketRank(b ActivityBucket) int {
	switch b {
	case BucketNew:
		return 0
	case BucketActive:
		return 1
	default:
		return 2
	}
}

func (s *ActivityService) compute(userID uuid.UUID) ActivityView {
	tasks := s.store.ListTasksForUser(userID)

	groups := make(map[uuid.UUID]*ProjectActivity)
	for _, t := range tasks {
		g, ok := groups[t.ProjectID]
		if !ok {
			p, err := s.store.GetProject(t.ProjectID)
			if err != nil {
				// 项目已被删除：跳过孤儿任务
				continue
			}
			g = &ProjectActivity{ProjectID: p.ID, ProjectName: p.Name}
			groups[t.ProjectID] = g
		}
		g.Tasks = append(g.Tasks, ActivityTask{Task: t, Bucket: bucketFor(&t, userID)})
	}

	view := ActivityView{UserID: userID, GeneratedAt: time.Now()}
	for _, g := range groups {
		sortActivityTasks(g.Tasks)
		view.Projects = append(view.Projects, *g)
	}
	sort.Slice(view.Projects, func(i, j int) bool {
		return view.Projects[i].ProjectName < view.Projects[j].ProjectName
	})
	return view
}

// sortActivityTasks orders new-first, then due date ascending with nil
// due dates last, ties by creation time.
func sortActivityTasks(tasks []ActivityTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := bucketRank(tasks[i].Bucket), bucketRank(tasks[j].Bucket)
		if ri != rj {
			return ri < rj
		}

		di, dj := tasks[i].Task.DueDate, tasks[j].Task.DueDate
		switch {
		case di == nil && dj == nil:
			return tasks[i].Task.CreatedAt.Before(tasks[j].Task.CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.Before(*dj)
		}
		return tasks[i].Task.CreatedAt.Before(tasks[j].Task.CreatedAt)
	})
}
