package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sync"
	"time"

	json "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel"

	"github.com/temsafy/temsafy/internal/services/analytics"
	"github.com/temsafy/temsafy/internal/services/project"
	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/workload"
)

const (
	recentLimit = 10

	// cacheTTL bounds how long an unchanged snapshot is served without
	// recomputation when no change notification arrived.
	cacheTTL = 5 * time.Second
)

// DashboardService assembles the realtime snapshot. The serialized body and
// its content hash are cached between change notifications so unchanged
// polls can be answered with 304 without touching the store.
type DashboardService struct {
	analytics *analytics.AnalyticsRepo
	tasks     *task.TaskRepo
	projects  *project.ProjectRepo
	workload  *workload.WorkloadService

	mu         sync.Mutex
	cachedBody []byte
	cachedHash string
	cachedAt   time.Time
	dirty      bool
}

func NewDashboardService(analyticsRepo *analytics.AnalyticsRepo, taskRepo *task.TaskRepo, projectRepo *project.ProjectRepo, workloadSvc *workload.WorkloadService) *DashboardService {
	return &DashboardService{
		analytics: analyticsRepo,
		tasks:     taskRepo,
		projects:  projectRepo,
		workload:  workloadSvc,
		dirty:     true,
	}
}

// Invalidate marks the cached snapshot stale. Wired to the pubsub listener
// so any task/project write forces a rebuild on the next poll.
func (s *DashboardService) Invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Realtime returns the serialized snapshot and its content hash. Callers
// compare the hash against If-None-Match to answer unchanged polls with 304.
func (s *DashboardService) Realtime(ctx context.Context) ([]byte, string, error) {
	s.mu.Lock()
	if !s.dirty && time.Since(s.cachedAt) < cacheTTL && s.cachedBody != nil {
		body, hash := s.cachedBody, s.cachedHash
		s.mu.Unlock()
		return body, hash, nil
	}
	s.mu.Unlock()

	snap, err := s.build(ctx)
	if err != nil {
		return nil, "", err
	}

	// Hash over the content without the timestamp, so identical data
	// produces identical hashes across polls.
	withoutTS := *snap
	withoutTS.Timestamp = time.Time{}
	canonical, err := json.Marshal(&withoutTS)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(canonical)
	hash := hex.EncodeToString(sum[:])

	body, err := json.Marshal(snap)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.cachedBody = body
	s.cachedHash = hash
	s.cachedAt = time.Now()
	s.dirty = false
	s.mu.Unlock()

	return body, hash, nil
}

func (s *DashboardService) build(ctx context.Context) (snap *Snapshot, err error) {
	ctx, span := otel.Tracer("dashboard").Start(ctx, "dashboard.build")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	totalTasks, err := s.analytics.Count(ctx, "tasks")
	if err != nil {
		return nil, err
	}

	totalProjects, err := s.analytics.Count(ctx, "projects")
	if err != nil {
		return nil, err
	}

	tasksByStatus, err := s.analytics.GroupCount(ctx, "tasks", "status")
	if err != nil {
		return nil, err
	}

	completed, err := s.analytics.CompletedTaskCount(ctx)
	if err != nil {
		return nil, err
	}

	overdue, err := s.tasks.ListOverdue(ctx)
	if err != nil {
		return nil, err
	}

	urgent, err := s.tasks.ListUrgentActive(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, teamSummary, err := s.workload.Snapshots(ctx, &workload.WorkloadQuery{})
	if err != nil {
		return nil, err
	}

	recentTasks, err := s.tasks.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	recentProjects, err := s.projects.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	snap = &Snapshot{
		Summary: Summary{
			TotalTasks:    totalTasks,
			TasksByStatus: tasksByStatus,
			TotalProjects: totalProjects,
		},
		Critical: Critical{
			OverdueTasks: overdue,
			UrgentTasks:  urgent,
		},
		Workload: WorkloadView{
			Users:       snapshots,
			TeamSummary: teamSummary,
		},
		Recent: Recent{
			Tasks:    recentTasks,
			Projects: recentProjects,
		},
		Timestamp: time.Now().UTC(),
	}

	if totalTasks > 0 {
		snap.Summary.CompletionRate = int(math.Round(float64(completed) / float64(totalTasks) * 100))
	}

	return snap, nil
}
