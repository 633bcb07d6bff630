package services

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/temsafy/temsafy/internal/config"
	"github.com/temsafy/temsafy/internal/db"
	"github.com/temsafy/temsafy/internal/pubsub"
	"github.com/temsafy/temsafy/internal/ratelimit"
	"github.com/temsafy/temsafy/internal/services/analytics"
	"github.com/temsafy/temsafy/internal/services/dashboard"
	"github.com/temsafy/temsafy/internal/services/department"
	"github.com/temsafy/temsafy/internal/services/feedback"
	"github.com/temsafy/temsafy/internal/services/notification"
	"github.com/temsafy/temsafy/internal/services/project"
	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/user"
	"github.com/temsafy/temsafy/internal/services/workload"
)

type Services struct {
	User         *user.UserService
	Department   *department.DepartmentService
	Project      *project.ProjectService
	Task         *task.TaskService
	Feedback     *feedback.FeedbackService
	Notification *notification.NotificationService
	Workload     *workload.WorkloadService
	Analytics    *analytics.AnalyticsService
	Dashboard    *dashboard.DashboardService

	PubSub       *pubsub.PubSub
	LoginLimiter ratelimit.Storage
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	analyticsRepo := analytics.NewAnalyticsRepo(dbconn)
	taskRepo := task.NewTaskRepo(dbconn)
	projectRepo := project.NewProjectRepo(dbconn)
	notificationSvc := notification.NewNotificationService(notification.NewNotificationRepo(dbconn))
	workloadSvc := workload.NewWorkloadService(workload.NewWorkloadRepo(dbconn))
	dashboardSvc := dashboard.NewDashboardService(analyticsRepo, taskRepo, projectRepo, workloadSvc)

	svc := &Services{
		User:         user.NewUserService(user.NewUserRepo(dbconn)),
		Department:   department.NewDepartmentService(department.NewDepartmentRepo(dbconn)),
		Project:      project.NewProjectService(projectRepo),
		Task:         task.NewTaskService(taskRepo, notificationSvc),
		Feedback:     feedback.NewFeedbackService(feedback.NewFeedbackRepo(dbconn)),
		Notification: notificationSvc,
		Workload:     workloadSvc,
		Analytics:    analytics.NewAnalyticsService(analyticsRepo),
		Dashboard:    dashboardSvc,
		PubSub:       pubsub.NewPubSub(conf),
	}

	// Any task or project write invalidates the cached dashboard snapshot,
	// so the next poll returns fresh data instead of a 304.
	svc.PubSub.Subscribe(func(event pubsub.ChangeEvent) {
		dashboardSvc.Invalidate()
	})
	if err := svc.PubSub.Start(); err != nil {
		slog.Warn("Failed to start change listener, dashboard cache falls back to TTL expiry", slog.Any("error", err))
	}

	// Login throttling uses Redis when available so limits hold across
	// replicas; otherwise buckets live in process memory.
	if conf.REDIS_ADDR != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.REDIS_ADDR,
			Password: conf.REDIS_PASSWORD,
		})
		store := ratelimit.NewRedisStorage(client, "")
		if err := store.Ping(context.Background()); err != nil {
			slog.Warn("Failed to connect to Redis, using in-memory rate limiting", slog.Any("error", err))
			svc.LoginLimiter = ratelimit.NewInMemoryStorage()
		} else {
			svc.LoginLimiter = store
			slog.Info("Connected to Redis for rate limiting")
		}
	} else {
		svc.LoginLimiter = ratelimit.NewInMemoryStorage()
	}

	return svc
}

// Stop releases background resources held by the service layer.
func (s *Services) Stop() {
	if s.PubSub != nil {
		s.PubSub.Stop()
	}
	switch limiter := s.LoginLimiter.(type) {
	case *ratelimit.InMemoryStorage:
		limiter.Stop()
	case *ratelimit.RedisStorage:
		_ = limiter.Close()
	}
}
