package job

import (
	"Liveboard/internal/pkg/logger"
	"Liveboard/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ViewLogCleanJob 清理孤儿阅读日志。帖子删除不级联日志，
// 孤儿日志不再参与任何聚合，定期清理只是回收存储。
type ViewLogCleanJob struct {
	viewLogRepo repository.BoardViewLogRepo
}

func NewViewLogCleanJob(viewLogRepo repository.BoardViewLogRepo) *ViewLogCleanJob {
	return &ViewLogCleanJob{
		viewLogRepo: viewLogRepo,
	}
}

func (s *ViewLogCleanJob) Run() {
	traceID := "job-viewlog-clean-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	deleted, err := s.viewLogRepo.DeleteOrphans(ctx)
	if err != nil {
		log.ErrorContext(ctx, "view log clean failed", "err", err)
		return
	}
	log.InfoContext(ctx, "view log clean finished", "deleted", deleted)
}
