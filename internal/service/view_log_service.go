package service

import (
	"Liveboard/internal/pkg/logger"
	"Liveboard/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// recordViewTimeout 单次日志追加的有界尝试窗口，超时即放弃，不重试
const recordViewTimeout = 2 * time.Second

// ViewLogService 阅读记账：每次详情读取追加一条日志。
// 追加对读路径完全解耦，失败只记日志，绝不回传给触发它的请求。
type ViewLogService interface {
	RecordView(ctx context.Context, boardID uint64)
}

type ViewLogServiceImpl struct {
	viewLogRepo repository.BoardViewLogRepo
}

func NewViewLogService(viewLogRepo repository.BoardViewLogRepo) ViewLogService {
	return &ViewLogServiceImpl{viewLogRepo: viewLogRepo}
}

// RecordView 异步追加一条阅读日志，立即返回
func (s *ViewLogServiceImpl) RecordView(ctx context.Context, boardID uint64) {
	// 与请求生命周期解耦：只继承 trace_id，不继承取消信号
	detached := context.Background()
	if traceID, ok := ctx.Value(logger.TraceIDKey).(string); ok {
		detached = context.WithValue(detached, logger.TraceIDKey, traceID)
	}

	go func() {
		appendCtx, cancel := context.WithTimeout(detached, recordViewTimeout)
		defer cancel()

		if err := s.viewLogRepo.Append(appendCtx, boardID); err != nil {
			log.WarnContext(appendCtx, "view log append failed", "boardID", boardID, "err", err)
		}
	}()
}
