package wire

import (
	"Liveboard/internal/api"
	"Liveboard/internal/api/config"
	"Liveboard/internal/api/dto"
	"Liveboard/internal/api/handler"
	"Liveboard/internal/job"
	"Liveboard/internal/pkg/cron"
	"Liveboard/internal/pkg/hub"
	"Liveboard/internal/repository"
	"Liveboard/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router     *gin.Engine
	DB         *gorm.DB
	CronMgr    *cron.Manager
	BoardHub   *hub.Hub[dto.BoardDTO]
	CommentHub *hub.Hub[dto.CommentDTO]
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	boardRepo := repository.NewBoardRepo(db)
	viewLogRepo := repository.NewBoardViewLogRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	memberRepo := repository.NewMemberRepo(db)

	// 每种广播实体一个 Hub，随服务启动创建、随退出关闭。
	// 帖子流保留最近一条用于迟到订阅者回放，评论流不回放。
	boardHub := hub.New[dto.BoardDTO](cfg.Hub.BufferSize, true)
	commentHub := hub.New[dto.CommentDTO](cfg.Hub.BufferSize, false)

	viewLogService := service.NewViewLogService(viewLogRepo)
	boardService := service.NewBoardService(boardRepo, viewLogService, boardHub)
	commentService := service.NewCommentService(commentRepo, boardRepo, commentHub)
	memberService := service.NewMemberService(memberRepo)

	handlers := &api.HandlersGroup{
		AuthHandler:    handler.NewAuthHandler(memberService),
		BoardHandler:   handler.NewBoardHandler(boardService),
		CommentHandler: handler.NewCommentHandler(commentService),
		StreamHandler:  handler.NewStreamHandler(boardService, commentService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewViewLogCleanJob(viewLogRepo))

	return &ApplicationContainer{
		Router:     router,
		DB:         db,
		CronMgr:    cronMgr,
		BoardHub:   boardHub,
		CommentHub: commentHub,
	}, nil
}
