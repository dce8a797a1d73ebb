package api

import (
	"Liveboard/internal/api/middleware"
	"Liveboard/internal/pkg/consts"
	"Liveboard/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", group.AuthHandler.Login)
			authGroup.POST("/register", group.AuthHandler.Register)

			loginGroup := authGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/logout", group.AuthHandler.Logout)
			}
		}

		boardGroup := apiGroup.Group("/boards")
		{
			// 列表与实时流对所有用户开放，携带合法 Token 时注入身份
			boardGroup.Use(middleware.AuthOptionalMiddleware())
			boardGroup.GET("", group.BoardHandler.GetBoards)
			boardGroup.GET("/new-posts", group.StreamHandler.StreamNewBoards)
			boardGroup.GET("/:board_id/comments", group.CommentHandler.GetComments)
			boardGroup.GET("/:board_id/comments/stream", group.StreamHandler.StreamComments)

			// 详情与评论需要登录
			loginGroup := boardGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.GET("/:board_id", group.BoardHandler.GetBoard)
				loginGroup.POST("/:board_id/comments", group.CommentHandler.AddComment)
			}

			// 写操作仅限 ADMIN
			adminGroup := loginGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("", group.BoardHandler.CreateBoard)
				adminGroup.PUT("/:board_id", group.BoardHandler.UpdateBoard)
				adminGroup.DELETE("/:board_id", group.BoardHandler.DeleteBoard)
				adminGroup.DELETE("/:board_id/comments/:comment_id", group.CommentHandler.DeleteComment)
			}
		}

		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/boards", group.StreamHandler.StreamNewBoardsWS)
		}
	}

	return r
}
