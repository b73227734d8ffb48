package router

import (
	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/handler"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, lifecycle *logic.LifecycleLogic, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "boundless-backend",
		})
	})

	// 运行指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.Auth(cfg.Auth.JWTSecret)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		projectHandler := handler.NewProjectHandler(lifecycle)
		fundingHandler := handler.NewFundingHandler(lifecycle)
		voteHandler := handler.NewVoteHandler(db)

		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/contributions", fundingHandler.GetContributions)
			projects.GET("/:id/votes", voteHandler.GetVotes)

			// 两阶段创建：prepare返回未签名交易，confirm提交签名后落库
			projects.POST("/prepare", auth, projectHandler.PrepareCreate)
			projects.POST("/confirm", auth, projectHandler.ConfirmCreate)

			projects.PUT("/:id", auth, projectHandler.UpdateProject)
			projects.DELETE("/:id", auth, projectHandler.DeleteProject)
			projects.POST("/:id/cancel", auth, projectHandler.CancelProject)

			// 两阶段注资
			projects.POST("/:id/fund/prepare", auth, fundingHandler.PrepareFund)
			projects.POST("/:id/fund/confirm", auth, fundingHandler.ConfirmFund)

			projects.POST("/:id/votes", auth, voteHandler.CastVote)
		}

		// 管理员路由
		adminHandler := handler.NewAdminHandler(lifecycle)
		admin := v1.Group("/admin", auth, middleware.RequireAdmin())
		{
			admin.POST("/projects/:id/review", adminHandler.ReviewProject)
			admin.GET("/reconciliations", adminHandler.GetReconciliations)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
