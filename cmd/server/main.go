package main

import (
	"github.com/0xdevcollins/boundless-backend-sub001/internal/config"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/escrow"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logger"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/logic"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/notify"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/repository"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/router"
	"github.com/0xdevcollins/boundless-backend-sub001/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化托管网关客户端
	gateway := escrow.NewClient(cfg.Escrow)

	// 初始化通知分发器
	dispatcher, err := notify.NewGatewayDispatcher(cfg.Notify)
	if err != nil {
		logger.Fatal("Failed to initialize notification dispatcher: %v", err)
	}
	defer dispatcher.Release()

	// 生命周期引擎
	lifecycle := logic.NewLifecycleLogic(db, gateway, dispatcher, cfg.Governance)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, lifecycle, cfg)

	// 启动定时任务
	manager := scheduler.Start(db, dispatcher, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
