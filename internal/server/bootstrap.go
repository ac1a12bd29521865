package server

import (
	"fmt"

	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/pkg/config"
	"github.com/yockii/ppt_tools/pkg/database"
	"github.com/yockii/ppt_tools/pkg/logger"
	"github.com/yockii/ppt_tools/pkg/util"
)

// Run 初始化配置、日志、数据库后启动服务，阻塞到服务停止
func Run(configFile string) error {
	// 初始化配置
	if err := config.Init(configFile); err != nil {
		return fmt.Errorf("初始化配置失败: %w", err)
	}

	if err := util.InitNode(config.GetUint64("node.id")); err != nil {
		return fmt.Errorf("初始化ID生成器失败: %w", err)
	}

	// 初始化日志
	logger.Init()
	defer logger.Sync()

	// 连接数据库
	if err := database.Init(); err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}
	defer database.Close()

	// 数据库迁移
	if err := model.AutoMigrate(database.GetDB()); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 创建服务器实例
	return New(database.GetDB()).Start()
}
