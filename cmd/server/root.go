package main

import (
	"bulletin/config"
	"bulletin/pkg/database"
	"bulletin/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "bulletin",
	Short:        "Site announcements service",
	Long:         `bulletin serves site-wide announcements that staff can publish and visitors can dismiss.`,
	SilenceUsage: true,
}

// setup 加载配置并初始化日志和数据库连接
func setup() (*config.Config, *logger.Logger, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)

	db, err := database.NewMySQLConnection(cfg.Database)
	if err != nil {
		log.Error("无法链接到数据库", "error", err)
		log.Close()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
