package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bulletin/internal/api"
	"bulletin/pkg/database"

	"github.com/spf13/cobra"
)

var migrateOnStart bool

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer db.Close()

		if migrateOnStart {
			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("数据库迁移完成")
		}

		// 初始化Redis连接
		redisClient, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Error("无法链接到Redis", "error", err)
			return err
		}
		defer redisClient.Close()

		router := api.SetupRouter(cfg, logger, db, redisClient)

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.APIPort),
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("服务器启动", "port", cfg.APIPort)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// 优雅关闭
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			logger.Error("启动服务器失败", "error", err)
			return err
		case <-quit:
		}

		logger.Info("正在关闭服务器...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("服务器被强制关闭", "error", err)
			return err
		}

		logger.Info("服务器已正常退出")
		return nil
	},
}
