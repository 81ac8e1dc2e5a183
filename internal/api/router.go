package api

import (
	"net/http"

	"bulletin/config"
	"bulletin/internal/api/admin"
	"bulletin/internal/api/apis"
	"bulletin/internal/api/handler"
	"bulletin/internal/auth"
	"bulletin/internal/middleware"
	"bulletin/internal/repository"
	"bulletin/internal/service"
	"bulletin/internal/session"
	"bulletin/pkg/logger"
	"bulletin/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Repositories 路由依赖的存储库
type Repositories struct {
	Announcements repository.AnnouncementRepository
	Dismissals    repository.DismissalRepository
	Users         repository.UserRepository
}

// SetupRouter 使用MySQL存储库设置API路由
func SetupRouter(cfg *config.Config, logger *logger.Logger, db *sqlx.DB, redisClient *redis.Client) *gin.Engine {
	return NewRouter(cfg, logger, Repositories{
		Announcements: repository.NewAnnouncementRepository(db),
		Dismissals:    repository.NewDismissalRepository(db),
		Users:         repository.NewUserRepository(db),
	}, redisClient)
}

// NewRouter 设置API路由
func NewRouter(cfg *config.Config, logger *logger.Logger, repos Repositories, redisClient *redis.Client) *gin.Engine {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	// 初始化服务
	sessionStore := session.NewStore(redisClient, cfg.Session.TTL)
	userService := service.NewUserService(repos.Users, logger)
	announcementService := service.NewAnnouncementService(repos.Announcements, redisClient, cfg.CacheTTL, logger)
	dismissalService := service.NewDismissalService(repos.Dismissals, sessionStore, logger)
	backend := auth.NewBackend()
	sessions := middleware.NewSessions(sessionStore, userService, cfg.Session, logger)

	// 初始化处理器
	accountHandler := handler.NewAccountHandler(userService, sessions, logger)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, dismissalService, backend, sessions, cfg.URLPrefix, cfg.LoginURL, logger)
	announcementAdminHandler := admin.NewAnnouncementAdminHandler(announcementService, cfg.URLPrefix, cfg.LoginURL, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	site := router.Group("")
	site.Use(sessions.Load())

	apis.RegisterAccountRoutes(site.Group("/account"), accountHandler)

	announcements := site.Group(cfg.URLPrefix)
	apis.RegisterAnnouncementRoutes(announcements, announcementHandler)

	manage := middleware.RequirePermission(backend, auth.PermManageAnnouncements, cfg.LoginURL)
	admin.RegisterAdminRoutes(announcements, manage, announcementAdminHandler)

	return router
}
