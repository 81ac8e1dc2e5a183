package apis

import (
	"bulletin/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// RegisterAnnouncementRoutes 注册公告浏览和关闭路由
func RegisterAnnouncementRoutes(router *gin.RouterGroup, announcementHandler *handler.AnnouncementHandler) {
	router.GET("/", announcementHandler.GetAnnouncements)
	router.GET("/active/", announcementHandler.GetActiveAnnouncements)
	router.GET("/announcement/:pk/", announcementHandler.GetAnnouncementByID)
	router.POST("/announcement/:pk/hide/", announcementHandler.DismissAnnouncement)
}
