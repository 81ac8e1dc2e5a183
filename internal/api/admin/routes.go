package admin

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册公告管理路由，manage 为权限校验中间件
func RegisterAdminRoutes(router *gin.RouterGroup, manage gin.HandlerFunc, announcementAdminHandler *AnnouncementAdminHandler) {
	announcements := router.Group("/announcement")
	announcements.Use(manage)
	{
		announcements.GET("/create/", announcementAdminHandler.CreateForm)
		announcements.POST("/create/", announcementAdminHandler.CreateAnnouncement)
		announcements.GET("/:pk/update/", announcementAdminHandler.UpdateForm)
		announcements.POST("/:pk/update/", announcementAdminHandler.UpdateAnnouncement)
		announcements.GET("/:pk/delete/", announcementAdminHandler.DeleteConfirm)
		announcements.POST("/:pk/delete/", announcementAdminHandler.DeleteAnnouncement)
	}
}
