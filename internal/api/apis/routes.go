package apis

import (
	"bulletin/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// RegisterAccountRoutes 注册登录相关路由
func RegisterAccountRoutes(router *gin.RouterGroup, accountHandler *handler.AccountHandler) {
	router.GET("/login/", accountHandler.LoginForm)
	router.POST("/login/", accountHandler.Login)
	router.POST("/logout/", accountHandler.Logout)
}
