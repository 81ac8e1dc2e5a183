package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bulletin/internal/constants"
	"bulletin/internal/middleware"
	"bulletin/internal/service"
	"bulletin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Fail 按错误类型写出响应
func Fail(c *gin.Context, err error, loginURL string, log *logger.Logger) {
	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		middleware.RedirectToLogin(c, loginURL)
	case errors.Is(err, service.ErrAnnouncementNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": constants.ErrAnnouncementNotFound})
	case errors.Is(err, service.ErrDismissalConflict):
		c.JSON(http.StatusConflict, gin.H{"code": 409, "msg": constants.ErrDismissalConflict})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + "：" + err.Error()})
	default:
		log.Error("请求处理失败", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
	}
}

// ParseID 解析路径中的公告ID
func ParseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("pk"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": constants.ErrInvalidAnnouncement})
		return 0, false
	}
	return id, true
}

// IsAjax 是否为XMLHttpRequest请求
func IsAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// SafeRedirect 只允许跳转到本站地址，否则返回 fallback。
// 浏览器把反斜杠当作斜杠处理，因此含反斜杠或以 // 开头的地址一律拒绝。
func SafeRedirect(target, host, fallback string) string {
	if target == "" || strings.Contains(target, "\\") || strings.HasPrefix(target, "//") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != host {
		return fallback
	}
	if u.Host == "" && (u.Scheme != "" || len(u.Path) == 0 || u.Path[0] != '/') {
		return fallback
	}
	return target
}
