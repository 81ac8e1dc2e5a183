package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"bulletin/internal/auth"

	"github.com/gin-gonic/gin"
)

// LoginRedirectURL 构建登录跳转地址，next 参数保留路径中的斜杠
func LoginRedirectURL(loginURL, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + escaped
}

// RedirectToLogin 跳转到登录页，next 为当前请求地址
func RedirectToLogin(c *gin.Context, loginURL string) {
	c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request.URL.RequestURI()))
	c.Abort()
}

// RequirePermission 权限校验中间件。
// 未登录和已登录但无权限的用户都跳转到登录页，而不是返回403。
func RequirePermission(backend *auth.Backend, perm, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !backend.HasPerm(CurrentUser(c), perm) {
			RedirectToLogin(c, loginURL)
			return
		}
		c.Next()
	}
}
