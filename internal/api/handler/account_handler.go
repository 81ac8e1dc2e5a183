package handler

import (
	"errors"
	"net/http"

	"bulletin/internal/constants"
	"bulletin/internal/middleware"
	"bulletin/internal/service"
	"bulletin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AccountHandler 登录处理器
type AccountHandler struct {
	userService service.UserService
	sessions    *middleware.Sessions
	logger      *logger.Logger
}

// NewAccountHandler 创建登录处理器实例
func NewAccountHandler(userService service.UserService, sessions *middleware.Sessions, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{
		userService: userService,
		sessions:    sessions,
		logger:      logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// LoginForm 登录表单说明
// @Router /account/login/ [get]
func (h *AccountHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.ErrUnauthorized,
		"data": gin.H{
			"fields": []string{"username", "password"},
			"next":   c.Query("next"),
		},
	})
}

// Login 用户登录，成功后将用户绑定到会话。
// JSON请求返回Token，表单请求跳转到 next。
// @Router /account/login/ [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams})
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": constants.ErrAuthFailed})
			return
		}
		h.logger.Error("登录失败", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	if err := h.sessions.Login(c, user.ID); err != nil {
		h.logger.Error("保存会话失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}
	h.logger.Info("用户登录", "user_id", user.ID)

	if c.ContentType() == binding.MIMEJSON {
		c.JSON(http.StatusOK, gin.H{
			"code": 200,
			"msg":  constants.SuccessLogin,
			"data": gin.H{"token": user.Token},
		})
		return
	}
	c.Redirect(http.StatusFound, SafeRedirect(req.Next, c.Request.Host, "/"))
}

// Logout 退出登录
// @Router /account/logout/ [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	middleware.CurrentSession(c).Logout()
	if err := h.sessions.Commit(c); err != nil {
		h.logger.Error("保存会话失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessLogout})
}
