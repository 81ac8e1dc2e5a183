package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bulletin/config"
	"bulletin/internal/model"
	"bulletin/internal/repository"
	"bulletin/internal/service"
	"bulletin/internal/session"
	"bulletin/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	sessionContextKey = "session"
	userContextKey    = "user"
)

// Sessions 会话与当前用户解析
type Sessions struct {
	store       *session.Store
	userService service.UserService
	cfg         config.SessionConfig
	logger      *logger.Logger
}

// NewSessions 创建会话中间件管理器
func NewSessions(store *session.Store, userService service.UserService, cfg config.SessionConfig, logger *logger.Logger) *Sessions {
	return &Sessions{
		store:       store,
		userService: userService,
		cfg:         cfg,
		logger:      logger,
	}
}

// Load 加载会话并解析当前用户：优先使用会话中的登录用户，其次是Authorization头中的Token
func (m *Sessions) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		if id, err := c.Cookie(m.cfg.CookieName); err == nil {
			sess, err = m.store.Load(ctx, id)
			if err != nil && !errors.Is(err, session.ErrNotFound) {
				m.logger.Warn("读取会话失败", "error", err)
			}
		}
		if sess == nil {
			sess = session.New()
		}
		c.Set(sessionContextKey, sess)

		if user := m.resolveUser(c, sess); user != nil {
			c.Set(userContextKey, user)
		}

		c.Next()

		// 响应已经写出，这里只能补写会话内容
		if sess.Modified() {
			if err := m.store.Save(ctx, sess); err != nil {
				m.logger.Error("保存会话失败", "error", err)
			}
		}
	}
}

func (m *Sessions) resolveUser(c *gin.Context, sess *session.Session) *model.User {
	ctx := c.Request.Context()

	if sess.UserID != 0 {
		user, err := m.userService.GetByID(ctx, sess.UserID)
		if err == nil {
			return user
		}
		if errors.Is(err, repository.ErrNotFound) {
			sess.Logout()
		} else {
			m.logger.Error("获取会话用户失败", "user_id", sess.UserID, "error", err)
		}
		return nil
	}

	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		return nil
	}
	user, err := m.userService.GetByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.Error("校验Token失败", "error", err)
		}
		return nil
	}
	return user
}

// Commit 保存会话并下发会话Cookie，需在写响应之前调用
func (m *Sessions) Commit(c *gin.Context) error {
	sess := CurrentSession(c)
	if sess.Modified() {
		if err := m.store.Save(c.Request.Context(), sess); err != nil {
			return err
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, sess.ID, int(m.store.TTL().Seconds()), "/", "", m.cfg.Secure, true)
	return nil
}

// Login 将用户绑定到当前会话并下发新的会话Cookie，更换ID前的会话从存储中删除
func (m *Sessions) Login(c *gin.Context, userID int64) error {
	sess := CurrentSession(c)
	oldID := sess.ID
	sess.Login(userID)
	if err := m.Commit(c); err != nil {
		return err
	}
	if err := m.store.Delete(c.Request.Context(), oldID); err != nil {
		m.logger.Warn("删除旧会话失败", "error", err)
	}
	return nil
}

// CurrentSession 获取当前请求的会话
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess := session.New()
	c.Set(sessionContextKey, sess)
	return sess
}

// CurrentUser 获取当前登录用户，匿名访问返回nil
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// SetCurrentUser 设置当前登录用户
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(userContextKey, user)
}
