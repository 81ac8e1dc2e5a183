package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"bulletin/internal/auth"
	"bulletin/internal/constants"
	"bulletin/internal/middleware"
	"bulletin/internal/model"
	"bulletin/internal/service"
	"bulletin/internal/templatetag"
	"bulletin/pkg/logger"

	"github.com/gin-gonic/gin"
)

const activeAnnouncementsTag = "announcements as announcements_list"

// AnnouncementHandler 公告处理器
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	dismissalService    *service.DismissalService
	backend             *auth.Backend
	sessions            *middleware.Sessions
	tag                 *templatetag.Announcements
	prefix              string
	loginURL            string
	logger              *logger.Logger
}

// NewAnnouncementHandler 创建公告处理器实例
func NewAnnouncementHandler(
	announcementService *service.AnnouncementService,
	dismissalService *service.DismissalService,
	backend *auth.Backend,
	sessions *middleware.Sessions,
	prefix, loginURL string,
	logger *logger.Logger,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		dismissalService:    dismissalService,
		backend:             backend,
		sessions:            sessions,
		tag:                 templatetag.NewAnnouncements(announcementService),
		prefix:              prefix,
		loginURL:            loginURL,
		logger:              logger,
	}
}

func (h *AnnouncementHandler) canManage(c *gin.Context) bool {
	return h.backend.HasPerm(middleware.CurrentUser(c), auth.PermManageAnnouncements)
}

// renderActive 通过模板标签取得当前访问者可见的公告
func (h *AnnouncementHandler) renderActive(c *gin.Context) (any, error) {
	as, err := templatetag.Parse(strings.Fields(activeAnnouncementsTag))
	if err != nil {
		return nil, err
	}

	rc := templatetag.RenderContext{
		templatetag.RequestKey: &templatetag.Request{
			User:    middleware.CurrentUser(c),
			Session: middleware.CurrentSession(c),
		},
	}
	if err := h.tag.Render(c.Request.Context(), rc, as); err != nil {
		return nil, err
	}
	return rc[as], nil
}

// GetAnnouncements 公告列表。管理者看到全部公告（分页），其他访问者看到当前可见的公告。
// @Router {prefix}/ [get]
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	if !h.canManage(c) {
		h.GetActiveAnnouncements(c)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	result, err := h.announcementService.GetAnnouncementsAdmin(c.Request.Context(), page, pageSize)
	if err != nil {
		Fail(c, err, h.loginURL, h.logger)
		return
	}

	totalPages := int64(0)
	if result.Total > 0 {
		totalPages = (result.Total + int64(pageSize) - 1) / int64(pageSize)
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"pages":     totalPages,
			"total":     result.Total,
		},
		"data": result.Items,
	})
}

// GetActiveAnnouncements 当前访问者可见的公告
// @Router {prefix}/active/ [get]
func (h *AnnouncementHandler) GetActiveAnnouncements(c *gin.Context) {
	announcements, err := h.renderActive(c)
	if err != nil {
		Fail(c, err, h.loginURL, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": announcements,
	})
}

// GetAnnouncementByID 公告详情
// @Router {prefix}/announcement/{pk}/ [get]
func (h *AnnouncementHandler) GetAnnouncementByID(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}

	announcement, err := h.announcementService.GetAnnouncementByID(c.Request.Context(), id)
	if err != nil {
		Fail(c, err, h.loginURL, h.logger)
		return
	}

	canManage := h.canManage(c)
	if !service.CanView(announcement, middleware.CurrentUser(c), canManage, time.Now()) {
		Fail(c, service.ErrAnnouncementNotFound, h.loginURL, h.logger)
		return
	}

	data := AnnouncementPayload(announcement, h.prefix)
	data["can_manage"] = canManage
	if canManage {
		count, err := h.dismissalService.DismissalCount(c.Request.Context(), announcement.ID)
		if err != nil {
			Fail(c, err, h.loginURL, h.logger)
			return
		}
		data["dismissal_count"] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": data,
	})
}

// DismissAnnouncement 关闭公告。
// 成功时跳转回来源页面（AJAX请求返回空JSON），不允许关闭的公告返回409。
// @Router {prefix}/announcement/{pk}/hide/ [post]
func (h *AnnouncementHandler) DismissAnnouncement(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	announcement, err := h.announcementService.GetAnnouncementByID(ctx, id)
	if err != nil {
		Fail(c, err, h.loginURL, h.logger)
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.dismissalService.Dismiss(ctx, announcement, middleware.CurrentUser(c), sess); err != nil {
		Fail(c, err, h.loginURL, h.logger)
		return
	}
	if err := h.sessions.Commit(c); err != nil {
		Fail(c, err, h.loginURL, h.logger)
		return
	}

	if IsAjax(c) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.Redirect(http.StatusFound, SafeRedirect(c.GetHeader("Referer"), c.Request.Host, "/"))
}

// AnnouncementPayload 公告详情及相关地址
func AnnouncementPayload(a *model.Announcement, prefix string) gin.H {
	return gin.H{
		"object":      a,
		"detail_url":  a.DetailPath(prefix),
		"dismiss_url": a.DismissPath(prefix),
	}
}
