package admin

import (
	"net/http"
	"time"

	"bulletin/internal/api/handler"
	"bulletin/internal/constants"
	"bulletin/internal/middleware"
	"bulletin/internal/model"
	"bulletin/internal/service"
	"bulletin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AnnouncementAdminHandler 公告管理处理器
type AnnouncementAdminHandler struct {
	announcementService *service.AnnouncementService
	prefix              string
	loginURL            string
	logger              *logger.Logger
}

// NewAnnouncementAdminHandler 创建公告管理处理器实例
func NewAnnouncementAdminHandler(announcementService *service.AnnouncementService, prefix, loginURL string, logger *logger.Logger) *AnnouncementAdminHandler {
	return &AnnouncementAdminHandler{
		announcementService: announcementService,
		prefix:              prefix,
		loginURL:            loginURL,
		logger:              logger,
	}
}

// CreateAnnouncementRequest 创建公告请求，支持表单和JSON
type CreateAnnouncementRequest struct {
	Title         string              `form:"title" json:"title" binding:"required,max=50"`
	Content       string              `form:"content" json:"content" binding:"required"`
	SiteWide      bool                `form:"site_wide" json:"site_wide"`
	MembersOnly   bool                `form:"members_only" json:"members_only"`
	DismissalType model.DismissalType `form:"dismissal_type" json:"dismissal_type" binding:"omitempty,oneof=1 2 3"`
	PublishStart  *time.Time          `form:"publish_start" json:"publish_start" time_format:"2006-01-02T15:04:05Z07:00"`
	PublishEnd    *time.Time          `form:"publish_end" json:"publish_end" time_format:"2006-01-02T15:04:05Z07:00"`
}

// UpdateAnnouncementRequest 更新公告请求，只修改提交的字段
type UpdateAnnouncementRequest struct {
	Title         *string              `form:"title" json:"title" binding:"omitempty,max=50"`
	Content       *string              `form:"content" json:"content"`
	SiteWide      *bool                `form:"site_wide" json:"site_wide"`
	MembersOnly   *bool                `form:"members_only" json:"members_only"`
	DismissalType *model.DismissalType `form:"dismissal_type" json:"dismissal_type" binding:"omitempty,oneof=1 2 3"`
	PublishStart  *time.Time           `form:"publish_start" json:"publish_start" time_format:"2006-01-02T15:04:05Z07:00"`
	PublishEnd    *time.Time           `form:"publish_end" json:"publish_end" time_format:"2006-01-02T15:04:05Z07:00"`
}

func dismissalChoices() []gin.H {
	choices := make([]gin.H, 0, 3)
	for _, t := range []model.DismissalType{model.DismissalNo, model.DismissalSession, model.DismissalPermanent} {
		choices = append(choices, gin.H{"value": int(t), "label": t.String()})
	}
	return choices
}

func (h *AnnouncementAdminHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("公告参数绑定失败", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusBadRequest, gin.H{
		"code": 400,
		"msg":  constants.ErrInvalidParams + "：" + err.Error(),
	})
}

// CreateForm 创建公告表单
// @Router {prefix}/announcement/create/ [get]
func (h *AnnouncementAdminHandler) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"form": gin.H{
				"title":          "",
				"content":        "",
				"site_wide":      false,
				"members_only":   false,
				"dismissal_type": int(model.DismissalSession),
				"publish_start":  time.Now().UTC(),
				"publish_end":    nil,
			},
			"dismissal_choices": dismissalChoices(),
		},
	})
}

// CreateAnnouncement 创建公告，成功后跳转到公告详情
// @Router {prefix}/announcement/create/ [post]
func (h *AnnouncementAdminHandler) CreateAnnouncement(c *gin.Context) {
	var req CreateAnnouncementRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	announcement := &model.Announcement{
		Title:         req.Title,
		Content:       req.Content,
		CreatorID:     middleware.CurrentUser(c).ID,
		SiteWide:      req.SiteWide,
		MembersOnly:   req.MembersOnly,
		DismissalType: req.DismissalType,
		PublishEnd:    req.PublishEnd,
	}
	if req.PublishStart != nil {
		announcement.PublishStart = *req.PublishStart
	}

	if err := h.announcementService.CreateAnnouncement(c.Request.Context(), announcement); err != nil {
		handler.Fail(c, err, h.loginURL, h.logger)
		return
	}

	c.Redirect(http.StatusFound, announcement.DetailPath(h.prefix))
}

// UpdateForm 修改公告表单
// @Router {prefix}/announcement/{pk}/update/ [get]
func (h *AnnouncementAdminHandler) UpdateForm(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	announcement, err := h.announcementService.GetAnnouncementByID(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err, h.loginURL, h.logger)
		return
	}

	data := handler.AnnouncementPayload(announcement, h.prefix)
	data["dismissal_choices"] = dismissalChoices()
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": data,
	})
}

// UpdateAnnouncement 修改公告，成功后跳转到公告详情
// @Router {prefix}/announcement/{pk}/update/ [post]
func (h *AnnouncementAdminHandler) UpdateAnnouncement(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	var req UpdateAnnouncementRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	announcement, err := h.announcementService.GetAnnouncementByID(ctx, id)
	if err != nil {
		handler.Fail(c, err, h.loginURL, h.logger)
		return
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = *req.Content
	}
	if req.SiteWide != nil {
		announcement.SiteWide = *req.SiteWide
	}
	if req.MembersOnly != nil {
		announcement.MembersOnly = *req.MembersOnly
	}
	if req.DismissalType != nil {
		announcement.DismissalType = *req.DismissalType
	}
	if req.PublishStart != nil && !req.PublishStart.IsZero() {
		announcement.PublishStart = *req.PublishStart
	}
	if req.PublishEnd != nil {
		if req.PublishEnd.IsZero() {
			announcement.PublishEnd = nil
		} else {
			announcement.PublishEnd = req.PublishEnd
		}
	}

	if err := h.announcementService.UpdateAnnouncement(ctx, announcement); err != nil {
		handler.Fail(c, err, h.loginURL, h.logger)
		return
	}

	c.Redirect(http.StatusFound, announcement.DetailPath(h.prefix))
}

// DeleteConfirm 删除确认
// @Router {prefix}/announcement/{pk}/delete/ [get]
func (h *AnnouncementAdminHandler) DeleteConfirm(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	announcement, err := h.announcementService.GetAnnouncementByID(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err, h.loginURL, h.logger)
		return
	}

	data := handler.AnnouncementPayload(announcement, h.prefix)
	data["template"] = "announcement_confirm_delete"
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": data,
	})
}

// DeleteAnnouncement 删除公告，成功后跳转到公告列表
// @Router {prefix}/announcement/{pk}/delete/ [post]
func (h *AnnouncementAdminHandler) DeleteAnnouncement(c *gin.Context) {
	id, ok := handler.ParseID(c)
	if !ok {
		return
	}

	if err := h.announcementService.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		handler.Fail(c, err, h.loginURL, h.logger)
		return
	}

	c.Redirect(http.StatusFound, h.prefix+"/")
}
