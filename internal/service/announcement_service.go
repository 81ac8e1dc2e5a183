package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"bulletin/internal/model"
	"bulletin/internal/repository"
	"bulletin/internal/session"
	"bulletin/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	announcementDetailKey = "announcements:detail:%d"
	maxTitleLength        = 50
)

// AnnouncementService 公告服务
type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
	redisClient      *redis.Client
	cacheTTL         time.Duration
	logger           *logger.Logger
}

// NewAnnouncementService 创建公告服务实例
func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, redisClient *redis.Client, cacheTTL time.Duration, logger *logger.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		redisClient:      redisClient,
		cacheTTL:         cacheTTL,
		logger:           logger,
	}
}

// Validate 校验公告字段
func Validate(a *model.Announcement) error {
	switch {
	case a.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case utf8.RuneCountInString(a.Title) > maxTitleLength:
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLength)
	case a.Content == "":
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	case !a.DismissalType.Valid():
		return fmt.Errorf("%w: unknown dismissal type %d", ErrInvalidInput, int(a.DismissalType))
	case a.PublishEnd != nil && a.PublishEnd.Before(a.PublishStart):
		return fmt.Errorf("%w: publish_end is before publish_start", ErrInvalidInput)
	}
	return nil
}

// CreateAnnouncement 创建公告，未指定的字段使用默认值
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	now := time.Now().UTC()
	if a.DismissalType == 0 {
		a.DismissalType = model.DismissalSession
	}
	if a.PublishStart.IsZero() {
		a.PublishStart = now
	}
	a.CreationDate = now

	if err := Validate(a); err != nil {
		return err
	}

	if err := s.announcementRepo.Create(ctx, a); err != nil {
		s.logger.Error("创建公告失败", "error", err)
		return err
	}
	s.logger.Info("公告已创建", "id", a.ID, "creator_id", a.CreatorID)
	return nil
}

// GetAnnouncementByID 根据ID获取公告详情，优先读取缓存
func (s *AnnouncementService) GetAnnouncementByID(ctx context.Context, id int64) (*model.Announcement, error) {
	cacheKey := fmt.Sprintf(announcementDetailKey, id)
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var announcement model.Announcement
		if err := json.Unmarshal(cachedData, &announcement); err == nil {
			return &announcement, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("读取公告缓存失败", "id", id, "error", err)
	}

	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("获取公告详情失败", "id", id, "error", err)
		return nil, err
	}

	if data, err := json.Marshal(announcement); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
	}

	return announcement, nil
}

// UpdateAnnouncement 更新公告
func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, a *model.Announcement) error {
	if err := Validate(a); err != nil {
		return err
	}
	if err := s.announcementRepo.Update(ctx, a); err != nil {
		s.logger.Error("更新公告失败", "id", a.ID, "error", err)
		return err
	}
	s.invalidate(ctx, a.ID)
	return nil
}

// DeleteAnnouncement 删除公告
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, id int64) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnnouncementNotFound
		}
		s.logger.Error("删除公告失败", "id", id, "error", err)
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info("公告已删除", "id", id)
	return nil
}

func (s *AnnouncementService) invalidate(ctx context.Context, id int64) {
	if err := s.redisClient.Del(ctx, fmt.Sprintf(announcementDetailKey, id)).Err(); err != nil {
		s.logger.Error("删除缓存失败", "id", id, "error", err)
	}
}

// GetAnnouncementsAdmin 管理员获取全部公告（分页）
func (s *AnnouncementService) GetAnnouncementsAdmin(ctx context.Context, page, limit int) (*model.PaginatedAnnouncements, error) {
	total, err := s.announcementRepo.Count(ctx)
	if err != nil {
		s.logger.Error("获取公告总数失败", "error", err)
		return nil, err
	}
	announcements, err := s.announcementRepo.List(ctx, page, limit)
	if err != nil {
		s.logger.Error("获取公告列表失败", "error", err)
		return nil, err
	}
	return &model.PaginatedAnnouncements{
		Total: total,
		Items: announcements,
	}, nil
}

// Visible 返回访问者在给定时间可见的全站公告。
// 已登录用户排除永久关闭的公告，所有访问者排除会话内关闭的公告。
func (s *AnnouncementService) Visible(ctx context.Context, now time.Time, viewer *model.User, sess *session.Session) ([]model.Announcement, error) {
	q := repository.VisibleQuery{Now: now}
	if viewer != nil {
		q.UserID = viewer.ID
	}
	if sess != nil {
		q.Exclude = sess.Excluded()
	}

	announcements, err := s.announcementRepo.ListVisible(ctx, q)
	if err != nil {
		s.logger.Error("获取可见公告失败", "user_id", q.UserID, "error", err)
		return nil, err
	}
	return announcements, nil
}

// CanView 判断访问者能否查看公告详情。管理者不受限制。
func CanView(a *model.Announcement, viewer *model.User, canManage bool, now time.Time) bool {
	if canManage {
		return true
	}
	if a.MembersOnly && viewer == nil {
		return false
	}
	return a.Published(now)
}
