package service

import (
	"context"
	"time"

	"bulletin/internal/model"
	"bulletin/internal/repository"
	"bulletin/internal/session"
	"bulletin/pkg/logger"
	"bulletin/pkg/metrics"
)

// SessionSaver 会话持久化
type SessionSaver interface {
	Save(ctx context.Context, sess *session.Session) error
}

// DismissalService 公告关闭服务
type DismissalService struct {
	dismissalRepo repository.DismissalRepository
	sessions      SessionSaver
	logger        *logger.Logger
}

// NewDismissalService 创建公告关闭服务实例
func NewDismissalService(dismissalRepo repository.DismissalRepository, sessions SessionSaver, logger *logger.Logger) *DismissalService {
	return &DismissalService{
		dismissalRepo: dismissalRepo,
		sessions:      sessions,
		logger:        logger,
	}
}

// Dismiss 按公告的关闭策略处理关闭请求：
// NO 一律拒绝；SESSION 只记录在会话中；PERMANENT 为登录用户持久化记录，重复请求不会产生重复记录。
// sess 为当前请求的会话，不能为nil。
func (s *DismissalService) Dismiss(ctx context.Context, a *model.Announcement, viewer *model.User, sess *session.Session) error {
	dismissalType := a.DismissalType.String()

	switch a.DismissalType {
	case model.DismissalSession:
		sess.Exclude(a.ID)
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Error("保存会话失败", "announcement_id", a.ID, "error", err)
			metrics.RegisterDismissal(dismissalType, "error")
			return err
		}

	case model.DismissalPermanent:
		if viewer == nil {
			metrics.RegisterDismissal(dismissalType, "unauthenticated")
			return ErrAuthenticationRequired
		}
		if err := s.dismissalRepo.Upsert(ctx, a.ID, viewer.ID, time.Now().UTC()); err != nil {
			s.logger.Error("记录公告关闭失败", "announcement_id", a.ID, "user_id", viewer.ID, "error", err)
			metrics.RegisterDismissal(dismissalType, "error")
			return err
		}

	default:
		metrics.RegisterDismissal(dismissalType, "conflict")
		return ErrDismissalConflict
	}

	metrics.RegisterDismissal(dismissalType, "ok")
	return nil
}

// DismissalCount 统计公告被永久关闭的次数
func (s *DismissalService) DismissalCount(ctx context.Context, announcementID int64) (int64, error) {
	return s.dismissalRepo.CountByAnnouncement(ctx, announcementID)
}
