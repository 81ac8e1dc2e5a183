package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DismissalRepository 公告关闭记录存储库接口
type DismissalRepository interface {
	Upsert(ctx context.Context, announcementID, userID int64, at time.Time) error
	CountByAnnouncement(ctx context.Context, announcementID int64) (int64, error)
}

type dismissalRepository struct {
	db *sqlx.DB
}

// NewDismissalRepository 创建关闭记录存储库实例
func NewDismissalRepository(db *sqlx.DB) DismissalRepository {
	return &dismissalRepository{db: db}
}

// Upsert 记录永久关闭，重复提交时保留首次关闭时间
func (r *dismissalRepository) Upsert(ctx context.Context, announcementID, userID int64, at time.Time) error {
	query := `INSERT INTO announcement_dismissals (announcement_id, user_id, dismissed_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id`
	_, err := r.db.ExecContext(ctx, query, announcementID, userID, at)
	return err
}

// CountByAnnouncement 统计公告的关闭记录数
func (r *dismissalRepository) CountByAnnouncement(ctx context.Context, announcementID int64) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM announcement_dismissals WHERE announcement_id = ?"
	if err := r.db.GetContext(ctx, &count, query, announcementID); err != nil {
		return 0, err
	}
	return count, nil
}
