package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bulletin/internal/model"

	"github.com/jmoiron/sqlx"
)

// VisibleQuery 可见公告查询条件
type VisibleQuery struct {
	Now     time.Time
	UserID  int64   // 0 表示匿名访问者
	Exclude []int64 // 会话中已关闭的公告
}

// AnnouncementRepository 公告存储库接口
type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id int64) (*model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, limit int) ([]model.Announcement, error)
	Count(ctx context.Context) (int64, error)
	ListVisible(ctx context.Context, q VisibleQuery) ([]model.Announcement, error)
}

type announcementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository 创建公告存储库实例
func NewAnnouncementRepository(db *sqlx.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create 创建公告
func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	query := `INSERT INTO announcements
		(title, content, creator_id, creation_date, site_wide, members_only, dismissal_type, publish_start, publish_end)
		VALUES (:title, :content, :creator_id, :creation_date, :site_wide, :members_only, :dismissal_type, :publish_start, :publish_end)`
	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetByID 根据ID获取公告
func (r *announcementRepository) GetByID(ctx context.Context, id int64) (*model.Announcement, error) {
	var a model.Announcement
	err := r.db.GetContext(ctx, &a, "SELECT * FROM announcements WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Update 更新公告
func (r *announcementRepository) Update(ctx context.Context, a *model.Announcement) error {
	query := `UPDATE announcements SET title = :title, content = :content, site_wide = :site_wide,
		members_only = :members_only, dismissal_type = :dismissal_type,
		publish_start = :publish_start, publish_end = :publish_end
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, a)
	return err
}

// Delete 删除公告，关闭记录由外键级联删除
func (r *announcementRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List 获取全部公告（分页），供管理员使用
func (r *announcementRepository) List(ctx context.Context, page, limit int) ([]model.Announcement, error) {
	announcements := []model.Announcement{}
	offset := (page - 1) * limit

	query := `SELECT * FROM announcements ORDER BY publish_start DESC, id DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &announcements, query, limit, offset); err != nil {
		return nil, err
	}
	return announcements, nil
}

// Count 获取公告总数
func (r *announcementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM announcements"); err != nil {
		return 0, err
	}
	return count, nil
}

// ListVisible 获取访问者当前可见的全站公告
func (r *announcementRepository) ListVisible(ctx context.Context, q VisibleQuery) ([]model.Announcement, error) {
	query := `SELECT a.* FROM announcements a
		LEFT JOIN announcement_dismissals d ON d.announcement_id = a.id AND d.user_id = ?
		WHERE a.site_wide = 1
			AND a.publish_start <= ?
			AND (a.publish_end IS NULL OR a.publish_end > ?)
			AND d.id IS NULL`
	args := []interface{}{q.UserID, q.Now, q.Now}

	if q.UserID == 0 {
		query += " AND a.members_only = 0"
	}
	if len(q.Exclude) > 0 {
		query += " AND a.id NOT IN (?)"
		args = append(args, q.Exclude)

		var err error
		query, args, err = sqlx.In(query, args...)
		if err != nil {
			return nil, err
		}
		query = r.db.Rebind(query)
	}
	query += " ORDER BY a.publish_start DESC, a.id DESC"

	announcements := []model.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, err
	}
	return announcements, nil
}
