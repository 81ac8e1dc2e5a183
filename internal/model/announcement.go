package model

import (
	"fmt"
	"time"
)

// DismissalType 公告关闭策略
type DismissalType int

const (
	DismissalNo        DismissalType = 1 // 不允许关闭
	DismissalSession   DismissalType = 2 // 仅在当前会话内关闭
	DismissalPermanent DismissalType = 3 // 永久关闭，需登录
)

// String 返回关闭策略名称
func (t DismissalType) String() string {
	switch t {
	case DismissalNo:
		return "no"
	case DismissalSession:
		return "session"
	case DismissalPermanent:
		return "permanent"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Valid 判断是否为已知的关闭策略
func (t DismissalType) Valid() bool {
	return t == DismissalNo || t == DismissalSession || t == DismissalPermanent
}

// Announcement 公告模型
type Announcement struct {
	ID            int64         `db:"id" json:"id"`
	Title         string        `db:"title" json:"title"`
	Content       string        `db:"content" json:"content"`
	CreatorID     int64         `db:"creator_id" json:"creator_id"`
	CreationDate  time.Time     `db:"creation_date" json:"creation_date"`
	SiteWide      bool          `db:"site_wide" json:"site_wide"`
	MembersOnly   bool          `db:"members_only" json:"members_only"`
	DismissalType DismissalType `db:"dismissal_type" json:"dismissal_type"`
	PublishStart  time.Time     `db:"publish_start" json:"publish_start"`
	PublishEnd    *time.Time    `db:"publish_end" json:"publish_end"`
}

// Published 判断公告在给定时间是否处于发布期内
func (a *Announcement) Published(now time.Time) bool {
	if a.PublishStart.After(now) {
		return false
	}
	return a.PublishEnd == nil || a.PublishEnd.After(now)
}

// DetailPath 公告详情地址
func (a *Announcement) DetailPath(prefix string) string {
	return fmt.Sprintf("%s/announcement/%d/", prefix, a.ID)
}

// DismissPath 关闭公告地址，不允许关闭时返回空字符串
func (a *Announcement) DismissPath(prefix string) string {
	if a.DismissalType == DismissalNo {
		return ""
	}
	return fmt.Sprintf("%s/announcement/%d/hide/", prefix, a.ID)
}

// Dismissal 用户永久关闭公告的记录
type Dismissal struct {
	ID             int64     `db:"id" json:"id"`
	AnnouncementID int64     `db:"announcement_id" json:"announcement_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	DismissedAt    time.Time `db:"dismissed_at" json:"dismissed_at"`
}

// PaginatedAnnouncements 分页公告结果
type PaginatedAnnouncements struct {
	Total int64          `json:"total"`
	Items []Announcement `json:"items"`
}
