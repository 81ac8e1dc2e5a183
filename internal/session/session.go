package session

import (
	"slices"

	"github.com/google/uuid"
)

// Session 访问者会话，保存登录用户与会话内关闭的公告
type Session struct {
	ID                    string  `json:"-"`
	UserID                int64   `json:"user_id,omitempty"`
	ExcludedAnnouncements []int64 `json:"excluded_announcements,omitempty"`

	modified bool
}

// New 创建一个新的空会话，在内容变更前不会写入存储
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Modified 会话内容是否需要写回存储
func (s *Session) Modified() bool {
	return s.modified
}

// Login 将用户绑定到会话，更换会话ID以防止会话固定
func (s *Session) Login(userID int64) {
	s.ID = uuid.NewString()
	s.UserID = userID
	s.modified = true
}

// Logout 清空会话中的登录用户和关闭记录
func (s *Session) Logout() {
	s.UserID = 0
	s.ExcludedAnnouncements = nil
	s.modified = true
}

// Exclude 记录会话内关闭的公告
func (s *Session) Exclude(announcementID int64) {
	if s.IsExcluded(announcementID) {
		return
	}
	s.ExcludedAnnouncements = append(s.ExcludedAnnouncements, announcementID)
	s.modified = true
}

// IsExcluded 公告是否已在会话内关闭
func (s *Session) IsExcluded(announcementID int64) bool {
	return slices.Contains(s.ExcludedAnnouncements, announcementID)
}

// Excluded 返回会话内关闭的公告ID副本
func (s *Session) Excluded() []int64 {
	return slices.Clone(s.ExcludedAnnouncements)
}
