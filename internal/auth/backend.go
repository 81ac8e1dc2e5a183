package auth

import "bulletin/internal/model"

// PermManageAnnouncements 管理公告（创建、修改、删除）的权限
const PermManageAnnouncements = "announcements.can_manage"

// Backend 权限后端，不保存任何状态
type Backend struct{}

// NewBackend 创建权限后端
func NewBackend() *Backend {
	return &Backend{}
}

// HasPerm 判断用户是否拥有指定权限，匿名用户没有任何权限
func (b *Backend) HasPerm(user *model.User, perm string) bool {
	if user == nil {
		return false
	}
	switch perm {
	case PermManageAnnouncements:
		return user.IsStaff
	default:
		return false
	}
}
