package constants

// 通用错误消息
const (
	// 认证相关错误
	ErrUnauthorized = "未授权，请先登录"
	ErrAuthFailed   = "用户不存在或认证失败"

	// 参数相关错误
	ErrInvalidParams       = "参数错误"
	ErrInvalidAnnouncement = "无效的公告ID"

	// 公告相关错误
	ErrAnnouncementNotFound = "公告不存在"
	ErrDismissalConflict    = "该公告不允许关闭"

	// 系统错误
	ErrInternalServer = "服务器内部错误"
)

// 成功消息
const (
	SuccessLogin  = "登录成功"
	SuccessLogout = "已退出登录"
	SuccessGet    = "获取成功"
)
