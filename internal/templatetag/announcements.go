// Package templatetag 将当前访问者可见的公告绑定到渲染上下文中。
package templatetag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulletin/internal/model"
	"bulletin/internal/session"
)

// RequestKey 渲染上下文中请求信息的键
const RequestKey = "request"

var (
	ErrNoRequest = errors.New("render context has no request")
	ErrSyntax    = errors.New(`announcements tag expects "announcements as <name>"`)
)

// RenderContext 模板渲染上下文
type RenderContext map[string]any

// Request 渲染时的访问者信息
type Request struct {
	User    *model.User
	Session *session.Session
}

// VisibleLister 可见公告查询
type VisibleLister interface {
	Visible(ctx context.Context, now time.Time, viewer *model.User, sess *session.Session) ([]model.Announcement, error)
}

// Announcements 公告模板标签
type Announcements struct {
	lister VisibleLister
	now    func() time.Time
}

// NewAnnouncements 创建公告模板标签
func NewAnnouncements(lister VisibleLister) *Announcements {
	return &Announcements{lister: lister, now: time.Now}
}

// Parse 解析 "announcements as <name>" 形式的标签参数，返回目标变量名
func Parse(bits []string) (string, error) {
	if len(bits) != 3 || bits[0] != "announcements" || bits[1] != "as" || bits[2] == "" {
		return "", ErrSyntax
	}
	return bits[2], nil
}

// Render 查询可见公告并绑定到 rc[as]
func (t *Announcements) Render(ctx context.Context, rc RenderContext, as string) error {
	req, ok := rc[RequestKey].(*Request)
	if !ok || req == nil {
		return ErrNoRequest
	}

	announcements, err := t.lister.Visible(ctx, t.now(), req.User, req.Session)
	if err != nil {
		return fmt.Errorf("list visible announcements: %w", err)
	}
	rc[as] = announcements
	return nil
}
