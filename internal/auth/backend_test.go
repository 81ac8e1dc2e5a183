package auth

import (
	"testing"

	"bulletin/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBackendHasPerm(t *testing.T) {
	b := NewBackend()
	staff := &model.User{ID: 1, IsStaff: true}
	member := &model.User{ID: 2}

	assert.True(t, b.HasPerm(staff, PermManageAnnouncements))
	assert.False(t, b.HasPerm(member, PermManageAnnouncements))
	assert.False(t, b.HasPerm(nil, PermManageAnnouncements))
	assert.False(t, b.HasPerm(staff, "announcements.can_publish"))
}
