package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bulletin/internal/auth"
	"bulletin/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoginRedirectURL(t *testing.T) {
	assert.Equal(t, "/account/login/?next=/announcements/announcement/create/",
		LoginRedirectURL("/account/login/", "/announcements/announcement/create/"))
	assert.Equal(t, "/login?lang=en&next=/a/%3Fpage%3D2",
		LoginRedirectURL("/login?lang=en", "/a/?page=2"))
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name   string
		user   *model.User
		status int
	}{
		{"anonymous", nil, http.StatusFound},
		{"member", &model.User{ID: 2}, http.StatusFound},
		{"staff", &model.User{ID: 1, IsStaff: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.user != nil {
					SetCurrentUser(c, tt.user)
				}
			})
			r.POST("/things/:id/delete/", RequirePermission(auth.NewBackend(), auth.PermManageAnnouncements, "/account/login/"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things/3/delete/", nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusFound {
				assert.Equal(t, "/account/login/?next=/things/3/delete/", w.Header().Get("Location"))
			}
		})
	}
}
