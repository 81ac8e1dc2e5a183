package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	const host = "example.com"

	cases := map[string]string{
		"":                               "/",
		"/announcements/":                "/announcements/",
		"/announcements/?page=2":         "/announcements/?page=2",
		"http://example.com/dashboard/":  "http://example.com/dashboard/",
		"https://evil.example.org/":      "/",
		"//evil.example.org/":            "/",
		"/\\evil.example.org/":           "/",
		"\\\\evil.example.org/":          "/",
		"http://example.com\\@evil.org/": "/",
		"javascript:alert(1)":            "/",
		"announcements/":                 "/",
	}
	for target, want := range cases {
		assert.Equal(t, want, SafeRedirect(target, host, "/"), "target %q", target)
	}
}
