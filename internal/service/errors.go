package service

import "errors"

var (
	ErrAnnouncementNotFound   = errors.New("announcement not found")
	ErrDismissalConflict      = errors.New("announcement cannot be dismissed")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUserExists             = errors.New("username already exists")
)
