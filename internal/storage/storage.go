package storage

import "errors"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("portfolio item not found")
	ErrMessageNotFound = errors.New("contact message not found")
	ErrSessionNotFound = errors.New("session not found")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
