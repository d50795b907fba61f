package service

import "errors"

var (
	ErrDisplayNameRequired = errors.New("displayName is required")
	ErrDisplayNameTooLong  = errors.New("displayName must be at most 32 characters")
	ErrPronounsTooLong     = errors.New("pronouns must be at most 16 characters")
	ErrDescriptionTooLong  = errors.New("description must be at most 256 characters")
	ErrPasswordRequired    = errors.New("password is required")
	ErrPasswordTooWeak     = errors.New("password is too weak")
	ErrUserIDRequired      = errors.New("id is required")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrTokenNotFound       = errors.New("token not found")

	ErrUnauthenticated = errors.New("authentication required")

	ErrLodgeNameRequired = errors.New("name is required")
	ErrLodgeNameTooLong  = errors.New("name must be at most 32 characters")
	ErrIconURLTooLong    = errors.New("iconUrl must be at most 256 characters")
	ErrLodgeNotFound     = errors.New("lodge not found")
	ErrLodgeForbidden    = errors.New("lodge is private")
	ErrNotLodgeMember    = errors.New("not a member of this lodge")
	ErrNotLodgeAdmin     = errors.New("not an admin of this lodge")

	ErrCabinNameRequired = errors.New("name is required")
	ErrCabinNameTooLong  = errors.New("name must be at most 16 characters")
	ErrTopicTooLong      = errors.New("topic must be at most 128 characters")
	ErrCabinNotFound     = errors.New("cabin not found")

	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content must be at most 2048 characters")
)
