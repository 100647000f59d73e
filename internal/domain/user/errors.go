package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account is disabled")

	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
