package auth

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("email and password does not match")
	ErrUserNotFound       = errors.New("user not found")
)
