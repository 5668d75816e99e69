package taxonomy

import "errors"

var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagExists     = errors.New("tag already exists")
	ErrMedalNotFound = errors.New("medal not found")
	ErrUserNotFound  = errors.New("user not found")
)
