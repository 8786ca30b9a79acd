package core

import "errors"

var (
	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidState   = errors.New("invalid state")
	ErrAlreadyApplied = errors.New("already applied")
	ErrStorage        = errors.New("storage failure")
)
