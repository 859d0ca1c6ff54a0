package task

import "errors"

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptyOwner      = errors.New("owner email is required")
	ErrInvalidStatus   = errors.New("status must be one of ideas, todo, inprogress, completed")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
)

// Lifecycle errors.
var (
	ErrNotFound = errors.New("task not found")
)
