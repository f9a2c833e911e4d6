package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskTypeNotFound is returned when a task type is not found
	ErrTaskTypeNotFound = errors.New("task type not found")

	// ErrTemplateNotFound is returned when a task template is not found
	ErrTemplateNotFound = errors.New("task template not found")
)
