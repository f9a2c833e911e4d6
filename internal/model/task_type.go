package model

import "time"

// DefaultTaskTypeColor is used when a type is created without a color.
const DefaultTaskTypeColor = "#3498db"

type TaskType struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"uniqueIndex;not null"`
	Description *string `gorm:"type:text"`
	Color       string  `gorm:"not null;default:'#3498db'"`
	Icon        *string
	IsDefault   bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Names of the built-in task types.
const (
	TypeEpic    = "Epic"
	TypeStory   = "Story"
	TypeTask    = "Task"
	TypeSubTask = "Sub-Task"
	TypeBug     = "Bug"
)

// DefaultTaskTypes returns the built-in types seeded at startup.
func DefaultTaskTypes() []TaskType {
	mk := func(name, desc, color, icon string) TaskType {
		return TaskType{Name: name, Description: &desc, Color: color, Icon: &icon, IsDefault: true}
	}
	return []TaskType{
		mk(TypeEpic, "A large body of work that can be broken down into smaller stories", "#9b59b6", "flag"),
		mk(TypeStory, "A user-centric feature or enhancement", "#2ecc71", "book"),
		mk(TypeTask, "A single unit of work", "#3498db", "check-square"),
		mk(TypeSubTask, "A smaller task that is part of a larger task", "#1abc9c", "list"),
		mk(TypeBug, "A problem that needs to be fixed", "#e74c3c", "bug"),
	}
}
