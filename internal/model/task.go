package model

import (
	"time"

	"gorm.io/datatypes"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "TO_DO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusInReview   TaskStatus = "IN_REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// TaskPriority is how urgent a task is.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of work. Epics, stories and bugs are tasks of the matching
// TaskType.
type Task struct {
	ID             uint         `gorm:"primaryKey"`
	Title          string       `gorm:"not null"`
	Description    *string      `gorm:"type:text"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'TO_DO'"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	DueDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	AssignedTo     *string
	CreatedBy      *string
	TaskTypeID     uint  `gorm:"not null;index"`
	ParentID       *uint `gorm:"index"`

	GitRepo          *string
	Product          *string
	Feature          *string
	JobToBeDone      *string `gorm:"type:text"`
	UserStory        *string `gorm:"type:text"`
	StepsToReproduce *string `gorm:"type:text"`
	DefinitionOfDone *string `gorm:"type:text"`

	// RelatedTasks is the denormalized set of linked task ids.
	RelatedTasks datatypes.JSONSlice[uint] `gorm:"column:related_tasks"`

	CreatedAt time.Time
	UpdatedAt time.Time

	TaskType *TaskType `gorm:"foreignKey:TaskTypeID"`
	Parent   *Task     `gorm:"foreignKey:ParentID"`
	Subtasks []Task    `gorm:"foreignKey:ParentID"`
}

// RelatedIDs returns the related task ids as a plain slice.
func (t *Task) RelatedIDs() []uint {
	if len(t.RelatedTasks) == 0 {
		return []uint{}
	}
	ids := make([]uint, len(t.RelatedTasks))
	copy(ids, t.RelatedTasks)
	return ids
}

// SetRelatedIDs replaces the related task ids.
func (t *Task) SetRelatedIDs(ids []uint) {
	t.RelatedTasks = datatypes.JSONSlice[uint](ids)
}

// HasRelated reports whether id is in the related set.
func (t *Task) HasRelated(id uint) bool {
	for _, r := range t.RelatedTasks {
		if r == id {
			return true
		}
	}
	return false
}
