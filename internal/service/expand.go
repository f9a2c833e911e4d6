package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/model"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Substitute replaces every {{name}} in s with vars[name]. Placeholders
// without a value are left as written.
func Substitute(s string, vars map[string]string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-2]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// MergeVariables layers overrides on top of defaults into a new map.
func MergeVariables(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// processNode returns a copy of n with variables substituted in every string
// and scalar field. The local id, subtasks and related references are not
// touched.
func processNode(n model.TemplateNode, vars map[string]string) model.TemplateNode {
	out := n
	for _, f := range []*string{
		&out.Title,
		&out.Description,
		&out.Status,
		&out.Priority,
		&out.DueDate,
		&out.AssignedTo,
		&out.CreatedBy,
		&out.GitRepo,
		&out.Product,
		&out.Feature,
		&out.JobToBeDone,
		&out.UserStory,
		&out.StepsToReproduce,
		&out.DefinitionOfDone,
	} {
		*f = Substitute(*f, vars)
	}
	out.TaskTypeID = model.Scalar(Substitute(string(out.TaskTypeID), vars))
	out.EstimatedHours = model.Scalar(Substitute(string(out.EstimatedHours), vars))
	return out
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, Validation("invalid dueDate %q", s)
}

// parseTaskTypeID reads a substituted taskTypeId. Empty means unset.
func parseTaskTypeID(v model.Scalar) (uint, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, Validation("invalid taskTypeId %q", s)
	}
	return uint(id), nil
}

func parseHours(v model.Scalar) (*float64, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return nil, nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil, Validation("invalid estimatedHours %q", s)
	}
	return &h, nil
}

// nodeInput converts a processed node into a create payload.
func nodeInput(n model.TemplateNode, parentID *uint) (CreateTaskInput, error) {
	due, err := parseDueDate(n.DueDate)
	if err != nil {
		return CreateTaskInput{}, err
	}
	taskTypeID, err := parseTaskTypeID(n.TaskTypeID)
	if err != nil {
		return CreateTaskInput{}, err
	}
	hours, err := parseHours(n.EstimatedHours)
	if err != nil {
		return CreateTaskInput{}, err
	}
	return CreateTaskInput{
		Title:            n.Title,
		Description:      optString(n.Description),
		TaskTypeID:       taskTypeID,
		Status:           n.Status,
		Priority:         n.Priority,
		DueDate:          due,
		EstimatedHours:   hours,
		AssignedTo:       optString(n.AssignedTo),
		CreatedBy:        optString(n.CreatedBy),
		ParentID:         parentID,
		GitRepo:          optString(n.GitRepo),
		Product:          optString(n.Product),
		Feature:          optString(n.Feature),
		JobToBeDone:      optString(n.JobToBeDone),
		UserStory:        optString(n.UserStory),
		StepsToReproduce: optString(n.StepsToReproduce),
		DefinitionOfDone: optString(n.DefinitionOfDone),
	}, nil
}
