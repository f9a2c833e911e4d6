package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"taskmanager/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validColor(color string) bool {
	return validate.Var(color, "hexcolor") == nil
}

func parseStatus(s string) (model.TaskStatus, error) {
	status := model.TaskStatus(strings.TrimSpace(s))
	if !status.Valid() {
		return "", Validation("invalid status %q", s)
	}
	return status, nil
}

func parsePriority(s string) (model.TaskPriority, error) {
	priority := model.TaskPriority(strings.TrimSpace(s))
	if !priority.Valid() {
		return "", Validation("invalid priority %q", s)
	}
	return priority, nil
}

func checkHours(name string, v *float64) error {
	if v != nil && *v < 0 {
		return Validation("%s must not be negative", name)
	}
	return nil
}

// dedupe returns ids without repeats, keeping first occurrences in order.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
