package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

type FunctionalRequirement struct {
	Description string `json:"description"`
	Priority    string `json:"priority"`
	UserType    string `json:"userType"`
}

type QualityRequirement struct {
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Category    string `json:"category"`
}

type ProjectConstraint struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ImportRequirementsInput is the output of a requirements-gathering session.
type ImportRequirementsInput struct {
	CollaborationID        string                  `json:"collaborationId"`
	ProjectName            string                  `json:"projectName"`
	BusinessGoals          []string                `json:"businessGoals"`
	FunctionalRequirements []FunctionalRequirement `json:"functionalRequirements"`
	TechnicalRequirements  []QualityRequirement    `json:"technicalRequirements"`
	DesignRequirements     []QualityRequirement    `json:"designRequirements"`
	Constraints            []ProjectConstraint     `json:"constraints"`
	CreatedBy              *string                 `json:"createdBy"`
}

// ImportResult lists the ids created by an import, grouped by role.
type ImportResult struct {
	EpicIDs  []uint `json:"epicIds"`
	JTBDIDs  []uint `json:"jtbdIds"`
	StoryIDs []uint `json:"storyIds"`
	TaskIDs  []uint `json:"taskIds"`
}

// RequirementsService turns requirement documents into a task hierarchy:
// one epic, a job-to-be-done and a user story per functional requirement, and
// plain tasks for technical, design and constraint entries.
type RequirementsService struct {
	store *repository.Store
}

func NewRequirementsService(store *repository.Store) *RequirementsService {
	return &RequirementsService{store: store}
}

func (s *RequirementsService) Import(ctx context.Context, in ImportRequirementsInput) (*ImportResult, error) {
	project := strings.TrimSpace(in.ProjectName)
	if project == "" || len(in.BusinessGoals) == 0 || len(in.FunctionalRequirements) == 0 {
		return nil, Validation("Project name, business goals, and functional requirements are required")
	}

	res := &ImportResult{EpicIDs: []uint{}, JTBDIDs: []uint{}, StoryIDs: []uint{}, TaskIDs: []uint{}}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		types, err := lookupTypes(ctx, tx, model.TypeEpic, model.TypeStory, model.TypeTask)
		if err != nil {
			return err
		}

		jtbd := "Implement " + project
		epic, err := createTask(ctx, tx, CreateTaskInput{
			Title:       project,
			Description: optString(strings.Join(in.BusinessGoals, "\n\n")),
			JobToBeDone: &jtbd,
			TaskTypeID:  types[model.TypeEpic],
			Priority:    string(model.PriorityHigh),
			CreatedBy:   in.CreatedBy,
		})
		if err != nil {
			return err
		}
		res.EpicIDs = append(res.EpicIDs, epic.ID)

		for _, req := range in.FunctionalRequirements {
			desc := strings.TrimSpace(req.Description)
			if desc == "" {
				return Validation("Functional requirement description is required")
			}
			userType := req.UserType
			if userType == "" {
				userType = "User"
			}
			job, err := createTask(ctx, tx, CreateTaskInput{
				Title:       desc,
				Description: &desc,
				JobToBeDone: &desc,
				ParentID:    &epic.ID,
				TaskTypeID:  types[model.TypeStory],
				Priority:    string(mapLevel(req.Priority)),
				AssignedTo:  optString(req.UserType),
				CreatedBy:   in.CreatedBy,
			})
			if err != nil {
				return err
			}
			res.JTBDIDs = append(res.JTBDIDs, job.ID)

			userStory := fmt.Sprintf("As a %s, I want to %s so that I can achieve my goals", userType, desc)
			story, err := createTask(ctx, tx, CreateTaskInput{
				Title:       fmt.Sprintf("%s - %s...", userType, truncate(desc, 50)),
				Description: &desc,
				UserStory:   &userStory,
				ParentID:    &job.ID,
				TaskTypeID:  types[model.TypeStory],
				Priority:    string(mapLevel(req.Priority)),
				CreatedBy:   in.CreatedBy,
			})
			if err != nil {
				return err
			}
			res.StoryIDs = append(res.StoryIDs, story.ID)
		}

		children := make([]CreateTaskInput, 0, len(in.TechnicalRequirements)+len(in.DesignRequirements)+len(in.Constraints))
		for _, req := range in.TechnicalRequirements {
			desc := req.Description
			children = append(children, CreateTaskInput{
				Title:       desc,
				Description: &desc,
				Priority:    string(mapLevel(req.Impact)),
				Product:     optString(req.Category),
			})
		}
		for _, req := range in.DesignRequirements {
			desc := req.Description
			children = append(children, CreateTaskInput{
				Title:       "Design: " + desc,
				Description: &desc,
				Priority:    string(mapLevel(req.Impact)),
				Product:     optString(req.Category),
			})
		}
		for _, c := range in.Constraints {
			desc := c.Description
			children = append(children, CreateTaskInput{
				Title:       "Constraint: " + c.Type,
				Description: &desc,
				Priority:    string(model.PriorityMedium),
				Product:     optString(c.Type),
			})
		}
		for _, child := range children {
			child.TaskTypeID = types[model.TypeTask]
			child.ParentID = &epic.ID
			child.CreatedBy = in.CreatedBy
			task, err := createTask(ctx, tx, child)
			if err != nil {
				return err
			}
			res.TaskIDs = append(res.TaskIDs, task.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("project", project).
		Str("collaboration_id", in.CollaborationID).
		Int("stories", len(res.StoryIDs)).
		Int("tasks", len(res.TaskIDs)).
		Msg("requirements imported")
	return res, nil
}

func lookupTypes(ctx context.Context, tx *repository.Store, names ...string) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	for _, name := range names {
		tt, err := tx.TaskTypes.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if tt == nil {
			return nil, fmt.Errorf("required task type %q not found", name)
		}
		ids[name] = tt.ID
	}
	return ids, nil
}

// mapLevel maps high/medium/anything else to HIGH/MEDIUM/LOW.
func mapLevel(level string) model.TaskPriority {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return model.PriorityHigh
	case "medium":
		return model.PriorityMedium
	}
	return model.PriorityLow
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
