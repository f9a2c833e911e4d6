package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"taskmanager/internal/model"
	"taskmanager/internal/patch"
	"taskmanager/internal/repository"
)

type CreateTemplateInput struct {
	Name              string               `json:"name" yaml:"name"`
	Description       *string              `json:"description" yaml:"description"`
	TemplateStructure []model.TemplateNode `json:"templateStructure" yaml:"templateStructure"`
	Variables         []string             `json:"variables" yaml:"variables"`
	DefaultValues     map[string]string    `json:"defaultValues" yaml:"defaultValues"`
	CreatedBy         *string              `json:"createdBy" yaml:"createdBy"`
}

type UpdateTemplateInput struct {
	Name              patch.Field[string]               `json:"name" swaggertype:"string"`
	Description       patch.Field[string]               `json:"description" swaggertype:"string"`
	TemplateStructure patch.Field[[]model.TemplateNode] `json:"templateStructure" swaggertype:"array,object"`
	Variables         patch.Field[[]string]             `json:"variables" swaggertype:"array,string"`
	DefaultValues     patch.Field[map[string]string]    `json:"defaultValues" swaggertype:"object"`
}

// GeneratedTask is a task created from a template node.
type GeneratedTask struct {
	Task       model.Task
	TemplateID model.LocalID
}

// TemplateService stores task templates and expands them into tasks.
type TemplateService struct {
	store *repository.Store
}

func NewTemplateService(store *repository.Store) *TemplateService {
	return &TemplateService{store: store}
}

func (s *TemplateService) List(ctx context.Context) ([]model.TaskTemplate, error) {
	return s.store.Templates.List(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id uint) (*model.TaskTemplate, error) {
	t, err := s.store.Templates.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTemplateNotFound) {
		return nil, NotFound("Task template not found")
	}
	return t, err
}

// Create stores a template. The structure is kept as given; it is only
// checked when tasks are generated from it.
func (s *TemplateService) Create(ctx context.Context, in CreateTemplateInput) (*model.TaskTemplate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("Name is required")
	}
	if in.TemplateStructure == nil {
		return nil, Validation("Template structure is required")
	}
	variables := in.Variables
	if variables == nil {
		variables = []string{}
	}
	defaults := in.DefaultValues
	if defaults == nil {
		defaults = map[string]string{}
	}

	t := &model.TaskTemplate{
		Name:              name,
		Description:       in.Description,
		TemplateStructure: datatypes.NewJSONType(in.TemplateStructure),
		Variables:         datatypes.JSONSlice[string](variables),
		DefaultValues:     datatypes.NewJSONType(defaults),
		CreatedBy:         in.CreatedBy,
	}
	if err := s.store.Templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, id uint, in UpdateTemplateInput) (*model.TaskTemplate, error) {
	var t *model.TaskTemplate
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		t, err = tx.Templates.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return NotFound("Task template not found")
		}
		if err != nil {
			return err
		}

		if in.Name.Set {
			name := strings.TrimSpace(in.Name.Value)
			if name == "" {
				return Validation("Name cannot be empty")
			}
			t.Name = name
		}
		patch.Apply(in.Description, &t.Description)
		if in.TemplateStructure.Set {
			if !in.TemplateStructure.Present() {
				return Validation("Template structure is required")
			}
			t.TemplateStructure = datatypes.NewJSONType(in.TemplateStructure.Value)
		}
		if in.Variables.Set {
			vars := in.Variables.Value
			if vars == nil {
				vars = []string{}
			}
			t.Variables = datatypes.JSONSlice[string](vars)
		}
		if in.DefaultValues.Set {
			defaults := in.DefaultValues.Value
			if defaults == nil {
				defaults = map[string]string{}
			}
			t.DefaultValues = datatypes.NewJSONType(defaults)
		}
		return tx.Templates.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	err := s.store.Templates.Delete(ctx, id)
	if errors.Is(err, repository.ErrTemplateNotFound) {
		return NotFound("Task template not found")
	}
	return err
}

// Generate instantiates the template identified by id. Caller variables
// override the template defaults. Tasks are created depth first in
// declaration order; related references between nodes are then written on
// the declaring side only. Any failure rolls back every created task.
func (s *TemplateService) Generate(ctx context.Context, id uint, variables map[string]string, actor string) ([]GeneratedTask, error) {
	var created []generatedRef
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		tmpl, err := tx.Templates.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return NotFound("Task template not found")
		}
		if err != nil {
			return err
		}

		g := &generation{
			tx:    tx,
			vars:  MergeVariables(tmpl.Defaults(), variables),
			actor: actor,
			ids:   make(map[model.LocalID]uint),
		}
		nodes := tmpl.Nodes()
		for _, node := range nodes {
			if err := g.create(ctx, node, nil); err != nil {
				return err
			}
		}
		if err := g.relate(ctx, nodes); err != nil {
			return err
		}
		created = g.created
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(created))
	for i, ref := range created {
		ids[i] = ref.id
	}
	tasks, err := s.store.Tasks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	out := make([]GeneratedTask, 0, len(created))
	for _, ref := range created {
		out = append(out, GeneratedTask{Task: byID[ref.id], TemplateID: ref.localID})
	}
	zerolog.Ctx(ctx).Info().Uint("template_id", id).Int("tasks", len(out)).Msg("tasks generated from template")
	return out, nil
}

type generatedRef struct {
	id      uint
	localID model.LocalID
}

// generation carries the state of one template expansion.
type generation struct {
	tx      *repository.Store
	vars    map[string]string
	actor   string
	ids     map[model.LocalID]uint
	created []generatedRef
}

func (g *generation) create(ctx context.Context, node model.TemplateNode, parentID *uint) error {
	processed := processNode(node, g.vars)
	in, err := nodeInput(processed, parentID)
	if err != nil {
		return nodeError(node.ID, err)
	}
	if in.CreatedBy == nil && g.actor != "" {
		actor := g.actor
		in.CreatedBy = &actor
	}
	task, err := createTask(ctx, g.tx, in)
	if err != nil {
		return nodeError(node.ID, err)
	}
	if node.ID != "" {
		g.ids[node.ID] = task.ID
	}
	g.created = append(g.created, generatedRef{id: task.ID, localID: node.ID})

	for _, sub := range node.Subtasks {
		if err := g.create(ctx, sub, &task.ID); err != nil {
			return err
		}
	}
	return nil
}

// relate resolves declared related local ids through the id map and writes
// them with a plain update. Unknown ids and self references are dropped.
func (g *generation) relate(ctx context.Context, nodes []model.TemplateNode) error {
	for _, node := range nodes {
		if len(node.RelatedTasks) > 0 {
			if realID, ok := g.ids[node.ID]; ok {
				resolved := make([]uint, 0, len(node.RelatedTasks))
				for _, local := range node.RelatedTasks {
					if rid, ok := g.ids[local]; ok && rid != realID {
						resolved = append(resolved, rid)
					}
				}
				resolved = dedupe(resolved)
				if len(resolved) > 0 {
					if _, err := updateTask(ctx, g.tx, realID, UpdateTaskInput{RelatedTasks: patch.Of(resolved)}); err != nil {
						return nodeError(node.ID, err)
					}
				}
			}
		}
		if err := g.relate(ctx, node.Subtasks); err != nil {
			return err
		}
	}
	return nil
}

func nodeError(id model.LocalID, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Message: fmt.Sprintf("template node %q: %s", id, e.Message), Details: e.Details}
	}
	return fmt.Errorf("template node %q: %w", id, err)
}
