package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

// LocalID identifies a node inside a single template. Template authors write
// it as a string or a number; both decode to the same value.
type LocalID string

func (id *LocalID) UnmarshalJSON(data []byte) error {
	v, err := decodeScalar(data)
	if err != nil {
		return fmt.Errorf("local id must be a string or number: %w", err)
	}
	*id = LocalID(v)
	return nil
}

func (id *LocalID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("local id must be a scalar, got kind %d", node.Kind)
	}
	*id = LocalID(node.Value)
	return nil
}

// MarshalJSON writes integer-looking ids as numbers so they round-trip the
// way they were most likely authored.
func (id LocalID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Scalar is a template value that is numeric once variables are substituted.
// It is stored as written, so "{{typeId}}", "3" and 3 are all accepted.
type Scalar string

func (v *Scalar) UnmarshalJSON(data []byte) error {
	s, err := decodeScalar(data)
	if err != nil {
		return fmt.Errorf("value must be a string or number: %w", err)
	}
	*v = Scalar(s)
	return nil
}

func (v *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("value must be a scalar, got kind %d", node.Kind)
	}
	*v = Scalar(node.Value)
	return nil
}

func (v Scalar) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(v))
	if s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(v))
}

// decodeScalar reads a JSON string or number as text. null decodes to "".
func decodeScalar(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// TemplateNode is one task blueprint inside a template structure. Members the
// node does not know are kept in Extra and written back unchanged.
type TemplateNode struct {
	ID               LocalID        `json:"id" yaml:"id"`
	Title            string         `json:"title" yaml:"title"`
	Description      string         `json:"description,omitempty" yaml:"description"`
	TaskTypeID       Scalar         `json:"taskTypeId,omitempty" yaml:"taskTypeId"`
	Status           string         `json:"status,omitempty" yaml:"status"`
	Priority         string         `json:"priority,omitempty" yaml:"priority"`
	DueDate          string         `json:"dueDate,omitempty" yaml:"dueDate"`
	EstimatedHours   Scalar         `json:"estimatedHours,omitempty" yaml:"estimatedHours"`
	AssignedTo       string         `json:"assignedTo,omitempty" yaml:"assignedTo"`
	CreatedBy        string         `json:"createdBy,omitempty" yaml:"createdBy"`
	GitRepo          string         `json:"gitRepo,omitempty" yaml:"gitRepo"`
	Product          string         `json:"product,omitempty" yaml:"product"`
	Feature          string         `json:"feature,omitempty" yaml:"feature"`
	JobToBeDone      string         `json:"jobToBeDone,omitempty" yaml:"jobToBeDone"`
	UserStory        string         `json:"userStory,omitempty" yaml:"userStory"`
	StepsToReproduce string         `json:"stepsToReproduce,omitempty" yaml:"stepsToReproduce"`
	DefinitionOfDone string         `json:"definitionOfDone,omitempty" yaml:"definitionOfDone"`
	Subtasks         []TemplateNode `json:"subtasks,omitempty" yaml:"subtasks"`
	RelatedTasks     []LocalID      `json:"relatedTasks,omitempty" yaml:"relatedTasks"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

type templateNodeFields TemplateNode

var templateNodeKeys = jsonKeys(reflect.TypeOf(templateNodeFields{}))

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

func (n *TemplateNode) UnmarshalJSON(data []byte) error {
	var fields templateNodeFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if templateNodeKeys[k] {
			delete(raw, k)
		}
	}
	fields.Extra = nil
	if len(raw) > 0 {
		fields.Extra = raw
	}
	*n = TemplateNode(fields)
	return nil
}

func (n TemplateNode) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(templateNodeFields(n))
	if err != nil || len(n.Extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range n.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// TaskTemplate is a reusable, parameterized blueprint for a tree of tasks.
type TaskTemplate struct {
	ID                uint    `gorm:"primaryKey"`
	Name              string  `gorm:"not null"`
	Description       *string `gorm:"type:text"`
	TemplateStructure datatypes.JSONType[[]TemplateNode]
	Variables         datatypes.JSONSlice[string]
	DefaultValues     datatypes.JSONType[map[string]string]
	CreatedBy         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Nodes returns the top-level template nodes.
func (t *TaskTemplate) Nodes() []TemplateNode {
	return t.TemplateStructure.Data()
}

// Defaults returns the default variable values, never nil.
func (t *TaskTemplate) Defaults() map[string]string {
	d := t.DefaultValues.Data()
	if d == nil {
		return map[string]string{}
	}
	return d
}
