package service_test

import (
	"testing"

	"taskmanager/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"env": "prod", "team": "core", "empty": ""}

	tests := []struct {
		in, want string
	}{
		{"Deploy to {{env}}", "Deploy to prod"},
		{"{{team}}/{{env}}/{{team}}", "core/prod/core"},
		{"{{missing}} stays", "{{missing}} stays"},
		{"{{ env }} needs exact form", "{{ env }} needs exact form"},
		{"blank: [{{empty}}]", "blank: []"},
		{"no placeholders", "no placeholders"},
		{"{{env-name}}", "{{env-name}}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.Substitute(tt.in, vars), tt.in)
	}
}

func TestMergeVariables(t *testing.T) {
	defaults := map[string]string{"env": "staging", "team": "core"}

	merged := service.MergeVariables(defaults, map[string]string{"env": "prod", "extra": "x"})

	assert.Equal(t, map[string]string{"env": "prod", "team": "core", "extra": "x"}, merged)
	assert.Equal(t, "staging", defaults["env"], "defaults must not be mutated")
	assert.Empty(t, service.MergeVariables(nil, nil))
}
