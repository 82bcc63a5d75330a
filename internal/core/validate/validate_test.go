package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid key", "sk-abc123", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"inner space", "sk abc", true},
		{"trailing newline", "sk-abc\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := APIKey(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "APIKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestProjectID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "12", false},
		{"slug", "my-project_2", false},
		{"empty string", "", true},
		{"with slash", "a/b", true},
		{"with spaces", "abc 123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProjectID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "ProjectID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestProjectIDField(t *testing.T) {
	err := ProjectIDField("projectId", "")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "projectId", fieldErrs[0].Field)
}
