package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		name    string
		branch  string
		wantErr bool
	}{
		{
			name:   "simple name",
			branch: "experiment",
		},
		{
			name:   "with digits and separators",
			branch: "wip-2.1_draft",
		},
		{
			name:   "single character",
			branch: "b",
		},
		{
			name:   "max length",
			branch: strings.Repeat("a", MaxBranchNameLen),
		},
		{
			name:    "empty",
			branch:  "",
			wantErr: true,
		},
		{
			name:    "too long",
			branch:  strings.Repeat("a", MaxBranchNameLen+1),
			wantErr: true,
		},
		{
			name:    "with spaces",
			branch:  "my branch",
			wantErr: true,
		},
		{
			name:    "with slash",
			branch:  "feature/fillet",
			wantErr: true,
		},
		{
			name:    "non-latin letters",
			branch:  "ветка",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranchName(tt.branch)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
