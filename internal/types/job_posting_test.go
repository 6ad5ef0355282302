package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPosting_HasJobData(t *testing.T) {
	tests := []struct {
		name string
		job  *JobPosting
		want bool
	}{
		{"nil", nil, false},
		{"empty", &JobPosting{}, false},
		{"whitespace only", &JobPosting{Title: "  ", Company: "\n"}, false},
		{"title only", &JobPosting{Title: "Engineer"}, true},
		{"company only", &JobPosting{Company: "Acme"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.job.HasJobData())
		})
	}
}

func TestJobPosting_IsPartial(t *testing.T) {
	full := &JobPosting{Title: "Engineer", Description: "Build things", Skills: []string{"Go"}}
	assert.False(t, full.IsPartial())

	noSkills := &JobPosting{Title: "Engineer", Description: "Build things"}
	assert.True(t, noSkills.IsPartial())

	noDescription := &JobPosting{Company: "Acme", Skills: []string{"Go"}}
	assert.True(t, noDescription.IsPartial())

	assert.False(t, (&JobPosting{}).IsPartial(), "no job data is a failure, not a partial")
}

func TestJobPosting_NormalizeEncodesEmptyArrays(t *testing.T) {
	job := &JobPosting{Title: "Engineer"}
	job.Normalize()

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["skills"])
	assert.Equal(t, []any{}, raw["requirements"])
	assert.Equal(t, []any{}, raw["benefits"])
	assert.Nil(t, raw["salary"])
	assert.Contains(t, raw, "jobType")
	assert.NotContains(t, raw, "descriptionMarkdown")
}

func TestStringPtrAndDeref(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	p := StringPtr("  Full-time ")
	require.NotNil(t, p)
	assert.Equal(t, "Full-time", *p)

	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "Full-time", Deref(p))
}
