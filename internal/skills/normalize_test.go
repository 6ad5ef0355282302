package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"golang", "Go"},
		{"go lang", "Go"},
		{"  k8s ", "Kubernetes"},
		{"reactjs", "React"},
		{"NODEJS", "Node.js"},
		{"postgres", "PostgreSQL"},
		{"terraform", "Terraform"},
		{"graphql", "GraphQL"},
		{"snowflake", "Snowflake"},
		{"GRPC", "GRPC"},
		{"PROTOBUF", "Protobuf"},
		{"distributed   systems", "distributed systems"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"golang", "Go", "python", "", "Python", "k8s"}, 0)
	assert.Equal(t, []string{"Go", "Python", "Kubernetes"}, got)

	assert.Equal(t, []string{"Go"}, Dedupe([]string{"golang", "python"}, 1))
}
