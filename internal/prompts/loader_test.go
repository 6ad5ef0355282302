package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("analysis.json", "analyze-job")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.JobDescription}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("analysis.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent-key")
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("analysis.json", "tailor-resume"))
	})
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, you are {{.Age}} years old", map[string]string{
		"Name": "Alice",
		"Age":  "30",
	})
	assert.Equal(t, "Hello Alice, you are 30 years old", result)

	assert.Equal(t, "no placeholders", Format("no placeholders", map[string]string{"X": "y"}))
	assert.Equal(t, "keep {{.X}}", Format("keep {{.X}}", nil))
}

func TestRender(t *testing.T) {
	out, err := Render("analysis.json", "tailor-resume", map[string]string{
		"Resume":         "Jane Doe, Go engineer",
		"JobDescription": "Build Go services",
		"Keywords":       "Go",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe, Go engineer")
	assert.NotContains(t, out, "{{.")
}

func TestRender_MissingValue(t *testing.T) {
	_, err := Render("analysis.json", "tailor-resume", map[string]string{"Resume": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value for placeholder")
}

func TestList(t *testing.T) {
	keys, err := List("analysis.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"analyze-job", "tailor-resume"}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("analysis.json", "analyze-job")
	require.NoError(t, err)
	prompt2, err := Get("analysis.json", "analyze-job")
	require.NoError(t, err)
	assert.Equal(t, prompt1, prompt2)

	parsedMu.RLock()
	_, cached := parsed["analysis.json"]
	parsedMu.RUnlock()
	assert.True(t, cached)
}

func TestTemplatesUseKnownPlaceholders(t *testing.T) {
	known := map[string]bool{"Schema": true, "Keywords": true, "JobDescription": true, "Resume": true}
	keys, err := List("analysis.json")
	require.NoError(t, err)
	for _, key := range keys {
		tpl := MustGet("analysis.json", key)
		for _, m := range placeholderRe.FindAllStringSubmatch(tpl, -1) {
			assert.True(t, known[m[1]], "%s uses unknown placeholder %s", key, m[1])
		}
		assert.False(t, strings.HasPrefix(tpl, " "))
	}
}
