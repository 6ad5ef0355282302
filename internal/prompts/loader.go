// Package prompts holds the LLM prompt templates. Each embedded JSON file maps
// a prompt key to a template using {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

// parsed holds decoded template files keyed by file name.
var (
	parsedMu sync.RWMutex
	parsed   = map[string]map[string]string{}
)

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Get returns the template stored under key in file (e.g. "analysis.json").
func Get(file, key string) (string, error) {
	templates, err := templatesIn(file)
	if err != nil {
		return "", err
	}
	tpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return tpl, nil
}

// MustGet is Get for templates that must exist at startup.
func MustGet(file, key string) string {
	tpl, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tpl
}

// Format substitutes {{.Name}} placeholders from data. Placeholders without a
// value are left as they are.
func Format(template string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		name := ph[3 : len(ph)-2]
		if v, ok := data[name]; ok {
			return v
		}
		return ph
	})
}

// Render loads a template and fills it from data. It fails when a
// placeholder has no value, so a renamed key cannot ship a prompt containing
// literal "{{.Name}}" text.
func Render(file, key string, data map[string]string) (string, error) {
	tpl, err := Get(file, key)
	if err != nil {
		return "", err
	}
	var missing []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tpl, -1) {
		if _, ok := data[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: no value for placeholder %q", file, key, strings.Join(missing, ", "))
	}
	return Format(tpl, data), nil
}

// List returns the template keys in file, sorted.
func List(file string) ([]string, error) {
	templates, err := templatesIn(file)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// ClearCache drops decoded files so the next lookup decodes again.
func ClearCache() {
	parsedMu.Lock()
	parsed = map[string]map[string]string{}
	parsedMu.Unlock()
}

func templatesIn(file string) (map[string]string, error) {
	parsedMu.RLock()
	templates, ok := parsed[file]
	parsedMu.RUnlock()
	if ok {
		return templates, nil
	}

	raw, err := templateFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	parsedMu.Lock()
	parsed[file] = templates
	parsedMu.Unlock()
	return templates, nil
}
