package skills

import "strings"

// canonicalNames maps every lowercased name and alias to its canonical name.
var canonicalNames = buildCanonicalNames()

func buildCanonicalNames() map[string]string {
	m := make(map[string]string)
	for _, c := range vocabulary {
		for _, t := range c.Terms {
			m[strings.ToLower(t.Name)] = t.Name
			for _, a := range t.Aliases {
				m[strings.ToLower(a)] = t.Name
			}
		}
	}
	m["go lang"] = "Go"
	m["react native"] = "React Native"
	return m
}

// Normalize returns the canonical form of a skill name. Known names and
// aliases map to their vocabulary spelling; unknown all-lowercase or
// all-uppercase single words get a leading capital; anything else is
// returned trimmed.
func Normalize(name string) string {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := canonicalNames[lower]; ok {
		return canonical
	}

	if strings.Contains(normalized, " ") {
		return normalized
	}
	upper := strings.ToUpper(normalized)
	switch {
	case normalized == lower:
		return upper[:1] + normalized[1:]
	case normalized == upper && len(normalized) > 4:
		// short all-caps words are usually acronyms (AWS, SQL)
		return upper[:1] + lower[1:]
	}
	return normalized
}

// Dedupe normalizes names and drops case-insensitive duplicates and blanks,
// keeping first-seen order. At most limit names are kept when limit > 0.
func Dedupe(names []string, limit int) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, n := range names {
		canonical := Normalize(n)
		key := strings.ToLower(canonical)
		if canonical == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, canonical)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
