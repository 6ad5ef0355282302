package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSkills is the number of skills attached to a job posting.
const MaxSkills = 10

// Match returns up to MaxSkills vocabulary skills found in text.
func Match(text string) []string {
	return MatchN(text, MaxSkills)
}

// MatchN returns the canonical names of vocabulary terms contained in text,
// in vocabulary scan order, without duplicates. Matching is case-insensitive
// and respects word boundaries, so "Java" does not match inside "JavaScript".
// Collection stops as soon as limit skills are found, even mid-category.
// A limit <= 0 means no limit.
func MatchN(text string, limit int) []string {
	result := []string{}
	if strings.TrimSpace(text) == "" {
		return result
	}
	lower := strings.ToLower(text)
	seen := make(map[string]bool)

	for _, category := range vocabulary {
		for _, term := range category.Terms {
			key := strings.ToLower(term.Name)
			if seen[key] {
				continue
			}
			if !termMatches(text, lower, term) {
				continue
			}
			seen[key] = true
			result = append(result, term.Name)
			if limit > 0 && len(result) >= limit {
				return result
			}
		}
	}
	return result
}

func termMatches(text, lower string, term Term) bool {
	if term.CaseSensitive {
		if containsWord(text, term.Name) {
			return true
		}
	} else if containsWord(lower, strings.ToLower(term.Name)) {
		return true
	}
	for _, alias := range term.Aliases {
		if containsWord(lower, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

// containsWord reports whether needle occurs in haystack at a position where
// each word-character edge of needle is not glued to another word character.
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	checkBefore := isWordRune(first)
	checkAfter := isWordRune(last)

	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)

		ok := true
		if checkBefore && start > 0 {
			r, _ := utf8.DecodeLastRuneInString(haystack[:start])
			ok = !isWordRune(r)
		}
		if ok && checkAfter && end < len(haystack) {
			r, _ := utf8.DecodeRuneInString(haystack[end:])
			ok = !isWordRune(r)
		}
		if ok {
			return true
		}
		offset = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
