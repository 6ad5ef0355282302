package extraction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/types"
)

// BodyFallbackChars is how much page body text is used as a description of
// last resort.
const BodyFallbackChars = 2000

// Result is the raw outcome of running strategies over a document, before
// the orchestrator attaches skills, URL and timestamp.
type Result struct {
	Posting *types.JobPosting
	// Sources records which strategy produced each field: a platform id,
	// "generic", "jsonld", "body" or "inferred".
	Sources map[Field]string
}

// ExtractHTML parses html and runs Extract over it.
func ExtractHTML(html string, platform fetch.Platform) (*types.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return Extract(doc, platform), nil
}

// Extract pulls a partial JobPosting out of doc. Any field may be empty; the
// caller decides whether the result counts as a successful extraction.
func Extract(doc *goquery.Document, platform fetch.Platform) *types.JobPosting {
	return Run(doc, platform).Posting
}

// Run is Extract with per-field provenance. doc is never modified.
func Run(doc *goquery.Document, platform fetch.Platform) *Result {
	values := make(map[Field]string, len(fieldOrder))
	sources := make(map[Field]string, len(fieldOrder))
	var descSel *goquery.Selection

	apply := func(s Strategy) {
		for _, field := range fieldOrder {
			if values[field] != "" {
				continue
			}
			value, sel := firstMatch(doc, field, s.Fields[field])
			if value == "" {
				continue
			}
			values[field] = value
			sources[field] = string(s.Platform)
			if field == FieldDescription {
				descSel = sel
			}
		}
	}

	// Platform tables first, then structured data, then the generic
	// heuristics for whatever is still missing. Platform markup drifts, so a
	// platform page that defeats its own table still gets the generic pass.
	if strategy := StrategyFor(platform); strategy.Platform != fetch.PlatformGeneric {
		apply(strategy)
	}

	ld := parseJSONLD(doc)
	if ld != nil {
		for _, field := range fieldOrder {
			if value := ld.field(field); values[field] == "" && value != "" {
				values[field] = value
				sources[field] = "jsonld"
			}
		}
	}

	apply(genericStrategy)

	if values[FieldDescription] == "" {
		if body := truncateRunes(fetch.BodyText(doc), BodyFallbackChars); body != "" {
			values[FieldDescription] = body
			sources[FieldDescription] = "body"
		}
	}

	posting := &types.JobPosting{
		Title:       values[FieldTitle],
		Company:     values[FieldCompany],
		Location:    values[FieldLocation],
		Description: values[FieldDescription],
		Platform:    string(platform),
	}

	lowerDesc := strings.ToLower(posting.Description)

	salary := values[FieldSalary]
	if salary == "" {
		if salary = FindSalary(posting.Description); salary == "" {
			salary = FindSalary(fetch.BodyText(doc))
		}
		if salary != "" {
			sources[FieldSalary] = "inferred"
		}
	}
	posting.Salary = types.StringPtr(salary)

	jobType := InferJobType(lowerDesc)
	if jobType == "" {
		jobType = InferJobType(strings.ToLower(values[FieldJobType]))
	}
	posting.JobType = types.StringPtr(jobType)
	posting.Experience = types.StringPtr(InferExperience(lowerDesc))

	scope := descSel
	if scope == nil {
		scope = doc.Selection
	}
	posting.Requirements, posting.Benefits = Sections(scope)

	if descSel != nil {
		posting.DescriptionMarkdown = toMarkdown(descSel)
	} else if ld != nil && ld.DescriptionHTML != "" {
		if md, err := htmltomarkdown.ConvertString(ld.DescriptionHTML); err == nil {
			posting.DescriptionMarkdown = strings.TrimSpace(md)
		}
	}

	posting.Normalize()
	return &Result{Posting: posting, Sources: sources}
}

// firstMatch walks rules in order and, within a rule, matching elements in
// document order, returning the first value inside the length bounds.
func firstMatch(doc *goquery.Document, field Field, rules []Rule) (string, *goquery.Selection) {
	bounds := fieldBounds[field]
	for _, rule := range rules {
		minLen, maxLen := bounds[0], bounds[1]
		if rule.MinLen > 0 {
			minLen = rule.MinLen
		}
		if rule.MaxLen > 0 {
			maxLen = rule.MaxLen
		}

		var found string
		var foundSel *goquery.Selection
		doc.Find(rule.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			value := selectionValue(s, rule.Attr, field == FieldDescription)
			n := utf8.RuneCountInString(value)
			if value == "" || n < minLen || (maxLen > 0 && n > maxLen) {
				return true
			}
			found, foundSel = value, s
			return false
		})
		if found != "" {
			return found, foundSel
		}
	}
	return "", nil
}

func selectionValue(s *goquery.Selection, attrName string, multiline bool) string {
	if attrName != "" {
		v, _ := s.Attr(attrName)
		return strings.Join(strings.Fields(v), " ")
	}
	if multiline {
		return fetch.CleanWhitespace(fetch.BlockText(s))
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}

func toMarkdown(s *goquery.Selection) string {
	html, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}
