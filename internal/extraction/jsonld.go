package extraction

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-assistant/internal/fetch"
)

// jsonLDPosting holds the schema.org/JobPosting fields we map onto a JobPosting.
type jsonLDPosting struct {
	Title           string
	Company         string
	Location        string
	Description     string
	DescriptionHTML string
	Salary          string
	EmploymentType  string
}

func (p *jsonLDPosting) field(f Field) string {
	switch f {
	case FieldTitle:
		return p.Title
	case FieldCompany:
		return p.Company
	case FieldLocation:
		return p.Location
	case FieldDescription:
		return p.Description
	case FieldSalary:
		return p.Salary
	case FieldJobType:
		return p.EmploymentType
	}
	return ""
}

// parseJSONLD returns the first schema.org JobPosting found in the page's
// ld+json scripts, or nil. Malformed scripts are ignored.
func parseJSONLD(doc *goquery.Document) *jsonLDPosting {
	var found *jsonLDPosting
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true
		}
		if obj := findJobPosting(data); obj != nil {
			found = toPosting(obj)
			return false
		}
		return true
	})
	return found
}

func findJobPosting(data any) map[string]any {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if obj := findJobPosting(item); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if isType(v["@type"], "JobPosting") {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findJobPosting(graph)
		}
	}
	return nil
}

func isType(t any, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func toPosting(obj map[string]any) *jsonLDPosting {
	p := &jsonLDPosting{
		Title:   str(obj["title"]),
		Company: nameOf(obj["hiringOrganization"]),
	}

	if desc, _ := obj["description"].(string); strings.TrimSpace(desc) != "" {
		if strings.Contains(desc, "&lt;") {
			desc = html.UnescapeString(desc)
		}
		p.DescriptionHTML = desc
		if d, err := goquery.NewDocumentFromReader(strings.NewReader(desc)); err == nil {
			p.Description = fetch.CleanWhitespace(fetch.BlockText(d.Selection))
		}
	}

	p.Location = location(obj["jobLocation"])
	if p.Location == "" && strings.EqualFold(str(obj["jobLocationType"]), "TELECOMMUTE") {
		p.Location = "Remote"
	}

	switch et := obj["employmentType"].(type) {
	case string:
		p.EmploymentType = strings.ReplaceAll(et, "_", "-")
	case []any:
		if len(et) > 0 {
			p.EmploymentType = strings.ReplaceAll(str(et[0]), "_", "-")
		}
	}

	p.Salary = salary(obj["baseSalary"])
	return p
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return strings.Join(strings.Fields(s), " ")
	case float64:
		return fmt.Sprintf("%.0f", s)
	}
	return ""
}

func nameOf(v any) string {
	switch o := v.(type) {
	case string:
		return str(o)
	case map[string]any:
		return str(o["name"])
	}
	return ""
}

func location(v any) string {
	switch loc := v.(type) {
	case []any:
		if len(loc) > 0 {
			return location(loc[0])
		}
	case map[string]any:
		addr, ok := loc["address"].(map[string]any)
		if !ok {
			return nameOf(loc)
		}
		parts := []string{}
		for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			if part := nameOf(addr[key]); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func salary(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	currency := str(obj["currency"])
	val, ok := obj["value"].(map[string]any)
	if !ok {
		if single := str(obj["value"]); single != "" {
			return strings.TrimSpace(single + " " + currency)
		}
		return ""
	}
	minV, maxV, single := str(val["minValue"]), str(val["maxValue"]), str(val["value"])
	var amount string
	switch {
	case minV != "" && maxV != "":
		amount = minV + "-" + maxV
	case single != "":
		amount = single
	case minV != "":
		amount = minV
	case maxV != "":
		amount = maxV
	default:
		return ""
	}
	out := strings.TrimSpace(amount + " " + currency)
	if unit := strings.ToLower(str(val["unitText"])); unit != "" {
		out += " per " + unit
	}
	return out
}
