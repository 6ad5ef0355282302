package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxSectionItems caps requirements and benefits lists.
const MaxSectionItems = 15

type keywordRule struct {
	label   string
	pattern *regexp.Regexp
}

// Check order is fixed and the first hit wins. Full-time is listed before
// remote so "full-time remote" is reported as Full-time.
var jobTypeRules = []keywordRule{
	{"Full-time", regexp.MustCompile(`\bfull[\s_-]?time\b`)},
	{"Part-time", regexp.MustCompile(`\bpart[\s_-]?time\b`)},
	{"Contract", regexp.MustCompile(`\b(contract|contractor|freelance|temporary)\b`)},
	{"Remote", regexp.MustCompile(`\b(remote|telecommute|work from home)\b`)},
}

var experienceRules = []keywordRule{
	{"Senior", regexp.MustCompile(`\b(senior|principal)\b|\bsr\.|\b(staff|lead) (engineer|developer|designer|scientist)\b`)},
	{"Entry", regexp.MustCompile(`\b(entry[\s-]level|junior|new grad|recent graduate|intern|internship)\b|\bjr\.`)},
	{"Mid", regexp.MustCompile(`\b(mid[\s-]?level|intermediate)\b`)},
}

// InferJobType returns the first job type whose keyword occurs in the
// lowercased text, or "".
func InferJobType(lowerText string) string {
	return firstKeyword(jobTypeRules, lowerText)
}

// InferExperience returns Senior, Entry or Mid from the lowercased text, or "".
func InferExperience(lowerText string) string {
	return firstKeyword(experienceRules, lowerText)
}

func firstKeyword(rules []keywordRule, lowerText string) string {
	if lowerText == "" {
		return ""
	}
	for _, r := range rules {
		if r.pattern.MatchString(lowerText) {
			return r.label
		}
	}
	return ""
}

const (
	amount = `(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?`
	money  = `[$£€]\s?` + amount + `\s?[kK]?`
	dash   = `\s?(?:-|–|—|to)\s?`
	period = `(?:\s?(?:/|per\s|an?\s)\s?(?:hour|hr|year|yr|annum|month|mo))?`
)

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + money + `(?:` + dash + `[$£€]?\s?` + amount + `\s?[kK]?)?` + period),
	regexp.MustCompile(`(?i)\b\d{2,3}[kK]` + dash + `\d{2,3}[kK]\s?(?:USD|EUR|GBP|CAD|AUD)?`),
	regexp.MustCompile(`(?i)\b(?:USD|EUR|GBP|CAD|AUD)\s?\d{1,3}(?:,\d{3})+(?:` + dash + `\d{1,3}(?:,\d{3})+)?`),
}

// FindSalary returns the first salary-looking phrase in text, or "".
// Amounts are returned verbatim; no numeric parsing is attempted.
func FindSalary(text string) string {
	if text == "" {
		return ""
	}
	best, bestIdx := "", -1
	for _, re := range salaryPatterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestIdx == -1 || loc[0] < bestIdx {
			best, bestIdx = text[loc[0]:loc[1]], loc[0]
		}
	}
	return strings.TrimSpace(best)
}

var (
	requirementHeading = regexp.MustCompile(`(?i)(requirement|qualification|what you.ll need|what you need|what we.re looking for|you have|must have|about you|skills)`)
	benefitHeading     = regexp.MustCompile(`(?i)(benefit|perk|what we offer|we offer|why join|compensation)`)
)

// Sections collects list items that follow requirement and benefit headings
// inside scope. Each list is de-duplicated and capped at MaxSectionItems.
func Sections(scope *goquery.Selection) (requirements, benefits []string) {
	requirements, benefits = []string{}, []string{}
	scope.Find("h1, h2, h3, h4, h5, h6, strong, b, p").Each(func(_ int, heading *goquery.Selection) {
		label := strings.Join(strings.Fields(heading.Text()), " ")
		if label == "" || len(label) > 80 {
			return
		}
		var target *[]string
		switch {
		case benefitHeading.MatchString(label):
			target = &benefits
		case requirementHeading.MatchString(label):
			target = &requirements
		default:
			return
		}
		list := followingList(heading)
		if list == nil {
			return
		}
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			item := strings.Join(strings.Fields(li.Text()), " ")
			if item != "" && len(*target) < MaxSectionItems && !containsFold(*target, item) {
				*target = append(*target, item)
			}
		})
	})
	return requirements, benefits
}

const headingTags = "h1, h2, h3, h4, h5, h6"

// followingList finds the list a heading introduces. Real headings own
// every list up to the next heading; paragraph-style labels (<p>, <strong>)
// only own the element right after them or after their parent paragraph.
func followingList(heading *goquery.Selection) *goquery.Selection {
	if heading.Is(headingTags) {
		if list := heading.NextUntil(headingTags).Filter("ul, ol").First(); list.Length() > 0 {
			return list
		}
		return nil
	}
	if next := heading.Next(); next.Is("ul, ol") {
		return next
	}
	if parent := heading.Parent(); parent.Is("p") {
		if next := parent.Next(); next.Is("ul, ol") {
			return next
		}
	}
	return nil
}

func containsFold(items []string, s string) bool {
	for _, it := range items {
		if strings.EqualFold(it, s) {
			return true
		}
	}
	return false
}
