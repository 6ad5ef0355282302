// Package fetch - platform.go classifies job-posting URLs by job board.
package fetch

import "strings"

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformLinkedIn is linkedin.com job views
	PlatformLinkedIn Platform = "linkedin"
	// PlatformIndeed is indeed.com and its country sites
	PlatformIndeed Platform = "indeed"
	// PlatformGlassdoor is glassdoor.com
	PlatformGlassdoor Platform = "glassdoor"
	// PlatformAngelList is AngelList Talent, now Wellfound
	PlatformAngelList Platform = "angellist"
	// PlatformRemoteCo is remote.co
	PlatformRemoteCo Platform = "remoteco"
	// PlatformZipRecruiter is ziprecruiter.com
	PlatformZipRecruiter Platform = "ziprecruiter"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformJobvite is the Jobvite ATS platform
	PlatformJobvite Platform = "jobvite"
	// PlatformSmartRecruiters is the SmartRecruiters ATS platform
	PlatformSmartRecruiters Platform = "smartrecruiters"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformGeneric is any unrecognized site
	PlatformGeneric Platform = "generic"
)

type platformPattern struct {
	platform Platform
	fragment string
}

// platformPatterns is scanned in order and the first fragment contained in the
// lowercased URL wins. Longer, more specific fragments come before the short
// ones they contain.
var platformPatterns = []platformPattern{
	{PlatformWorkday, "myworkdayjobs.com"},
	{PlatformWorkday, "myworkdaysite.com"},
	{PlatformGreenhouse, "boards.greenhouse.io"},
	{PlatformGreenhouse, "greenhouse.io"},
	{PlatformLever, "jobs.lever.co"},
	{PlatformLever, "lever.co"},
	{PlatformSmartRecruiters, "smartrecruiters.com"},
	{PlatformJobvite, "jobvite.com"},
	{PlatformAshby, "ashbyhq.com"},
	{PlatformZipRecruiter, "ziprecruiter."},
	{PlatformGlassdoor, "glassdoor."},
	{PlatformLinkedIn, "linkedin.com"},
	{PlatformIndeed, "indeed."},
	{PlatformAngelList, "wellfound.com"},
	{PlatformAngelList, "angel.co"},
	{PlatformAngelList, "angellist."},
	{PlatformRemoteCo, "remote.co/"},
	{PlatformWorkday, "workday.com"},
}

var displayNames = map[Platform]string{
	PlatformLinkedIn:        "LinkedIn",
	PlatformIndeed:          "Indeed",
	PlatformGlassdoor:       "Glassdoor",
	PlatformAngelList:       "AngelList",
	PlatformRemoteCo:        "Remote.co",
	PlatformZipRecruiter:    "ZipRecruiter",
	PlatformWorkday:         "Workday",
	PlatformGreenhouse:      "Greenhouse",
	PlatformLever:           "Lever",
	PlatformJobvite:         "Jobvite",
	PlatformSmartRecruiters: "SmartRecruiters",
	PlatformAshby:           "Ashby",
	PlatformGeneric:         "Generic",
}

// DetectPlatform identifies the job board platform from a URL. The input
// need not be a well-formed URL; detection is plain substring matching.
func DetectPlatform(urlStr string) Platform {
	lower := strings.ToLower(urlStr)
	// "remote.co/" must also match a bare host with no trailing path.
	if !strings.Contains(lower, "remote.co/") && strings.HasSuffix(lower, "remote.co") {
		lower += "/"
	}
	for _, p := range platformPatterns {
		if strings.Contains(lower, p.fragment) {
			return p.platform
		}
	}
	return PlatformGeneric
}

// DisplayName returns the human readable platform name.
func (p Platform) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}

// KnownPlatforms returns every platform DetectPlatform can report, in
// detection table order and without duplicates, followed by PlatformGeneric.
func KnownPlatforms() []Platform {
	seen := make(map[Platform]bool, len(displayNames))
	out := make([]Platform, 0, len(displayNames))
	for _, p := range platformPatterns {
		if !seen[p.platform] {
			seen[p.platform] = true
			out = append(out, p.platform)
		}
	}
	return append(out, PlatformGeneric)
}

// ParsePlatform converts a platform id or display name back to a Platform.
// Unknown names map to PlatformGeneric.
func ParsePlatform(name string) Platform {
	lower := strings.ToLower(strings.TrimSpace(name))
	for p, display := range displayNames {
		if lower == string(p) || lower == strings.ToLower(display) {
			return p
		}
	}
	return PlatformGeneric
}
