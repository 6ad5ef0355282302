package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://www.linkedin.com/jobs/view/3801234567/", PlatformLinkedIn},
		{"https://www.indeed.com/viewjob?jk=abc123", PlatformIndeed},
		{"https://uk.indeed.co.uk/viewjob?jk=abc", PlatformIndeed},
		{"https://www.glassdoor.com/job-listing/x", PlatformGlassdoor},
		{"https://wellfound.com/jobs/123-backend", PlatformAngelList},
		{"https://angel.co/company/acme/jobs/1", PlatformAngelList},
		{"https://remote.co/job/senior-go-engineer/", PlatformRemoteCo},
		{"https://www.ziprecruiter.com/c/Acme/Job/x", PlatformZipRecruiter},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://jobs.jobvite.com/acme/job/o123", PlatformJobvite},
		{"https://jobs.smartrecruiters.com/Acme/123", PlatformSmartRecruiters},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://example.com/careers/42", PlatformGeneric},
		{"https://remote.com/jobs/1", PlatformGeneric},
		{"not a url at all", PlatformGeneric},
		{"", PlatformGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestDetectPlatform_CaseInsensitive(t *testing.T) {
	assert.Equal(t, PlatformLinkedIn, DetectPlatform("HTTPS://WWW.LINKEDIN.COM/JOBS/VIEW/1"))
	assert.Equal(t, PlatformRemoteCo, DetectPlatform("https://Remote.co"))
}

func TestDetectPlatform_FirstMatchWins(t *testing.T) {
	// A Greenhouse board embedded under a LinkedIn redirect path is still Greenhouse,
	// because ATS patterns are listed before job board patterns.
	url := "https://boards.greenhouse.io/acme/jobs/1?ref=linkedin.com"
	assert.Equal(t, PlatformGreenhouse, DetectPlatform(url))
}

func TestDetectPlatform_Deterministic(t *testing.T) {
	url := "https://www.indeed.com/viewjob?jk=1"
	first := DetectPlatform(url)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, DetectPlatform(url))
	}
}

func TestKnownPlatforms(t *testing.T) {
	platforms := KnownPlatforms()
	assert.Equal(t, PlatformGeneric, platforms[len(platforms)-1])

	seen := map[Platform]bool{}
	for _, p := range platforms {
		assert.False(t, seen[p], "duplicate platform %s", p)
		seen[p] = true
		assert.NotEmpty(t, p.DisplayName())
	}
	assert.Len(t, platforms, 13)
}

func TestParsePlatform(t *testing.T) {
	assert.Equal(t, PlatformLinkedIn, ParsePlatform("LinkedIn"))
	assert.Equal(t, PlatformRemoteCo, ParsePlatform("remote.co"))
	assert.Equal(t, PlatformAshby, ParsePlatform("ashby"))
	assert.Equal(t, PlatformGeneric, ParsePlatform("monster"))
}
