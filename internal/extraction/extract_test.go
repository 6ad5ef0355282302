package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/types"
)

const linkedInPage = `
<html>
<head><title>Senior Engineer | Acme | LinkedIn</title></head>
<body>
	<nav>Jobs People Learning</nav>
	<h1 class="top-card-layout__title">Senior Engineer</h1>
	<a class="topcard__org-name-link" href="/company/acme">Acme</a>
	<span class="topcard__flavor--bullet">San Francisco, CA</span>
	<div class="show-more-less-html__markup">
		<p>We are hiring a senior engineer to build Go services on Kubernetes.</p>
		<h3>Requirements</h3>
		<ul><li>5+ years of Go</li><li>Kubernetes</li></ul>
		<h3>Benefits</h3>
		<ul><li>Health insurance</li></ul>
		<p>This is a full-time role paying $150,000 - $180,000 per year.</p>
	</div>
</body>
</html>`

const genericPage = `
<html>
<body>
	<h1>Backend Developer</h1>
	<div class="company">Acme Corp</div>
	<div class="job-description">
		<p>Build APIs in Python and PostgreSQL. Contract position, remote friendly, for a mid-level engineer.</p>
	</div>
</body>
</html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract_LinkedIn(t *testing.T) {
	job := Extract(mustDoc(t, linkedInPage), fetch.PlatformLinkedIn)

	assert.Equal(t, "Senior Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "San Francisco, CA", job.Location)
	assert.Contains(t, job.Description, "build Go services on Kubernetes")
	assert.Contains(t, job.Description, "5+ years of Go\nKubernetes")
	assert.NotContains(t, job.Description, "People Learning")
	assert.Equal(t, "$150,000 - $180,000 per year", types.Deref(job.Salary))
	assert.Equal(t, "Full-time", types.Deref(job.JobType))
	assert.Equal(t, "Senior", types.Deref(job.Experience))
	assert.Equal(t, []string{"5+ years of Go", "Kubernetes"}, job.Requirements)
	assert.Equal(t, []string{"Health insurance"}, job.Benefits)
	assert.Equal(t, "linkedin", job.Platform)
	assert.Contains(t, job.DescriptionMarkdown, "Kubernetes")
}

func TestExtract_GenericHeuristics(t *testing.T) {
	job := Extract(mustDoc(t, genericPage), fetch.PlatformGeneric)

	assert.Equal(t, "Backend Developer", job.Title)
	assert.Equal(t, "Acme Corp", job.Company)
	assert.Empty(t, job.Location)
	assert.Contains(t, job.Description, "Build APIs in Python")
	assert.Equal(t, "Contract", types.Deref(job.JobType))
	assert.Equal(t, "Mid", types.Deref(job.Experience))
	assert.Nil(t, job.Salary)
	assert.Equal(t, []string{}, job.Requirements)
	assert.Equal(t, []string{}, job.Benefits)
}

func TestRun_PlatformFallsBackToGeneric(t *testing.T) {
	html := `<html><body>
		<h1 class="job-title">Data Analyst</h1>
		<span class="companyName">Globex</span>
	</body></html>`

	res := Run(mustDoc(t, html), fetch.PlatformIndeed)
	assert.Equal(t, "Data Analyst", res.Posting.Title)
	assert.Equal(t, "Globex", res.Posting.Company)
	assert.Equal(t, "generic", res.Sources[FieldTitle])
	assert.Equal(t, "generic", res.Sources[FieldCompany])
	assert.Equal(t, "indeed", res.Posting.Platform)
}

func TestRun_PlatformTableWins(t *testing.T) {
	html := `<html><body>
		<h1 data-testid="jobsearch-JobInfoHeader-title">Staff Engineer</h1>
		<div data-testid="inlineHeader-companyName">Initech</div>
		<div data-testid="inlineHeader-companyLocation">Austin, TX</div>
		<div id="jobDescriptionText"><p>Own the billing platform.</p></div>
		<h2 class="title">Something else entirely</h2>
	</body></html>`

	res := Run(mustDoc(t, html), fetch.PlatformIndeed)
	assert.Equal(t, "Staff Engineer", res.Posting.Title)
	assert.Equal(t, "Initech", res.Posting.Company)
	assert.Equal(t, "Austin, TX", res.Posting.Location)
	assert.Equal(t, "Own the billing platform.", res.Posting.Description)
	assert.Equal(t, "indeed", res.Sources[FieldTitle])
	assert.Equal(t, "indeed", res.Sources[FieldDescription])
}

func TestExtract_TitleLengthBounds(t *testing.T) {
	long := strings.Repeat("x", 201)
	html := `<html><body><h1>Hi</h1><h1>` + long + `</h1><h1>Platform Engineer</h1></body></html>`

	job := Extract(mustDoc(t, html), fetch.PlatformGeneric)
	assert.Equal(t, "Platform Engineer", job.Title)
}

func TestExtract_BodyFallbackForDescription(t *testing.T) {
	filler := strings.Repeat("lorem ipsum ", 400)
	html := `<html><body><h1>Marketing Manager</h1><span>` + filler + `</span></body></html>`

	res := Run(mustDoc(t, html), fetch.PlatformGeneric)
	assert.Equal(t, "body", res.Sources[FieldDescription])
	n := utf8.RuneCountInString(res.Posting.Description)
	assert.LessOrEqual(t, n, BodyFallbackChars)
	assert.Greater(t, n, BodyFallbackChars-20)
	assert.True(t, strings.HasPrefix(res.Posting.Description, "Marketing Manager\nlorem"))
}

func TestExtract_JSONLD(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@context":"https://schema.org","@type":"JobPosting","title":"Go Developer",
	 "description":"<p>Build APIs with Go.</p><ul><li>Docker</li></ul>",
	 "hiringOrganization":{"@type":"Organization","name":"Acme"},
	 "jobLocation":{"@type":"Place","address":{"addressLocality":"Berlin","addressCountry":"DE"}},
	 "employmentType":"FULL_TIME",
	 "baseSalary":{"@type":"MonetaryAmount","currency":"EUR","value":{"@type":"QuantitativeValue","minValue":60000,"maxValue":80000,"unitText":"YEAR"}}}
	</script></head><body><div>Apply now</div></body></html>`

	res := Run(mustDoc(t, html), fetch.PlatformGeneric)
	job := res.Posting
	assert.Equal(t, "Go Developer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Berlin, DE", job.Location)
	assert.Equal(t, "Build APIs with Go.\nDocker", job.Description)
	assert.Equal(t, "60000-80000 EUR per year", types.Deref(job.Salary))
	assert.Equal(t, "Full-time", types.Deref(job.JobType))
	assert.Equal(t, "jsonld", res.Sources[FieldTitle])
	assert.Contains(t, job.DescriptionMarkdown, "Build APIs with Go.")
}

func TestExtract_JSONLDGraphAndMalformed(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not json</script>
	<script type="application/ld+json">{"@graph":[{"@type":"WebPage"},{"@type":["JobPosting"],"title":"Site Reliability Engineer","hiringOrganization":"Hooli","jobLocationType":"TELECOMMUTE"}]}</script>
	</head><body></body></html>`

	job := Extract(mustDoc(t, html), fetch.PlatformGeneric)
	assert.Equal(t, "Site Reliability Engineer", job.Title)
	assert.Equal(t, "Hooli", job.Company)
	assert.Equal(t, "Remote", job.Location)
}

func TestExtract_Idempotent(t *testing.T) {
	first, err := ExtractHTML(linkedInPage, fetch.PlatformLinkedIn)
	require.NoError(t, err)
	second, err := ExtractHTML(linkedInPage, fetch.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_DoesNotMutateDocument(t *testing.T) {
	doc := mustDoc(t, linkedInPage)
	before, err := doc.Html()
	require.NoError(t, err)

	_ = Extract(doc, fetch.PlatformLinkedIn)

	after, err := doc.Html()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStrategyFor(t *testing.T) {
	for _, p := range fetch.KnownPlatforms() {
		s := StrategyFor(p)
		assert.NotEmpty(t, s.Fields[FieldTitle], "platform %s has no title rules", p)
		assert.NotEmpty(t, s.Fields[FieldDescription], "platform %s has no description rules", p)
	}
	assert.Equal(t, fetch.PlatformGeneric, StrategyFor("monster").Platform)
}
