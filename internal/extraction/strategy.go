// Package extraction turns a parsed job-posting page into a types.JobPosting.
// Per-platform knowledge lives in declarative selector tables; the code in
// this package only walks them.
package extraction

import "github.com/jonathan/job-assistant/internal/fetch"

// Field identifies a JobPosting field filled from selectors.
type Field string

const (
	FieldTitle       Field = "title"
	FieldCompany     Field = "company"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
	FieldSalary      Field = "salary"
	FieldJobType     Field = "jobType"
)

// Rule is one candidate selector for a field. Attr selects an attribute
// instead of the element text. A value outside [MinLen, MaxLen] runes is
// rejected and the next matching element or rule is tried. Zero bounds
// fall back to the field defaults.
type Rule struct {
	Selector string
	Attr     string
	MinLen   int
	MaxLen   int
}

// Strategy is the ordered rule list per field for one platform.
type Strategy struct {
	Platform fetch.Platform
	Fields   map[Field][]Rule
}

// fieldBounds are the default length bounds per field.
var fieldBounds = map[Field][2]int{
	FieldTitle:       {5, 200},
	FieldCompany:     {2, 200},
	FieldLocation:    {2, 200},
	FieldDescription: {1, 0},
	FieldSalary:      {3, 120},
	FieldJobType:     {3, 80},
}

// fieldOrder fixes the order fields are extracted in.
var fieldOrder = []Field{FieldTitle, FieldCompany, FieldLocation, FieldDescription, FieldSalary, FieldJobType}

func text(selector string) Rule { return Rule{Selector: selector} }

func attr(selector, name string) Rule { return Rule{Selector: selector, Attr: name} }

func long(selector string, minLen int) Rule { return Rule{Selector: selector, MinLen: minLen} }

func short(selector string, maxLen int) Rule { return Rule{Selector: selector, MaxLen: maxLen} }

var genericStrategy = Strategy{
	Platform: fetch.PlatformGeneric,
	Fields: map[Field][]Rule{
		FieldTitle: {
			text(`[itemprop="title"]`),
			text(`h1[class*="title"]`),
			text(`[class*="job-title"]`),
			text(`[class*="jobTitle"]`),
			text(`[class*="job_title"]`),
			text("h1"),
			text(`[class*="title"]`),
			attr(`meta[property="og:title"]`, "content"),
			text("title"),
		},
		FieldCompany: {
			text(`[itemprop="hiringOrganization"] [itemprop="name"]`),
			short(`[class*="company-name"]`, 100),
			short(`[class*="companyName"]`, 100),
			short(`[class*="company_name"]`, 100),
			short(`[class*="employer"]`, 100),
			short(`[class*="company"]`, 100),
			attr(`[data-company]`, "data-company"),
			attr(`meta[property="og:site_name"]`, "content"),
		},
		FieldLocation: {
			text(`[itemprop="jobLocation"]`),
			short(`[class*="job-location"]`, 120),
			short(`[class*="location"]`, 120),
			short(`[data-testid*="location"]`, 120),
		},
		FieldDescription: {
			long(`[itemprop="description"]`, 50),
			long(`[class*="job-description"]`, 50),
			long(`[class*="jobDescription"]`, 50),
			long(`[id*="job-description"]`, 50),
			long(`[class*="description"]`, 100),
			long(`[id*="description"]`, 100),
			long(`[class*="posting-content"]`, 100),
			long(`[class*="job-details"]`, 100),
			long("article", 200),
			long("main", 200),
		},
		FieldSalary: {
			text(`[itemprop="baseSalary"]`),
			text(`[class*="salary"]`),
			text(`[class*="compensation"]`),
			text(`[data-testid*="salary"]`),
		},
		FieldJobType: {
			text(`[itemprop="employmentType"]`),
			text(`[class*="employment-type"]`),
			text(`[class*="job-type"]`),
			text(`[class*="jobType"]`),
		},
	},
}

var platformStrategies = map[fetch.Platform]Strategy{
	fetch.PlatformLinkedIn: {
		Platform: fetch.PlatformLinkedIn,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(".top-card-layout__title"),
				text(".topcard__title"),
				text(".job-details-jobs-unified-top-card__job-title h1"),
				text(".jobs-unified-top-card__job-title"),
			},
			FieldCompany: {
				text(".topcard__org-name-link"),
				text(".topcard__flavor a"),
				text(".job-details-jobs-unified-top-card__company-name a"),
				text(".jobs-unified-top-card__company-name"),
			},
			FieldLocation: {
				text(".topcard__flavor--bullet"),
				text(".job-details-jobs-unified-top-card__bullet"),
				text(".jobs-unified-top-card__bullet"),
			},
			FieldDescription: {
				text(".show-more-less-html__markup"),
				text(".description__text"),
				text("#job-details"),
				text(".jobs-description__content"),
			},
			FieldSalary: {
				text(".compensation__salary"),
				text(".salary"),
			},
		},
	},
	fetch.PlatformIndeed: {
		Platform: fetch.PlatformIndeed,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(`[data-testid="jobsearch-JobInfoHeader-title"]`),
				text(".jobsearch-JobInfoHeader-title"),
			},
			FieldCompany: {
				text(`[data-testid="inlineHeader-companyName"]`),
				text(`[data-company-name="true"]`),
				text(".jobsearch-InlineCompanyRating div:first-child"),
			},
			FieldLocation: {
				text(`[data-testid="jobsearch-JobInfoHeader-companyLocation"]`),
				text(`[data-testid="inlineHeader-companyLocation"]`),
				text(".jobsearch-JobInfoHeader-subtitle > div:last-child"),
			},
			FieldDescription: {
				text("#jobDescriptionText"),
				text(".jobsearch-jobDescriptionText"),
			},
			FieldSalary: {
				text("#salaryInfoAndJobType span:first-child"),
				text(".jobsearch-JobMetadataHeader-item"),
			},
			FieldJobType: {
				text("#salaryInfoAndJobType span:last-child"),
			},
		},
	},
	fetch.PlatformGlassdoor: {
		Platform: fetch.PlatformGlassdoor,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(`[data-test="job-title"]`),
				text(`[class*="JobDetails_jobTitle"]`),
			},
			FieldCompany: {
				text(`[data-test="employer-name"]`),
				text(`[class*="EmployerProfile_employerName"]`),
			},
			FieldLocation: {
				text(`[data-test="location"]`),
				text(`[class*="JobDetails_location"]`),
			},
			FieldDescription: {
				text(".jobDescriptionContent"),
				text(`[class*="JobDetails_jobDescription"]`),
				text("#JobDescriptionContainer"),
			},
			FieldSalary: {
				text(`[data-test="detailSalary"]`),
				text(`[class*="SalaryEstimate_salaryRange"]`),
			},
		},
	},
	fetch.PlatformAngelList: {
		Platform: fetch.PlatformAngelList,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(`h1[class*="title"]`),
				text(`[class*="JobListing_title"]`),
			},
			FieldCompany: {
				text(`a[href*="/company/"] h2`),
				short(`a[href*="/company/"]`, 100),
			},
			FieldLocation: {
				text(`[class*="location"]`),
			},
			FieldDescription: {
				text(`[class*="description"]`),
			},
			FieldSalary: {
				text(`[class*="compensation"]`),
			},
		},
	},
	fetch.PlatformRemoteCo: {
		Platform: fetch.PlatformRemoteCo,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text("h1.font-weight-bold"),
				text(".job_title"),
			},
			FieldCompany: {
				text(".co_name"),
				text(".company_name"),
			},
			FieldLocation: {
				text(".location_sm"),
				text(".location"),
			},
			FieldDescription: {
				text(".job_description"),
			},
			FieldSalary: {
				text(".salary_sm"),
			},
		},
	},
	fetch.PlatformZipRecruiter: {
		Platform: fetch.PlatformZipRecruiter,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text("h1.job_title"),
				text(".job_header_title"),
			},
			FieldCompany: {
				text(".hiring_company_text a"),
				text("a.hiring_company"),
			},
			FieldLocation: {
				text(".location_text"),
				text(`[data-testid="job-location"]`),
			},
			FieldDescription: {
				text(".job_description"),
				text(".jobDescriptionSection"),
			},
			FieldSalary: {
				text(".job_salary"),
			},
			FieldJobType: {
				text(".job_characteristics_data"),
			},
		},
	},
	fetch.PlatformWorkday: {
		Platform: fetch.PlatformWorkday,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(`[data-automation-id="jobPostingHeader"]`),
			},
			FieldCompany: {
				attr(`meta[property="og:site_name"]`, "content"),
			},
			FieldLocation: {
				text(`[data-automation-id="locations"] dd`),
				text(`[data-automation-id="locations"]`),
			},
			FieldDescription: {
				text(`[data-automation-id="jobPostingDescription"]`),
				text(`[data-automation-id="jobDescription"]`),
			},
			FieldJobType: {
				text(`[data-automation-id="time"] dd`),
			},
		},
	},
	fetch.PlatformGreenhouse: {
		Platform: fetch.PlatformGreenhouse,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text("h1.app-title"),
				text(".job__title h1"),
				text("h1.section-header"),
			},
			FieldCompany: {
				text(".company-name"),
				attr(`meta[property="og:site_name"]`, "content"),
			},
			FieldLocation: {
				text(".location"),
				text(".job__location"),
			},
			FieldDescription: {
				text(".job__description"),
				text("#content"),
				text(".job-post-container"),
			},
		},
	},
	fetch.PlatformLever: {
		Platform: fetch.PlatformLever,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(".posting-headline h2"),
			},
			FieldCompany: {
				attr(".main-header-logo img", "alt"),
			},
			FieldLocation: {
				text(".posting-categories .location"),
			},
			FieldDescription: {
				text(`[data-qa="job-description"]`),
				text(".section-wrapper.page-full-width"),
				text(".posting-description"),
			},
			FieldJobType: {
				text(".posting-categories .commitment"),
			},
		},
	},
	fetch.PlatformJobvite: {
		Platform: fetch.PlatformJobvite,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(".jv-header"),
			},
			FieldCompany: {
				attr(".jv-logo img", "alt"),
			},
			FieldLocation: {
				text(".jv-job-detail-meta"),
			},
			FieldDescription: {
				text(".jv-job-detail-description"),
			},
		},
	},
	fetch.PlatformSmartRecruiters: {
		Platform: fetch.PlatformSmartRecruiters,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text("h1.job-title"),
				text(`[itemprop="title"]`),
			},
			FieldCompany: {
				text(`[itemprop="hiringOrganization"] [itemprop="name"]`),
				attr(`meta[itemprop="name"]`, "content"),
			},
			FieldLocation: {
				text(`[itemprop="jobLocation"]`),
				text(".job-detail"),
			},
			FieldDescription: {
				text(`[itemprop="description"]`),
				text(".job-sections"),
			},
		},
	},
	fetch.PlatformAshby: {
		Platform: fetch.PlatformAshby,
		Fields: map[Field][]Rule{
			FieldTitle: {
				text(`h1[class*="_title"]`),
			},
			FieldCompany: {
				attr(`meta[property="og:site_name"]`, "content"),
			},
			FieldLocation: {
				text(`[class*="_location"]`),
			},
			FieldDescription: {
				text(`[class*="_descriptionText"]`),
			},
		},
	},
}

// StrategyFor returns the selector strategy for platform, or the generic
// strategy when the platform has none.
func StrategyFor(platform fetch.Platform) Strategy {
	if s, ok := platformStrategies[platform]; ok {
		return s
	}
	return genericStrategy
}

// GenericStrategy returns the heuristic strategy used for unknown sites and
// as the fallback for platform strategies.
func GenericStrategy() Strategy {
	return genericStrategy
}
