package formfill

import "github.com/jonathan/job-assistant/internal/types"

// Mapping ties a profile key to the selectors that may hold it. Every
// selector is queried and all matches are candidates.
type Mapping struct {
	Key       string
	Selectors []string
	// Kinds lists the element kinds the value may be written to.
	Kinds []types.ElementKind
}

var (
	textKinds   = []types.ElementKind{types.ElementInput, types.ElementTextarea}
	choiceKinds = []types.ElementKind{types.ElementSelect, types.ElementInput}
	anyKinds    = []types.ElementKind{types.ElementInput, types.ElementSelect, types.ElementTextarea}
)

// nameSelectors expands a list of field names into the name, id and
// autocomplete selectors ATS forms commonly use.
func nameSelectors(names ...string) []string {
	out := make([]string, 0, len(names)*2)
	for _, n := range names {
		out = append(out, `[name="`+n+`"]`, `[id="`+n+`"]`)
	}
	return out
}

// mappings is processed in order. Specific keys precede the broader ones
// that could match the same element (first_name before full_name), since an
// element is attempted at most once per pass.
var mappings = []Mapping{
	{
		Key: types.ProfileFirstName,
		Selectors: append(nameSelectors("firstName", "first_name", "firstname", "fname", "first-name", "job_application[first_name]"),
			`[autocomplete="given-name"]`),
		Kinds: textKinds,
	},
	{
		Key: types.ProfileLastName,
		Selectors: append(nameSelectors("lastName", "last_name", "lastname", "lname", "last-name", "job_application[last_name]"),
			`[autocomplete="family-name"]`),
		Kinds: textKinds,
	},
	{
		Key:       types.ProfileFullName,
		Selectors: append(nameSelectors("name", "fullName", "full_name", "fullname", "candidate_name"), `[autocomplete="name"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileEmail,
		Selectors: append(nameSelectors("email", "emailAddress", "email_address", "job_application[email]"), `input[type="email"]`, `[autocomplete="email"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfilePhone,
		Selectors: append(nameSelectors("phone", "phoneNumber", "phone_number", "mobile", "telephone", "job_application[phone]"), `input[type="tel"]`, `[autocomplete="tel"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileAddress,
		Selectors: append(nameSelectors("address", "address1", "street", "streetAddress", "street_address"), `[autocomplete="street-address"]`, `[autocomplete="address-line1"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileCity,
		Selectors: append(nameSelectors("city", "town", "locality"), `[autocomplete="address-level2"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileState,
		Selectors: append(nameSelectors("state", "province", "region"), `[autocomplete="address-level1"]`),
		Kinds:     anyKinds,
	},
	{
		Key:       types.ProfileZip,
		Selectors: append(nameSelectors("zip", "zipCode", "zip_code", "zipcode", "postal", "postalCode", "postal_code"), `[autocomplete="postal-code"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileCountry,
		Selectors: append(nameSelectors("country", "countryCode", "country_code"), `[autocomplete="country-name"]`, `[autocomplete="country"]`),
		Kinds:     anyKinds,
	},
	{
		Key:       types.ProfileLinkedIn,
		Selectors: append(nameSelectors("linkedin", "linkedIn", "linkedin_url", "linkedinUrl", "urls[LinkedIn]"), `input[placeholder*="linkedin.com"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileGitHub,
		Selectors: append(nameSelectors("github", "gitHub", "github_url", "githubUrl", "urls[GitHub]"), `input[placeholder*="github.com"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfilePortfolio,
		Selectors: nameSelectors("portfolio", "portfolio_url", "portfolioUrl", "urls[Portfolio]"),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileWebsite,
		Selectors: append(nameSelectors("website", "personal_website", "websiteUrl", "url", "urls[Other]"), `input[type="url"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileCurrentCompany,
		Selectors: append(nameSelectors("company", "currentCompany", "current_company", "employer", "org"), `[autocomplete="organization"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileCurrentTitle,
		Selectors: append(nameSelectors("title", "currentTitle", "current_title", "jobTitle", "job_title"), `[autocomplete="organization-title"]`),
		Kinds:     textKinds,
	},
	{
		Key:       types.ProfileYearsExperience,
		Selectors: nameSelectors("experience", "yearsExperience", "years_experience", "yearsOfExperience", "years_of_experience"),
		Kinds:     anyKinds,
	},
	{
		Key:       types.ProfileSalaryExpectation,
		Selectors: nameSelectors("salary", "salaryExpectation", "salary_expectation", "desiredSalary", "desired_salary", "expectedSalary"),
		Kinds:     anyKinds,
	},
	{
		Key:       types.ProfileWorkAuthorization,
		Selectors: nameSelectors("workAuthorization", "work_authorization", "authorized", "legallyAuthorized", "authorizedToWork"),
		Kinds:     choiceKinds,
	},
	{
		Key:       types.ProfileRequiresSponsorship,
		Selectors: nameSelectors("sponsorship", "requiresSponsorship", "requires_sponsorship", "visaSponsorship", "visa_sponsorship"),
		Kinds:     choiceKinds,
	},
	{
		Key:       types.ProfileWillingToRelocate,
		Selectors: nameSelectors("relocate", "relocation", "willingToRelocate", "willing_to_relocate"),
		Kinds:     choiceKinds,
	},
	{
		Key:       types.ProfileRemotePreference,
		Selectors: nameSelectors("remote", "remotePreference", "remote_preference", "workRemotely"),
		Kinds:     choiceKinds,
	},
	{
		Key:       types.ProfileCoverLetter,
		Selectors: append(nameSelectors("coverLetter", "cover_letter", "coverletter", "cover_letter_text"), `textarea[name*="cover"]`),
		Kinds:     []types.ElementKind{types.ElementTextarea},
	},
}

// Mappings returns a copy of the profile key to selector table.
func Mappings() []Mapping {
	out := make([]Mapping, len(mappings))
	for i, m := range mappings {
		out[i] = Mapping{
			Key:       m.Key,
			Selectors: append([]string(nil), m.Selectors...),
			Kinds:     append([]types.ElementKind(nil), m.Kinds...),
		}
	}
	return out
}

func (m Mapping) accepts(kind types.ElementKind) bool {
	for _, k := range m.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
