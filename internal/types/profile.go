package types

import (
	"strings"
)

// Profile keys understood by the form-fill matcher.
const (
	ProfileFirstName           = "first_name"
	ProfileLastName            = "last_name"
	ProfileFullName            = "full_name"
	ProfileEmail               = "email"
	ProfilePhone               = "phone"
	ProfileAddress             = "address"
	ProfileCity                = "city"
	ProfileState               = "state"
	ProfileZip                 = "zip"
	ProfileCountry             = "country"
	ProfileLinkedIn            = "linkedin"
	ProfileGitHub              = "github"
	ProfilePortfolio           = "portfolio"
	ProfileWebsite             = "website"
	ProfileCurrentCompany      = "current_company"
	ProfileCurrentTitle        = "current_title"
	ProfileYearsExperience     = "years_experience"
	ProfileSalaryExpectation   = "salary_expectation"
	ProfileWorkAuthorization   = "work_authorization"
	ProfileRequiresSponsorship = "requires_sponsorship"
	ProfileWillingToRelocate   = "willing_to_relocate"
	ProfileRemotePreference    = "remote_preference"
	ProfileCoverLetter         = "cover_letter"
)

// ApplicationProfile is the flat record used to fill application forms.
// Every field is optional.
type ApplicationProfile struct {
	FirstName           string `json:"first_name,omitempty"`
	LastName            string `json:"last_name,omitempty"`
	FullName            string `json:"full_name,omitempty"`
	Email               string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               string `json:"phone,omitempty"`
	Address             string `json:"address,omitempty"`
	City                string `json:"city,omitempty"`
	State               string `json:"state,omitempty"`
	Zip                 string `json:"zip,omitempty"`
	Country             string `json:"country,omitempty"`
	LinkedIn            string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub              string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio           string `json:"portfolio,omitempty" validate:"omitempty,url"`
	Website             string `json:"website,omitempty" validate:"omitempty,url"`
	CurrentCompany      string `json:"current_company,omitempty"`
	CurrentTitle        string `json:"current_title,omitempty"`
	YearsExperience     string `json:"years_experience,omitempty"`
	SalaryExpectation   string `json:"salary_expectation,omitempty"`
	WorkAuthorization   *bool  `json:"work_authorization,omitempty"`
	RequiresSponsorship *bool  `json:"requires_sponsorship,omitempty"`
	WillingToRelocate   *bool  `json:"willing_to_relocate,omitempty"`
	RemotePreference    *bool  `json:"remote_preference,omitempty"`
	CoverLetter         string `json:"cover_letter,omitempty"`
}

// Validate validates the ApplicationProfile using the validator. Placeholder
// values such as "undefined" are tolerated here and dropped by Values.
func (p *ApplicationProfile) Validate() error {
	clean := *p
	for _, field := range []*string{&clean.Email, &clean.LinkedIn, &clean.GitHub, &clean.Portfolio, &clean.Website} {
		if !HasValue(*field) {
			*field = ""
		}
	}
	return validate.Struct(&clean)
}

// HasValue reports whether s is a usable profile value. Blank strings and
// the literal placeholders "undefined" and "null" count as no value.
func HasValue(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	switch strings.ToLower(trimmed) {
	case "undefined", "null":
		return false
	}
	return true
}

// Values flattens the profile into profile key -> display value, omitting
// every key that has no usable value. Booleans become "Yes" or "No".
func (p *ApplicationProfile) Values() map[string]string {
	out := make(map[string]string)
	put := func(key, value string) {
		if HasValue(value) {
			out[key] = strings.TrimSpace(value)
		}
	}
	putBool := func(key string, value *bool) {
		if value == nil {
			return
		}
		if *value {
			out[key] = "Yes"
		} else {
			out[key] = "No"
		}
	}

	put(ProfileFirstName, p.FirstName)
	put(ProfileLastName, p.LastName)
	fullName := p.FullName
	if !HasValue(fullName) && HasValue(p.FirstName) && HasValue(p.LastName) {
		fullName = strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)
	}
	put(ProfileFullName, fullName)
	put(ProfileEmail, p.Email)
	put(ProfilePhone, p.Phone)
	put(ProfileAddress, p.Address)
	put(ProfileCity, p.City)
	put(ProfileState, p.State)
	put(ProfileZip, p.Zip)
	put(ProfileCountry, p.Country)
	put(ProfileLinkedIn, p.LinkedIn)
	put(ProfileGitHub, p.GitHub)
	put(ProfilePortfolio, p.Portfolio)
	put(ProfileWebsite, p.Website)
	put(ProfileCurrentCompany, p.CurrentCompany)
	put(ProfileCurrentTitle, p.CurrentTitle)
	put(ProfileYearsExperience, p.YearsExperience)
	put(ProfileSalaryExpectation, p.SalaryExpectation)
	putBool(ProfileWorkAuthorization, p.WorkAuthorization)
	putBool(ProfileRequiresSponsorship, p.RequiresSponsorship)
	putBool(ProfileWillingToRelocate, p.WillingToRelocate)
	putBool(ProfileRemotePreference, p.RemotePreference)
	put(ProfileCoverLetter, p.CoverLetter)
	return out
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
