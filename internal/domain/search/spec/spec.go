// Package spec defines the strategy-agnostic filter specification extracted
// from a natural-language query.
package spec

import "strings"

// FilterSpec describes structured search criteria. Every field is optional;
// an empty spec means "match all". String fields are case-insensitive
// substring matches.
type FilterSpec struct {
	Keyword       string   `json:"keyword,omitempty"`
	Name          string   `json:"name,omitempty"`
	Email         string   `json:"email,omitempty"`
	JobTitle      string   `json:"job_title,omitempty"`
	Company       string   `json:"company,omitempty"`
	Location      string   `json:"location,omitempty"`
	BusinessNeeds string   `json:"business_needs,omitempty"`
	AgeMin        *int     `json:"age_min,omitempty"`
	AgeMax        *int     `json:"age_max,omitempty"`
	HasPets       *bool    `json:"has_pets,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	Skills        []string `json:"skills,omitempty"`
}

// Parsed is the full interpreter output: a spec plus its explanation.
type Parsed struct {
	Filters     FilterSpec `json:"filters"`
	Explanation string     `json:"explanation"`
}

// Keyword builds the deterministic fallback spec for a raw query.
func Keyword(query string) Parsed {
	return Parsed{
		Filters:     FilterSpec{Keyword: strings.TrimSpace(query)},
		Explanation: "simple keyword search for: " + strings.TrimSpace(query),
	}
}

// IsEmpty reports whether no criterion is set. An empty spec matches all rows,
// never none.
func (f *FilterSpec) IsEmpty() bool {
	return f.Keyword == "" &&
		f.Name == "" &&
		f.Email == "" &&
		f.JobTitle == "" &&
		f.Company == "" &&
		f.Location == "" &&
		f.BusinessNeeds == "" &&
		f.AgeMin == nil &&
		f.AgeMax == nil &&
		f.HasPets == nil &&
		len(f.Interests) == 0 &&
		len(f.Skills) == 0
}
