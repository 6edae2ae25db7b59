package chi

import (
	"time"

	"github.com/halcyon-cloud/contactdex/internal/domain"
	"github.com/halcyon-cloud/contactdex/internal/usecase/contact"
	"github.com/halcyon-cloud/contactdex/internal/usecase/query"
)

// queryRequest is the POST /query body.
type queryRequest struct {
	Query           string `json:"query"`
	Limit           int    `json:"limit"`
	UseVectorSearch *bool  `json:"use_vector_search"`
}

// queryResponse is the uniform search envelope.
type queryResponse struct {
	Query           string      `json:"query"`
	Results         []matchItem `json:"results"`
	ResultsCount    int         `json:"results_count"`
	ExecutionTimeMs int         `json:"execution_time_ms"`
	SearchMethod    string      `json:"search_method"`
	Explanation     string      `json:"explanation,omitempty"`
}

// matchItem is one search hit with the hydrated contact.
type matchItem struct {
	Contact         contactSummary `json:"contact"`
	SimilarityScore float64        `json:"similarity_score"`
	MatchReason     string         `json:"match_reason"`
}

// contactSummary is the compact contact shape embedded in search results.
type contactSummary struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	JobTitle      string         `json:"job_title,omitempty"`
	Company       string         `json:"company,omitempty"`
	Location      string         `json:"location,omitempty"`
	Age           int            `json:"age,omitempty"`
	HasPets       bool           `json:"has_pets"`
	BusinessNeeds string         `json:"business_needs,omitempty"`
	Interests     []interestItem `json:"interests"`
	Skills        []skillItem    `json:"skills"`
}

type interestItem struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

type skillItem struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
	Years int    `json:"years,omitempty"`
}

// contactPayload is the full contact shape for CRUD requests and responses.
type contactPayload struct {
	ID            int64          `json:"id,omitempty"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name,omitempty"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	JobTitle      string         `json:"job_title,omitempty"`
	Company       string         `json:"company,omitempty"`
	Location      string         `json:"location,omitempty"`
	Age           int            `json:"age,omitempty"`
	HasPets       bool           `json:"has_pets"`
	BusinessNeeds string         `json:"business_needs,omitempty"`
	PersonalNotes string         `json:"personal_notes,omitempty"`
	Interests     []interestItem `json:"interests"`
	Skills        []skillItem    `json:"skills"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// historyItem is one history entry in GET /query/history.
type historyItem struct {
	ID              int64     `json:"id"`
	QueryText       string    `json:"query_text"`
	ResultsCount    int       `json:"results_count"`
	ExecutionTimeMs int       `json:"execution_time_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

// suggestionsResponse is the GET /query/suggestions body.
type suggestionsResponse struct {
	Suggestions   []string         `json:"suggestions"`
	TotalContacts int              `json:"total_contacts"`
	Stats         suggestionsStats `json:"stats"`
}

type suggestionsStats struct {
	TopLocations []valueStatItem `json:"top_locations"`
	TopCompanies []valueStatItem `json:"top_companies"`
	TopJobs      []valueStatItem `json:"top_jobs"`
}

type valueStatItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// semanticSearchRequest is the POST /search/semantic body.
type semanticSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// semanticSearchResponse is the semantic and similar search envelope.
type semanticSearchResponse struct {
	Query        string      `json:"query,omitempty"`
	Results      []matchItem `json:"results"`
	TotalResults int         `json:"total_results"`
}

func contactToSummary(c *domain.Contact) contactSummary {
	return contactSummary{
		ID:            c.ID,
		Name:          c.FullName(),
		Email:         c.Email,
		Phone:         c.Phone,
		JobTitle:      c.JobTitle,
		Company:       c.Company,
		Location:      c.Location,
		Age:           c.Age,
		HasPets:       c.HasPets,
		BusinessNeeds: c.BusinessNeeds,
		Interests:     interestsToItems(c.Interests),
		Skills:        skillsToItems(c.Skills),
	}
}

func contactToPayload(c *domain.Contact) contactPayload {
	created := c.CreatedAt
	updated := c.UpdatedAt
	return contactPayload{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
		JobTitle:      c.JobTitle,
		Company:       c.Company,
		Location:      c.Location,
		Age:           c.Age,
		HasPets:       c.HasPets,
		BusinessNeeds: c.BusinessNeeds,
		PersonalNotes: c.PersonalNotes,
		Interests:     interestsToItems(c.Interests),
		Skills:        skillsToItems(c.Skills),
		CreatedAt:     &created,
		UpdatedAt:     &updated,
	}
}

func contactFromPayload(p *contactPayload) domain.Contact {
	c := domain.Contact{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Phone:         p.Phone,
		JobTitle:      p.JobTitle,
		Company:       p.Company,
		Location:      p.Location,
		Age:           p.Age,
		HasPets:       p.HasPets,
		BusinessNeeds: p.BusinessNeeds,
		PersonalNotes: p.PersonalNotes,
	}
	for _, i := range p.Interests {
		c.Interests = append(c.Interests, domain.Interest{Category: i.Category, Value: i.Value})
	}
	for _, s := range p.Skills {
		c.Skills = append(c.Skills, domain.Skill{Name: s.Name, Level: s.Level, YearsExperience: s.Years})
	}
	return c
}

func interestsToItems(interests []domain.Interest) []interestItem {
	items := make([]interestItem, 0, len(interests))
	for _, i := range interests {
		items = append(items, interestItem{Category: i.Category, Value: i.Value})
	}
	return items
}

func skillsToItems(skills []domain.Skill) []skillItem {
	items := make([]skillItem, 0, len(skills))
	for _, s := range skills {
		items = append(items, skillItem{Name: s.Name, Level: s.Level, Years: s.YearsExperience})
	}
	return items
}

func queryResponseFromResult(resp *query.Response) queryResponse {
	results := make([]matchItem, 0, len(resp.Results))
	for i := range resp.Results {
		m := &resp.Results[i]
		results = append(results, matchItem{
			Contact:         contactToSummary(&m.Contact),
			SimilarityScore: m.Score,
			MatchReason:     m.MatchReason,
		})
	}
	return queryResponse{
		Query:           resp.Query,
		Results:         results,
		ResultsCount:    resp.ResultsCount,
		ExecutionTimeMs: resp.ExecutionTimeMs,
		SearchMethod:    string(resp.SearchMethod),
		Explanation:     resp.Explanation,
	}
}

func valueStatsToItems(stats []contact.ValueStat) []valueStatItem {
	items := make([]valueStatItem, 0, len(stats))
	for _, s := range stats {
		items = append(items, valueStatItem{Value: s.Value, Count: s.Count})
	}
	return items
}
