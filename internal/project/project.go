package project

import "time"

// Candidate is one repository as returned by the GitHub search, before
// scoring. Description and Language stay pointers because the API omits
// them for plenty of repos and "missing" matters downstream.
type Candidate struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	OpenIssues  int       `json:"open_issues"`
	Size        int       `json:"size"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	PushedAt    time.Time `json:"updated_at"`
}

func (c Candidate) DescriptionText() string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}

func (c Candidate) LanguageName() string {
	if c.Language == nil || *c.Language == "" {
		return "Unknown"
	}
	return *c.Language
}

// Scored is a Candidate with its quality score attached, and later the
// narrative analysis from the LLM.
type Scored struct {
	Candidate
	QualityScore float64 `json:"quality_score"`
	Analysis     string  `json:"analysis,omitempty"`
}
