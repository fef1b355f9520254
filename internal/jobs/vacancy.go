package jobs

import (
	"fmt"
	"strings"
)

type Vacancies struct {
	Items []*Vacancy
	// Found is the total number of matches reported by the API.
	Found int
}

type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type Vacancy struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Area         Named   `json:"area,omitempty"`
	Salary       *Salary `json:"salary,omitempty"`
	Experience   Named   `json:"experience,omitempty"`
	Schedule     Named   `json:"schedule,omitempty"`
	Employer     Named   `json:"employer,omitempty"`
	AlternateURL string  `json:"alternate_url,omitempty"`
	Snippet      Snippet `json:"snippet,omitempty"`
	PublishedAt  string  `json:"published_at,omitempty"`
}

func (v *Vacancies) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

// String renders the salary range, e.g. "from 1000 to 2000 USD".
func (s *Salary) String() string {
	if s == nil || (s.From == 0 && s.To == 0) {
		return "not specified"
	}

	var parts []string
	if s.From > 0 {
		parts = append(parts, fmt.Sprintf("from %d", s.From))
	}
	if s.To > 0 {
		parts = append(parts, fmt.Sprintf("to %d", s.To))
	}
	if s.Currency != "" {
		parts = append(parts, s.Currency)
	}
	return strings.Join(parts, " ")
}

var highlight = strings.NewReplacer("<highlighttext>", "", "</highlighttext>", "")

// Requirement is the requirement snippet without search highlighting.
func (v *Vacancy) Requirement() string {
	return strings.TrimSpace(highlight.Replace(v.Snippet.Requirement))
}

// ReportByEmployer groups vacancy summaries under "Employer (id)" keys.
func (v *Vacancies) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, vacancy := range v.Items {
		key := fmt.Sprintf("%s (%s)", vacancy.Employer.Name, vacancy.Employer.ID)
		report[key] = append(report[key], map[string]string{
			"name":        vacancy.Name,
			"url":         vacancy.AlternateURL,
			"area":        vacancy.Area.Name,
			"salary":      vacancy.Salary.String(),
			"requirement": vacancy.Requirement(),
		})
	}
	return report
}
