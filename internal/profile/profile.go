package profile

import (
	"strings"

	"github.com/spigell/resume-studio/internal/collection"
)

const (
	DefaultTemplate = "Modern"
	presentEndDate  = "Present"
)

// PersonalInfo holds contact details. FullName and Email are required before
// a document can be generated.
type PersonalInfo struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// Skills are four independent ordered lists. Duplicates are kept.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
	Tools     []string `json:"tools"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	Degree          string `json:"degree"`
	Institution     string `json:"institution"`
	Location        string `json:"location"`
	GraduationDate  string `json:"graduation_date"`
	GPA             string `json:"gpa"`
	RelevantCourses string `json:"relevant_courses"`
}

type Project struct {
	Name         string `json:"name"`
	Technologies string `json:"technologies"`
	Description  string `json:"description"`
	GitHubURL    string `json:"github_url"`
	LiveURL      string `json:"live_url"`
	Duration     string `json:"duration"`
}

type Activity struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Duration     string `json:"duration"`
	Description  string `json:"description"`
}

// Profile is the aggregated career data a user builds across interactions.
type Profile struct {
	PersonalInfo PersonalInfo
	Summary      string
	Skills       Skills

	Experiences *collection.Collection[Experience]
	Education   *collection.Collection[Education]
	Projects    *collection.Collection[Project]
	Activities  *collection.Collection[Activity]
}

// New returns a profile with every field at its default.
func New() *Profile {
	return &Profile{
		Skills: Skills{
			Technical: []string{},
			Soft:      []string{},
			Languages: []string{},
			Tools:     []string{},
		},
		Experiences: collection.New(func() Experience { return Experience{} }),
		Education:   collection.New(func() Education { return Education{} }),
		Projects:    collection.New(func() Project { return Project{} }),
		Activities:  collection.New(func() Activity { return Activity{} }),
	}
}

// ParseLines splits one-per-line input into trimmed, non-empty entries.
func ParseLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Normalize applies the experience rule that current positions end "Present".
func (e Experience) Normalize() Experience {
	if e.Current {
		e.EndDate = presentEndDate
	}
	return e
}

// Snapshot is a plain copy of a profile handed to document generation.
type Snapshot struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Summary      string       `json:"summary"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Projects     []Project    `json:"projects"`
	Activities   []Activity   `json:"activities"`
	Skills       Skills       `json:"skills"`
	Template     string       `json:"template"`
}

// Snapshot copies the profile in its current order.
func (p *Profile) Snapshot() Snapshot {
	experiences := p.Experiences.Values()
	for i := range experiences {
		experiences[i] = experiences[i].Normalize()
	}

	return Snapshot{
		PersonalInfo: p.PersonalInfo,
		Summary:      p.Summary,
		Experience:   experiences,
		Education:    p.Education.Values(),
		Projects:     p.Projects.Values(),
		Activities:   p.Activities.Values(),
		Skills: Skills{
			Technical: append([]string{}, p.Skills.Technical...),
			Soft:      append([]string{}, p.Skills.Soft...),
			Languages: append([]string{}, p.Skills.Languages...),
			Tools:     append([]string{}, p.Skills.Tools...),
		},
		Template: DefaultTemplate,
	}
}

// FromSnapshot rebuilds a mutable profile from a snapshot, e.g. one loaded
// from disk.
func FromSnapshot(s Snapshot) *Profile {
	p := New()
	p.PersonalInfo = s.PersonalInfo
	p.Summary = s.Summary
	if s.Skills.Technical != nil {
		p.Skills.Technical = append([]string{}, s.Skills.Technical...)
	}
	if s.Skills.Soft != nil {
		p.Skills.Soft = append([]string{}, s.Skills.Soft...)
	}
	if s.Skills.Languages != nil {
		p.Skills.Languages = append([]string{}, s.Skills.Languages...)
	}
	if s.Skills.Tools != nil {
		p.Skills.Tools = append([]string{}, s.Skills.Tools...)
	}
	for _, v := range s.Experience {
		p.Experiences.Append(v)
	}
	for _, v := range s.Education {
		p.Education.Append(v)
	}
	for _, v := range s.Projects {
		p.Projects.Append(v)
	}
	for _, v := range s.Activities {
		p.Activities.Append(v)
	}
	return p
}
