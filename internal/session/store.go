// Package session holds the state a single user session accumulates: the
// profile under construction, navigation, role selection, the last analysis
// result and aggregate stats. A Store is owned by exactly one session and is
// passed explicitly to the components that need it.
package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/profile"
	"github.com/spigell/resume-studio/internal/score"
)

// RoleSelection is the job role the next analysis targets.
type RoleSelection struct {
	Category string
	Role     string
}

// Stats aggregates the analyses completed in this session.
type Stats struct {
	ScoreDistribution map[score.Tier]int
	TotalAnalyses     int
	AverageScore      float64
}

// Store is the session-scoped state container.
type Store struct {
	id         string
	page       Page
	admin      bool
	adminEmail string
	role       *RoleSelection
	profile    *profile.Profile
	upload     *analysis.Artifact
	stats      Stats
	result     *analysis.Result
	failure    string
}

var _ analysis.Store = (*Store)(nil)

// New creates a store with every field at its default.
func New() *Store {
	return &Store{
		id:      uuid.NewString(),
		page:    PageHome,
		profile: profile.New(),
		stats:   Stats{ScoreDistribution: map[score.Tier]int{}},
	}
}

func (s *Store) ID() string { return s.id }

func (s *Store) Page() Page { return s.page }

// Navigate switches the current page. Unknown values land on home.
func (s *Store) Navigate(raw string) Page {
	s.page = ParsePage(raw)
	return s.page
}

func (s *Store) Profile() *profile.Profile { return s.profile }

// SetProfile replaces the profile under construction. A nil profile resets
// it to an empty one.
func (s *Store) SetProfile(p *profile.Profile) {
	if p == nil {
		p = profile.New()
	}
	s.profile = p
}

// SetAdmin marks the session as authenticated for admin features.
func (s *Store) SetAdmin(email string) {
	s.admin = true
	s.adminEmail = strings.TrimSpace(email)
}

func (s *Store) ClearAdmin() {
	s.admin = false
	s.adminEmail = ""
}

// Admin reports the admin flag and identity.
func (s *Store) Admin() (bool, string) { return s.admin, s.adminEmail }

func (s *Store) SelectRole(category, role string) {
	role = strings.TrimSpace(role)
	if role == "" {
		s.role = nil
		return
	}
	s.role = &RoleSelection{Category: strings.TrimSpace(category), Role: role}
}

// SelectedRole returns the current role selection, if any.
func (s *Store) SelectedRole() (RoleSelection, bool) {
	if s.role == nil {
		return RoleSelection{}, false
	}
	return *s.role, true
}

// SetUpload replaces the pending uploaded artifact.
func (s *Store) SetUpload(artifact *analysis.Artifact) { s.upload = artifact }

// TakeUpload hands the pending artifact to a pipeline run. The store does
// not retain it afterwards.
func (s *Store) TakeUpload() *analysis.Artifact {
	artifact := s.upload
	s.upload = nil
	return artifact
}

func (s *Store) HasUpload() bool { return s.upload != nil }

// SetResult stores a successful result and clears any failure notice.
func (s *Store) SetResult(result *analysis.Result) {
	s.result = result
	s.failure = ""
}

// SetFailure records a failure notice. The previous result stays visible.
func (s *Store) SetFailure(message string) { s.failure = message }

func (s *Store) Result() *analysis.Result { return s.result }

func (s *Store) Failure() string { return s.failure }

// RecordScore folds a completed analysis into the session stats.
func (s *Store) RecordScore(value float64) {
	if s.stats.ScoreDistribution == nil {
		s.stats.ScoreDistribution = map[score.Tier]int{}
	}

	s.stats.ScoreDistribution[score.Classify(value).Tier]++
	s.stats.TotalAnalyses++
	n := float64(s.stats.TotalAnalyses)
	s.stats.AverageScore += (value - s.stats.AverageScore) / n
}

// Stats returns a copy of the aggregate stats.
func (s *Store) Stats() Stats {
	dist := make(map[score.Tier]int, len(s.stats.ScoreDistribution))
	for k, v := range s.stats.ScoreDistribution {
		dist[k] = v
	}
	return Stats{
		ScoreDistribution: dist,
		TotalAnalyses:     s.stats.TotalAnalyses,
		AverageScore:      s.stats.AverageScore,
	}
}
