package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/collection"
	"github.com/spigell/resume-studio/internal/profile"
)

const (
	builderPersonalInfo = "Personal info"
	builderSummary      = "Summary"
	builderSkills       = "Skills"
	builderExperience   = "Experience"
	builderEducation    = "Education"
	builderProjects     = "Projects"
	builderActivities   = "Activities"
	builderGenerate     = "Generate resume"
	builderSave         = "Save profile"

	defaultProfilePath = "profile.json"
)

// field binds a prompt label to the string it edits.
type field struct {
	label string
	value *string
}

func (s *studio) builderPage(ctx context.Context) error {
	defer s.back()

	items := []string{
		builderPersonalInfo, builderSummary, builderSkills,
		builderExperience, builderEducation, builderProjects, builderActivities,
		builderGenerate, builderSave, PromptBack,
	}

	for {
		p := s.store.Profile()

		selected, err := s.prompt.Select("Resume builder", items)
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case builderPersonalInfo:
			err = s.editFields(
				field{"Full name", &p.PersonalInfo.FullName},
				field{"Email", &p.PersonalInfo.Email},
				field{"Phone", &p.PersonalInfo.Phone},
				field{"Location", &p.PersonalInfo.Location},
				field{"LinkedIn", &p.PersonalInfo.LinkedIn},
				field{"Portfolio", &p.PersonalInfo.Portfolio},
			)
		case builderSummary:
			err = s.editFields(field{"Professional summary", &p.Summary})
		case builderSkills:
			err = s.editSkills(&p.Skills)
		case builderExperience:
			err = manageCollection(s, "experience", p.Experiences, describeExperience, s.editExperience)
		case builderEducation:
			err = manageCollection(s, "education", p.Education, describeEducation, s.editEducation)
		case builderProjects:
			err = manageCollection(s, "project", p.Projects, describeProject, s.editProject)
		case builderActivities:
			err = manageCollection(s, "activity", p.Activities, describeActivity, s.editActivity)
		case builderGenerate:
			s.generateResume(ctx, p)
		case builderSave:
			err = s.saveProfile(p)
		}
		if err != nil {
			return err
		}
	}
}

// generateResume reports build failures inline so the builder stays open.
func (s *studio) generateResume(ctx context.Context, p *profile.Profile) {
	written, err := buildResume(ctx, s.svc, p, s.outDir)
	if err != nil {
		s.logger.Warn("resume was not generated", zap.Error(err))
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Resume written to %s\n", written)
}

func (s *studio) saveProfile(p *profile.Profile) error {
	if s.profilePath == "" {
		path, err := s.prompt.Input("Save profile to", defaultProfilePath)
		if err != nil {
			return err
		}
		s.profilePath = strings.TrimSpace(path)
	}

	if err := saveProfile(s.profilePath, p); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Profile saved to %s\n", s.profilePath)
	return nil
}

func (s *studio) editFields(fields ...field) error {
	for _, f := range fields {
		value, err := s.prompt.Input(f.label, *f.value)
		if err != nil {
			return err
		}
		*f.value = strings.TrimSpace(value)
	}
	return nil
}

// editSkills edits each skill list as a single semicolon separated line.
func (s *studio) editSkills(skills *profile.Skills) error {
	lists := []struct {
		label string
		value *[]string
	}{
		{"Technical skills", &skills.Technical},
		{"Soft skills", &skills.Soft},
		{"Languages", &skills.Languages},
		{"Tools and technologies", &skills.Tools},
	}

	for _, l := range lists {
		value, err := s.prompt.Input(l.label+" (separated by ;)", strings.Join(*l.value, "; "))
		if err != nil {
			return err
		}
		*l.value = profile.ParseLines(strings.ReplaceAll(value, ";", "\n"))
	}
	return nil
}

// manageCollection lists the entries of c and lets the user add, edit and
// remove them until they go back.
func manageCollection[T any](s *studio, noun string, c *collection.Collection[T], describe func(T) string, edit func(*T) error) error {
	for {
		entries := c.Entries()

		items := make([]string, 0, len(entries)+3)
		ids := make(map[string]string, len(entries))
		for i, entry := range entries {
			label := fmt.Sprintf("%d. %s", i+1, describe(*entry.Value))
			items = append(items, label)
			ids[label] = entry.ID
		}
		items = append(items, PromptAdd)
		if len(entries) > 0 {
			items = append(items, PromptRemove)
		}
		items = append(items, PromptBack)

		selected, err := s.prompt.Select(fmt.Sprintf("Manage %s (%d)", noun, len(entries)), items)
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptAdd:
			entry := c.Add()
			if err := edit(entry.Value); err != nil {
				return err
			}
		case PromptRemove:
			choice, err := s.prompt.Select("Remove which "+noun, items[:len(entries)])
			if err != nil {
				return err
			}
			if err := c.RemoveByID(ids[choice]); err != nil {
				return err
			}
		default:
			entry, ok := c.Get(ids[selected])
			if !ok {
				continue
			}
			if err := edit(entry.Value); err != nil {
				return err
			}
		}
	}
}

func (s *studio) editExperience(e *profile.Experience) error {
	err := s.editFields(
		field{"Job title", &e.Title},
		field{"Company", &e.Company},
		field{"Location", &e.Location},
		field{"Start date", &e.StartDate},
	)
	if err != nil {
		return err
	}

	current, err := s.prompt.Confirm("Currently working here")
	if err != nil {
		return err
	}
	e.Current = current
	if !current {
		if err := s.editFields(field{"End date", &e.EndDate}); err != nil {
			return err
		}
	}

	return s.editFields(field{"Description", &e.Description})
}

func (s *studio) editEducation(e *profile.Education) error {
	return s.editFields(
		field{"Degree", &e.Degree},
		field{"Institution", &e.Institution},
		field{"Location", &e.Location},
		field{"Graduation date", &e.GraduationDate},
		field{"GPA", &e.GPA},
		field{"Relevant courses", &e.RelevantCourses},
	)
}

func (s *studio) editProject(p *profile.Project) error {
	return s.editFields(
		field{"Project name", &p.Name},
		field{"Technologies", &p.Technologies},
		field{"Description", &p.Description},
		field{"GitHub URL", &p.GitHubURL},
		field{"Live URL", &p.LiveURL},
		field{"Duration", &p.Duration},
	)
}

func (s *studio) editActivity(a *profile.Activity) error {
	return s.editFields(
		field{"Title", &a.Title},
		field{"Organization", &a.Organization},
		field{"Role", &a.Role},
		field{"Duration", &a.Duration},
		field{"Description", &a.Description},
	)
}

func describeExperience(e profile.Experience) string {
	return describe(e.Title, e.Company)
}

func describeEducation(e profile.Education) string {
	return describe(e.Degree, e.Institution)
}

func describeProject(p profile.Project) string {
	return describe(p.Name, p.Technologies)
}

func describeActivity(a profile.Activity) string {
	return describe(a.Title, a.Organization)
}

func describe(primary, secondary string) string {
	switch {
	case primary == "" && secondary == "":
		return "(empty)"
	case secondary == "":
		return primary
	case primary == "":
		return secondary
	default:
		return primary + " at " + secondary
	}
}
