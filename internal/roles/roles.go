// Package roles holds the catalog of job categories and target roles offered
// for analysis, with the skills and courses associated with each.
package roles

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown job role")

// Course is a learning resource recommended for a category.
type Course struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Role describes a target role.
type Role struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
}

// Category groups related roles.
type Category struct {
	Name    string   `json:"name"`
	Roles   []Role   `json:"roles"`
	Courses []Course `json:"courses"`
}

// Categories returns the category names in catalog order.
func Categories() []string {
	out := make([]string, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, c.Name)
	}
	return out
}

// Roles returns the role names of a category in catalog order.
func Roles(category string) []string {
	c, ok := findCategory(category)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, r.Name)
	}
	return out
}

// Lookup returns a role of a category. Matching ignores case and surrounding
// whitespace.
func Lookup(category, role string) (Role, error) {
	c, ok := findCategory(category)
	if !ok {
		return Role{}, fmt.Errorf("%w: category %q", ErrUnknownRole, category)
	}
	for _, r := range c.Roles {
		if strings.EqualFold(r.Name, strings.TrimSpace(role)) {
			return copyRole(r), nil
		}
	}
	return Role{}, fmt.Errorf("%w: %q in %s", ErrUnknownRole, role, c.Name)
}

// Find searches every category for a role and returns it with its category
// name.
func Find(role string) (Role, string, error) {
	for _, c := range catalog {
		for _, r := range c.Roles {
			if strings.EqualFold(r.Name, strings.TrimSpace(role)) {
				return copyRole(r), c.Name, nil
			}
		}
	}
	return Role{}, "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// CoursesFor returns the courses recommended for the category that holds role.
func CoursesFor(role string) []Course {
	_, category, err := Find(role)
	if err != nil {
		return nil
	}
	c, _ := findCategory(category)
	return append([]Course(nil), c.Courses...)
}

func findCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range catalog {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

func copyRole(r Role) Role {
	r.RequiredSkills = append([]string(nil), r.RequiredSkills...)
	return r
}
