// Package translation holds the read-side view of the translation domain that
// notifications are about: projects, their subprojects, translations, units
// and the suggestions and comments attached to them. The objects are owned
// by the translation service and reach this module on the event bus.
package translation

import (
	"fmt"
	"net/url"
)

// Subject is anything a notification can be about. It knows its own page,
// a human readable identity for logs, and the project whose access list
// decides who may see it.
type Subject interface {
	String() string
	AbsoluteURL() string
	ACLProject() *Project
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (l *Language) String() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Code
}

type Project struct {
	ID        uint   `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	EnableACL bool   `json:"enable_acl"`
}

func (p *Project) String() string {
	return p.Name
}

func (p *Project) AbsoluteURL() string {
	return fmt.Sprintf("/projects/%s/", url.PathEscape(p.Slug))
}

func (p *Project) ACLProject() *Project {
	return p
}

// SubProject is a translatable component of a project, usually one
// repository or resource file set.
type SubProject struct {
	ID      uint     `json:"id"`
	Slug    string   `json:"slug"`
	Name    string   `json:"name"`
	Project *Project `json:"project"`
}

func (s *SubProject) String() string {
	if s.Project == nil {
		return s.Name
	}
	return fmt.Sprintf("%s/%s", s.Project.Name, s.Name)
}

func (s *SubProject) AbsoluteURL() string {
	if s.Project == nil {
		return ""
	}
	return fmt.Sprintf("%s%s/", s.Project.AbsoluteURL(), url.PathEscape(s.Slug))
}

// ACLProject returns the parent project; subprojects carry no access list
// of their own.
func (s *SubProject) ACLProject() *Project {
	return s.Project
}

type Translation struct {
	ID         uint        `json:"id"`
	SubProject *SubProject `json:"subproject"`
	Language   *Language   `json:"language"`
}

func (t *Translation) String() string {
	if t.SubProject == nil || t.Language == nil {
		return fmt.Sprintf("translation %d", t.ID)
	}
	return fmt.Sprintf("%s - %s", t.SubProject, t.Language)
}

func (t *Translation) AbsoluteURL() string {
	if t.SubProject == nil || t.Language == nil {
		return ""
	}
	return fmt.Sprintf("%s%s/", t.SubProject.AbsoluteURL(), url.PathEscape(t.Language.Code))
}

func (t *Translation) ACLProject() *Project {
	if t.SubProject == nil {
		return nil
	}
	return t.SubProject.ACLProject()
}

// Project returns the owning project, nil when the translation is detached.
func (t *Translation) Project() *Project {
	return t.ACLProject()
}

// Unit is a single translatable string inside a translation.
type Unit struct {
	ID          uint         `json:"id"`
	Checksum    string       `json:"checksum"`
	Context     string       `json:"context,omitempty"`
	Source      string       `json:"source"`
	Target      string       `json:"target"`
	Translated  bool         `json:"translated"`
	Translation *Translation `json:"translation"`
}

func (u *Unit) String() string {
	return u.Source
}

func (u *Unit) AbsoluteURL() string {
	if u.Translation == nil {
		return ""
	}
	return fmt.Sprintf("%stranslate/?checksum=%s", u.Translation.AbsoluteURL(), url.QueryEscape(u.Checksum))
}

type Suggestion struct {
	ID     uint   `json:"id"`
	Target string `json:"target"`
	Author string `json:"author"`
}

// Comment is attached to a unit. Comments on the source string have no
// language and concern every translation of it.
type Comment struct {
	ID       uint      `json:"id"`
	Text     string    `json:"comment"`
	Author   string    `json:"author"`
	Language *Language `json:"language,omitempty"`
}

// IsSourceComment reports whether the comment targets the source string.
func (c *Comment) IsSourceComment() bool {
	return c.Language == nil
}
