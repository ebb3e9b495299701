// Package permission describes permission groups and the subject/object
// naming used in access policies.
package permission

import (
	"fmt"
	"strings"
)

const (
	// ObjectSite is the object of site-wide permissions granted to groups.
	ObjectSite = "site"
	// ActionView is the action checked by project access lists.
	ActionView = "view"
)

// Group is a named set of permission codenames, e.g. "Users" holding
// "save_translation" and "add_comment".
type Group struct {
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	for _, p := range g.Permissions {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("group %s: empty permission codename", g.Name)
		}
	}
	return nil
}

// Policies returns the (subject, object, action) rules granting the group
// its permissions.
func (g Group) Policies() [][]string {
	out := make([][]string, 0, len(g.Permissions))
	for _, codename := range g.Permissions {
		out = append(out, []string{GroupSubject(g.Name), ObjectSite, codename})
	}
	return out
}

func UserSubject(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func GroupSubject(name string) string {
	return "group:" + name
}

func ProjectObject(slug string) string {
	return "project:" + slug
}
