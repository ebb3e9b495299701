package permission

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/verbatim-inc/verbatim/internal/domain/permission"
)

//go:embed groups.yaml
var defaultGroups []byte

type groupsFile struct {
	Groups []permission.Group `yaml:"groups"`
}

// DefaultGroups returns the built-in Users and Managers groups.
func DefaultGroups() ([]permission.Group, error) {
	return ParseGroups(defaultGroups)
}

// ParseGroups decodes a groups document and validates every entry.
func ParseGroups(data []byte) ([]permission.Group, error) {
	var file groupsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse groups: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Groups))
	for _, g := range file.Groups {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[g.Name]; dup {
			return nil, fmt.Errorf("duplicate group %s", g.Name)
		}
		seen[g.Name] = struct{}{}
	}

	return file.Groups, nil
}
