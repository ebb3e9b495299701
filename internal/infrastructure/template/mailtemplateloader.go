package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

//go:embed mail/*.txt mail/*.html
var defaultTemplates embed.FS

// ErrTemplateNotFound is returned when neither the override directory nor
// the built-in set has the requested template.
var ErrTemplateNotFound = errors.New("template not found")

// MailTemplateLoader resolves mail templates by name, e.g.
// "mail/new_string_subject.txt". A file in the override directory wins over
// the built-in template of the same name.
type MailTemplateLoader struct {
	path   string
	logger logger.Interface
}

// NewMailTemplateLoader creates a loader. An empty path disables overrides.
func NewMailTemplateLoader(path string, logger logger.Interface) *MailTemplateLoader {
	l := &MailTemplateLoader{
		path:   strings.TrimSpace(path),
		logger: logger,
	}

	if l.path != "" {
		if _, err := os.Stat(l.path); os.IsNotExist(err) {
			logger.Warnw("templates directory not found, using built-in templates", "path", l.path)
			l.path = ""
		}
	}

	return l
}

// Get returns the template source for name.
func (l *MailTemplateLoader) Get(name string) (string, error) {
	if l.path != "" {
		content, err := os.ReadFile(filepath.Join(l.path, filepath.FromSlash(name)))
		switch {
		case err == nil:
			l.logger.Debugw("using custom mail template", "template", name)
			return string(content), nil
		case !os.IsNotExist(err):
			l.logger.Warnw("failed to read template file", "template", name, "error", err)
			return "", fmt.Errorf("failed to read template %s: %w", name, err)
		}
	}

	content, err := fs.ReadFile(defaultTemplates, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return string(content), nil
}

// HasTemplate reports whether name resolves to a template.
func (l *MailTemplateLoader) HasTemplate(name string) bool {
	_, err := l.Get(name)
	return err == nil
}
