// Package i18n holds the message catalogs and the active-locale state used
// while rendering notifications.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

//go:embed locales/*.toml
var catalogs embed.FS

type contextKey string

func (c contextKey) String() string {
	return "verbatim/i18n/" + string(c)
}

const ctxKeyLanguage = contextKey("language")

// ToContext stores the request language, e.g. the profile language picked
// at login, in ctx.
func ToContext(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, code)
}

// FromContext returns the language stored by ToContext, or "".
func FromContext(ctx context.Context) string {
	code, _ := ctx.Value(ctxKeyLanguage).(string)
	return code
}

// Service owns the message bundle and the active locale. The active locale
// is process-wide state; Use scopes a change of it and serializes scopes.
type Service struct {
	bundle   *goi18n.Bundle
	matcher  language.Matcher
	tags     []string
	fallback string
	logger   logger.Interface

	scope sync.Mutex

	mu        sync.RWMutex
	current   string
	localizer *goi18n.Localizer
}

// NewService loads the embedded catalogs for languages. defaultLanguage is
// active initially and is used for codes no catalog matches.
func NewService(defaultLanguage string, languages []string, log logger.Interface) (*Service, error) {
	defaultTag, err := ParseTag(defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLanguage, err)
	}

	bundle := goi18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	codes := append([]string{defaultLanguage}, languages...)
	loaded := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if _, ok := loaded[code]; ok {
			continue
		}
		path := fmt.Sprintf("locales/active.%s.toml", code)
		if _, err := bundle.LoadMessageFileFS(catalogs, path); err != nil {
			return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
		}
		loaded[code] = struct{}{}
	}

	// the first tag is the matcher's fallback
	tags := []language.Tag{defaultTag}
	for _, tag := range bundle.LanguageTags() {
		if tag != defaultTag {
			tags = append(tags, tag)
		}
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.String()
	}

	s := &Service{
		bundle:   bundle,
		matcher:  language.NewMatcher(tags),
		tags:     names,
		fallback: defaultLanguage,
		logger:   log,
	}
	s.Activate(defaultLanguage)
	return s, nil
}

// Current returns the code passed to the last Activate.
func (s *Service) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Activate makes code the active locale. Unknown or empty codes render
// with the default catalog but are still reported by Current, so a later
// restore puts back exactly what was there.
func (s *Service) Activate(code string) {
	localizer := goi18n.NewLocalizer(s.bundle, s.Match(code))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = code
	s.localizer = localizer
}

// Use activates code, runs fn and restores the previously active locale on
// every exit path, panics included. Concurrent scopes run one at a time;
// fn must not call Use itself.
func (s *Service) Use(code string, fn func() error) error {
	s.scope.Lock()
	defer s.scope.Unlock()

	previous := s.Current()
	s.Activate(code)
	defer s.Activate(previous)

	return fn()
}

// Match returns the catalog language best matching code.
func (s *Service) Match(code string) string {
	if strings.TrimSpace(code) == "" {
		return s.fallback
	}
	tag, err := ParseTag(code)
	if err != nil {
		return s.fallback
	}
	_, index, confidence := s.matcher.Match(tag)
	if confidence == language.No || index >= len(s.tags) {
		return s.fallback
	}
	return s.tags[index]
}

// Supported lists the loaded catalog languages, default first.
func (s *Service) Supported() []string {
	return append([]string(nil), s.tags...)
}

// Translate renders messageID in the active locale. data is passed to the
// message template. Missing messages fall back to the default catalog and
// finally to the message ID itself.
func (s *Service) Translate(messageID string, data map[string]any) string {
	s.mu.RLock()
	localizer := s.localizer
	s.mu.RUnlock()

	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err == nil {
		return msg
	}

	fallback := goi18n.NewLocalizer(s.bundle, s.fallback)
	if msg, ferr := fallback.Localize(&goi18n.LocalizeConfig{MessageID: messageID, TemplateData: data}); ferr == nil {
		s.logger.Debugw("message missing in active locale", "message_id", messageID, "locale", s.Current())
		return msg
	}

	s.logger.Warnw("message not found", "message_id", messageID, "error", err)
	return messageID
}

// ParseTag parses a locale code, accepting "pt_BR" as well as "pt-BR".
func ParseTag(code string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
