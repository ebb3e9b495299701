// Package profile models the per-user preference record: interface
// language, tracked languages, followed projects and notification opt-ins.
package profile

import (
	"fmt"
	"strings"
	"sync"

	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/shared/utils/setutil"
)

// Profile is the aggregate root for user preferences. A user owns exactly
// one profile and the owner never changes once assigned.
type Profile struct {
	id                 uint
	user               *user.User
	language           string
	languages          []string
	secondaryLanguages []string
	subscriptions      []uint
	flags              Flags
	suggested          int
	translated         int
	mu                 sync.RWMutex
}

// NewProfile creates a profile for a persisted user with default
// preferences: no tracked languages, no subscriptions and all
// notifications off.
func NewProfile(u *user.User, language string) (*Profile, error) {
	if !u.IsAuthenticated() {
		return nil, ErrUserRequired
	}
	p := &Profile{user: u}
	if language != "" {
		if err := p.SetLanguage(language); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ReconstructProfile rebuilds a profile from persistence. The stored
// interface language is trusted as is.
func ReconstructProfile(
	id uint,
	u *user.User,
	language string,
	languages []string,
	secondaryLanguages []string,
	subscriptions []uint,
	flags Flags,
	suggested, translated int,
) (*Profile, error) {
	if id == 0 {
		return nil, fmt.Errorf("profile ID cannot be zero")
	}
	if !u.IsAuthenticated() {
		return nil, ErrUserRequired
	}
	return &Profile{
		id:                 id,
		user:               u,
		language:           language,
		languages:          setutil.Dedup(languages),
		secondaryLanguages: setutil.Dedup(secondaryLanguages),
		subscriptions:      setutil.Dedup(subscriptions),
		flags:              flags,
		suggested:          suggested,
		translated:         translated,
	}, nil
}

func (p *Profile) ID() uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id
}

func (p *Profile) SetID(id uint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.id != 0 {
		return fmt.Errorf("profile ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("profile ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Profile) User() *user.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

func (p *Profile) UserID() uint {
	return p.User().ID()
}

// Email is the address notifications for this profile go to.
func (p *Profile) Email() string {
	return p.User().Email()
}

// Language is the interface language; empty means the site default.
func (p *Profile) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.language
}

// SetLanguage changes the interface language. Only supported locales are
// accepted and the code is stored in canonical form.
func (p *Profile) SetLanguage(code string) error {
	canonical, ok := CanonicalLanguage(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.language = canonical
	return nil
}

// Languages returns the sorted codes the user translates into.
func (p *Profile) Languages() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.languages...)
}

func (p *Profile) SetLanguages(codes []string) error {
	clean, err := cleanCodes(codes)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.languages = clean
	return nil
}

// SecondaryLanguages returns the sorted codes the user can read. The set
// may overlap with Languages.
func (p *Profile) SecondaryLanguages() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.secondaryLanguages...)
}

func (p *Profile) SetSecondaryLanguages(codes []string) error {
	clean, err := cleanCodes(codes)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.secondaryLanguages = clean
	return nil
}

// TracksLanguage reports whether code is among the translated languages.
func (p *Profile) TracksLanguage(code string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, l := range p.languages {
		if l == code {
			return true
		}
	}
	return false
}

// Subscriptions returns the sorted IDs of followed projects.
func (p *Profile) Subscriptions() []uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]uint(nil), p.subscriptions...)
}

func (p *Profile) SetSubscriptions(projectIDs []uint) error {
	for _, id := range projectIDs {
		if id == 0 {
			return ErrInvalidProjectID
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscriptions = setutil.Dedup(projectIDs)
	return nil
}

// Subscribe follows a project. Following twice is a no-op.
func (p *Profile) Subscribe(projectID uint) error {
	if projectID == 0 {
		return ErrInvalidProjectID
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscriptions = setutil.Dedup(append(p.subscriptions, projectID))
	return nil
}

func (p *Profile) IsSubscribedTo(projectID uint) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return setutil.New(p.subscriptions...).Has(projectID)
}

func (p *Profile) Flags() Flags {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flags
}

func (p *Profile) SetFlags(flags Flags) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flags = flags
}

// Wants reports whether the profile opted into c.
func (p *Profile) Wants(c Category) bool {
	return p.Flags().Has(c)
}

func (p *Profile) Suggested() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.suggested
}

func (p *Profile) Translated() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.translated
}

// DisplayName is the owner's full name or username.
func (p *Profile) DisplayName() string {
	return p.User().DisplayName()
}

func (p *Profile) String() string {
	return p.User().Username()
}

func cleanCodes(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || len(c) > 20 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLanguageCode, c)
		}
		out = append(out, c)
	}
	return setutil.Dedup(out), nil
}
