package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verbatim-inc/verbatim/internal/domain/user"
)

func persistedUser(t *testing.T, id uint) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(id, "jdoe", "jdoe@example.org", "", "", true)
	require.NoError(t, err)
	return u
}

func TestNewProfile(t *testing.T) {
	t.Run("requires persisted user", func(t *testing.T) {
		_, err := NewProfile(user.Anonymous(), "en")
		assert.ErrorIs(t, err, ErrUserRequired)

		_, err = NewProfile(nil, "en")
		assert.ErrorIs(t, err, ErrUserRequired)
	})

	t.Run("defaults", func(t *testing.T) {
		p, err := NewProfile(persistedUser(t, 1), "pt-br")
		require.NoError(t, err)

		assert.Equal(t, "pt_BR", p.Language())
		assert.Empty(t, p.Languages())
		assert.Empty(t, p.Subscriptions())
		for _, c := range AllCategories() {
			assert.False(t, p.Wants(c), c)
		}
	})

	t.Run("rejects unknown interface language", func(t *testing.T) {
		_, err := NewProfile(persistedUser(t, 1), "xx")
		assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	})
}

func TestProfile_LanguageSets(t *testing.T) {
	p, err := NewProfile(persistedUser(t, 1), "")
	require.NoError(t, err)

	require.NoError(t, p.SetLanguages([]string{"de", "cs", "de"}))
	require.NoError(t, p.SetSecondaryLanguages([]string{"cs", "sk"}))

	assert.Equal(t, []string{"cs", "de"}, p.Languages())
	assert.Equal(t, []string{"cs", "sk"}, p.SecondaryLanguages(), "overlap with primary set is allowed")
	assert.True(t, p.TracksLanguage("de"))
	assert.False(t, p.TracksLanguage("sk"))

	assert.ErrorIs(t, p.SetLanguages([]string{" "}), ErrInvalidLanguageCode)
	assert.Equal(t, []string{"cs", "de"}, p.Languages(), "failed update leaves set untouched")
}

func TestProfile_Subscriptions(t *testing.T) {
	p, err := NewProfile(persistedUser(t, 1), "en")
	require.NoError(t, err)

	require.NoError(t, p.Subscribe(3))
	require.NoError(t, p.Subscribe(1))
	require.NoError(t, p.Subscribe(3))

	assert.Equal(t, []uint{1, 3}, p.Subscriptions())
	assert.True(t, p.IsSubscribedTo(3))
	assert.False(t, p.IsSubscribedTo(2))
	assert.ErrorIs(t, p.Subscribe(0), ErrInvalidProjectID)
	assert.ErrorIs(t, p.SetSubscriptions([]uint{1, 0}), ErrInvalidProjectID)
}

func TestFlags(t *testing.T) {
	var f Flags
	for _, c := range AllCategories() {
		on := f.With(c, true)
		assert.True(t, on.Has(c), c)
		for _, other := range AllCategories() {
			if other != c {
				assert.False(t, on.Has(other), "%s leaked into %s", c, other)
			}
		}
	}
	assert.False(t, Flags{NewString: true}.Has(Category("bogus")))
	assert.False(t, Category("bogus").IsValid())
}

func TestReconstructProfile(t *testing.T) {
	u := persistedUser(t, 4)

	p, err := ReconstructProfile(9, u, "de", []string{"fr", "de"}, nil, []uint{2, 2}, Flags{NewComment: true}, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(9), p.ID())
	assert.Equal(t, uint(4), p.UserID())
	assert.Equal(t, "jdoe@example.org", p.Email())
	assert.Equal(t, []string{"de", "fr"}, p.Languages())
	assert.Equal(t, []uint{2}, p.Subscriptions())
	assert.True(t, p.Wants(CategoryNewComment))
	assert.Equal(t, 3, p.Suggested())
	assert.Equal(t, 5, p.Translated())
	assert.Error(t, p.SetID(10))

	_, err = ReconstructProfile(0, u, "de", nil, nil, nil, Flags{}, 0, 0)
	assert.Error(t, err)
}

func TestIsSupportedLanguage(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"en", true},
		{"EN", true},
		{"zh-cn", true},
		{"zh_CN", true},
		{"klingon", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedLanguage(tt.code), tt.code)
	}
}
