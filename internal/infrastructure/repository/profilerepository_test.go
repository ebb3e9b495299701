package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/persistence/models"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

const projectX uint = 10

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every pooled connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	ctx      context.Context
	users    *UserRepository
	profiles *ProfileRepository
}

// reportChangedRowsOnly makes updates report zero affected rows, the way
// MySQL does for a matched row whose values did not change.
func reportChangedRowsOnly(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:changed_rows_only", func(tx *gorm.DB) {
		tx.RowsAffected = 0
	}))
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithDB(setupTestDB(t))
}

func newFixtureWithDB(db *gorm.DB) *fixture {
	log := logger.NewDiscard()
	return &fixture{
		ctx:      context.Background(),
		users:    NewUserRepository(db, log),
		profiles: NewProfileRepository(db, log),
	}
}

type profileSetup struct {
	languages []string
	projects  []uint
	flags     profile.Flags
}

func (f *fixture) createProfile(t *testing.T, name string, setup profileSetup) *profile.Profile {
	t.Helper()
	u, err := user.NewUser(name, name+"@example.org")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(f.ctx, u))

	p, created, err := f.profiles.GetOrCreate(f.ctx, u, "en")
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, p.SetLanguages(setup.languages))
	require.NoError(t, p.SetSubscriptions(setup.projects))
	p.SetFlags(setup.flags)
	require.NoError(t, f.profiles.Update(f.ctx, p))
	return p
}

func usernames(profiles []*profile.Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.User().Username())
	}
	return out
}

func TestProfileRepository_GetOrCreate(t *testing.T) {
	f := newFixture(t)

	u, err := user.NewUser("jdoe", "jdoe@example.org")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(f.ctx, u))

	t.Run("first call creates", func(t *testing.T) {
		p, created, err := f.profiles.GetOrCreate(f.ctx, u, "de")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "de", p.Language())
		assert.Equal(t, u.ID(), p.UserID())
		assert.Equal(t, "jdoe@example.org", p.Email())
	})

	t.Run("second call returns the existing profile", func(t *testing.T) {
		p, created, err := f.profiles.GetOrCreate(f.ctx, u, "fr")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "de", p.Language(), "existing language is kept")
	})

	t.Run("anonymous user has no profile", func(t *testing.T) {
		_, _, err := f.profiles.GetOrCreate(f.ctx, user.Anonymous(), "en")
		assert.ErrorIs(t, err, profile.ErrUserRequired)
	})
}

func TestProfileRepository_GetOrCreateConcurrent(t *testing.T) {
	f := newFixture(t)

	u, err := user.NewUser("racer", "racer@example.org")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(f.ctx, u))

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[uint]struct{}{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, c, err := f.profiles.GetOrCreate(f.ctx, u, "en")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[p.ID()] = struct{}{}
			if c {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
}

func TestProfileRepository_Update(t *testing.T) {
	f := newFixture(t)
	p := f.createProfile(t, "jdoe", profileSetup{
		languages: []string{"cs", "de"},
		projects:  []uint{projectX, 11},
		flags:     profile.Flags{NewString: true, MergeFailure: true},
	})

	got, err := f.profiles.GetByUserID(f.ctx, p.UserID())
	require.NoError(t, err)
	assert.Equal(t, []string{"cs", "de"}, got.Languages())
	assert.Equal(t, []uint{projectX, 11}, got.Subscriptions())
	assert.Equal(t, profile.Flags{NewString: true, MergeFailure: true}, got.Flags())

	require.NoError(t, got.SetLanguages([]string{"fr"}))
	require.NoError(t, got.SetSecondaryLanguages([]string{"de"}))
	require.NoError(t, got.SetSubscriptions(nil))
	require.NoError(t, f.profiles.Update(f.ctx, got))

	again, err := f.profiles.GetByUserID(f.ctx, p.UserID())
	require.NoError(t, err)
	assert.Equal(t, []string{"fr"}, again.Languages())
	assert.Equal(t, []string{"de"}, again.SecondaryLanguages())
	assert.Empty(t, again.Subscriptions())

	_, err = f.profiles.GetByUserID(f.ctx, 9999)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestProfileRepository_UpdateOnlyJoinRows(t *testing.T) {
	db := setupTestDB(t)
	f := newFixtureWithDB(db)
	p := f.createProfile(t, "jdoe", profileSetup{
		languages: []string{"cs"},
		projects:  []uint{projectX},
		flags:     profile.Flags{NewString: true},
	})
	reportChangedRowsOnly(t, db)

	got, err := f.profiles.GetByUserID(f.ctx, p.UserID())
	require.NoError(t, err)
	require.NoError(t, got.SetSubscriptions([]uint{projectX, 11}))
	require.NoError(t, got.SetLanguages([]string{"cs", "de"}))
	require.NoError(t, f.profiles.Update(f.ctx, got), "unchanged profile columns are not a missing profile")

	again, err := f.profiles.GetByUserID(f.ctx, p.UserID())
	require.NoError(t, err)
	assert.Equal(t, []uint{projectX, 11}, again.Subscriptions())
	assert.Equal(t, []string{"cs", "de"}, again.Languages())
	assert.Equal(t, profile.Flags{NewString: true}, again.Flags())
}

func TestProfileRepository_UpdateMissingProfile(t *testing.T) {
	f := newFixture(t)
	p := f.createProfile(t, "jdoe", profileSetup{projects: []uint{projectX}})

	stale, err := profile.ReconstructProfile(p.ID()+100, p.User(), "en", nil, nil, []uint{11}, profile.Flags{}, 0, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, f.profiles.Update(f.ctx, stale), profile.ErrProfileNotFound)
}

func TestUserRepository_UpdateNameUnchanged(t *testing.T) {
	db := setupTestDB(t)
	f := newFixtureWithDB(db)

	u, err := user.NewUser("jdoe", "jdoe@example.org")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(f.ctx, u))
	reportChangedRowsOnly(t, db)

	require.NoError(t, f.users.UpdateName(f.ctx, u), "storing the same name succeeds")

	missing, err := user.ReconstructUser(999, "ghost", "ghost@example.org", "", "", true)
	require.NoError(t, err)
	assert.ErrorContains(t, f.users.UpdateName(f.ctx, missing), "not found")
}

func TestProfileRepository_FlagGatesEveryCategory(t *testing.T) {
	f := newFixture(t)
	all := profile.Flags{}
	for _, c := range profile.AllCategories() {
		all = all.With(c, true)
	}

	f.createProfile(t, "everything", profileSetup{languages: []string{"de"}, projects: []uint{projectX}, flags: all})
	f.createProfile(t, "nothing", profileSetup{languages: []string{"de"}, projects: []uint{projectX}})

	queries := map[profile.Category]func() ([]*profile.Profile, error){
		profile.CategoryAnyTranslation: func() ([]*profile.Profile, error) {
			return f.profiles.SubscribedAnyTranslation(f.ctx, projectX, "de", nil)
		},
		profile.CategoryNewString: func() ([]*profile.Profile, error) {
			return f.profiles.SubscribedNewString(f.ctx, projectX, "de")
		},
		profile.CategoryNewSuggestion: func() ([]*profile.Profile, error) {
			return f.profiles.SubscribedNewSuggestion(f.ctx, projectX, "de", nil)
		},
		profile.CategoryNewContributor: func() ([]*profile.Profile, error) {
			return f.profiles.SubscribedNewContributor(f.ctx, projectX, "de", nil)
		},
		profile.CategoryNewComment: func() ([]*profile.Profile, error) {
			return f.profiles.SubscribedNewComment(f.ctx, projectX, "de", nil)
		},
		profile.CategoryMergeFailure: func() ([]*profile.Profile, error) {
			return f.profiles.SubscribedMergeFailure(f.ctx, projectX)
		},
	}

	for category, query := range queries {
		t.Run(string(category), func(t *testing.T) {
			got, err := query()
			require.NoError(t, err)
			assert.Equal(t, []string{"everything"}, usernames(got))
		})
	}
}

func TestProfileRepository_ProjectAndLanguageFilters(t *testing.T) {
	f := newFixture(t)
	flags := profile.Flags{NewString: true, MergeFailure: true}

	f.createProfile(t, "match", profileSetup{languages: []string{"de"}, projects: []uint{projectX}, flags: flags})
	f.createProfile(t, "otherlang", profileSetup{languages: []string{"fr"}, projects: []uint{projectX}, flags: flags})
	f.createProfile(t, "otherproject", profileSetup{languages: []string{"de"}, projects: []uint{99}, flags: flags})

	got, err := f.profiles.SubscribedNewString(f.ctx, projectX, "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"match"}, usernames(got))

	got, err = f.profiles.SubscribedMergeFailure(f.ctx, projectX)
	require.NoError(t, err)
	assert.Equal(t, []string{"match", "otherlang"}, usernames(got), "merge failures ignore language")
}

func TestProfileRepository_TriggerExclusion(t *testing.T) {
	f := newFixture(t)
	flags := profile.Flags{AnyTranslation: true, NewSuggestion: true, NewContributor: true, NewComment: true}

	actor := f.createProfile(t, "actor", profileSetup{languages: []string{"de"}, projects: []uint{projectX}, flags: flags})
	f.createProfile(t, "watcher", profileSetup{languages: []string{"de"}, projects: []uint{projectX}, flags: flags})

	tests := []struct {
		name    string
		query   func(trigger *user.User) ([]*profile.Profile, error)
		trigger *user.User
		want    []string
	}{
		{
			name: "any translation excludes actor",
			query: func(u *user.User) ([]*profile.Profile, error) {
				return f.profiles.SubscribedAnyTranslation(f.ctx, projectX, "de", u)
			},
			trigger: actor.User(),
			want:    []string{"watcher"},
		},
		{
			name: "new contributor excludes actor",
			query: func(u *user.User) ([]*profile.Profile, error) {
				return f.profiles.SubscribedNewContributor(f.ctx, projectX, "de", u)
			},
			trigger: actor.User(),
			want:    []string{"watcher"},
		},
		{
			name: "new comment excludes actor",
			query: func(u *user.User) ([]*profile.Profile, error) {
				return f.profiles.SubscribedNewComment(f.ctx, projectX, "de", u)
			},
			trigger: actor.User(),
			want:    []string{"watcher"},
		},
		{
			name: "new suggestion excludes authenticated actor",
			query: func(u *user.User) ([]*profile.Profile, error) {
				return f.profiles.SubscribedNewSuggestion(f.ctx, projectX, "de", u)
			},
			trigger: actor.User(),
			want:    []string{"watcher"},
		},
		{
			name: "anonymous suggestion reaches everyone",
			query: func(u *user.User) ([]*profile.Profile, error) {
				return f.profiles.SubscribedNewSuggestion(f.ctx, projectX, "de", u)
			},
			trigger: user.Anonymous(),
			want:    []string{"actor", "watcher"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query(tt.trigger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, usernames(got))
		})
	}
}

func TestProfileRepository_CommentLanguage(t *testing.T) {
	f := newFixture(t)
	flags := profile.Flags{NewComment: true}

	f.createProfile(t, "german", profileSetup{languages: []string{"de"}, projects: []uint{projectX}, flags: flags})
	f.createProfile(t, "french", profileSetup{languages: []string{"fr"}, projects: []uint{projectX}, flags: flags})
	f.createProfile(t, "none", profileSetup{projects: []uint{projectX}, flags: flags})

	t.Run("source comment reaches all subscribers", func(t *testing.T) {
		got, err := f.profiles.SubscribedNewComment(f.ctx, projectX, "", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"german", "french", "none"}, usernames(got))
	})

	t.Run("translation comment reaches language trackers", func(t *testing.T) {
		got, err := f.profiles.SubscribedNewComment(f.ctx, projectX, "fr", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"french"}, usernames(got))
	})
}

func TestUserRepository(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		u, err := user.NewUser(fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.org", i))
		require.NoError(t, err)
		require.NoError(t, f.users.Create(f.ctx, u))
	}

	ids, err := f.users.ListIDs(f.ctx)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	u, err := f.users.GetByID(f.ctx, ids[0])
	require.NoError(t, err)
	require.NoError(t, u.SetName("Jane", "Doe"))
	require.NoError(t, f.users.UpdateName(f.ctx, u))

	got, err := f.users.GetByID(f.ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.DisplayName())

	missing, err := f.users.GetByID(f.ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
