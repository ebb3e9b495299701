package permission

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verbatim-inc/verbatim/internal/domain/permission"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

func setupEnforcer(t *testing.T) (*Enforcer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e, err := NewEnforcer(db, logger.NewDiscard())
	require.NoError(t, err)
	return e, db
}

func TestEnforcer_GroupInheritance(t *testing.T) {
	e, _ := setupEnforcer(t)
	users := permission.Group{Name: "Users", Permissions: []string{"save_translation"}}

	require.NoError(t, e.AddPolicies(users.Policies()))
	require.NoError(t, e.AddPolicies(users.Policies()), "re-adding existing rules is a no-op")
	require.NoError(t, e.AddRoleForUser(permission.UserSubject(1), permission.GroupSubject("Users")))

	ok, err := e.Enforce(permission.UserSubject(1), permission.ObjectSite, "save_translation")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Enforce(permission.UserSubject(2), permission.ObjectSite, "save_translation")
	require.NoError(t, err)
	assert.False(t, ok)

	roles, err := e.GetRolesForUser(permission.UserSubject(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"group:Users"}, roles)

	exists, err := e.HasSubject(permission.GroupSubject("Users"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = e.HasSubject(permission.GroupSubject("Managers"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEnforcer_PoliciesPersist(t *testing.T) {
	e, db := setupEnforcer(t)
	require.NoError(t, e.AddPolicies([][]string{{"user:1", "project:hello", "view"}}))

	reopened, err := NewEnforcer(db, logger.NewDiscard())
	require.NoError(t, err)

	ok, err := reopened.Enforce("user:1", "project:hello", "view")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProjectACL(t *testing.T) {
	e, _ := setupEnforcer(t)
	acl := NewProjectACL(e, logger.NewDiscard())
	ctx := context.Background()

	public := &translation.Project{Slug: "public"}
	private := &translation.Project{Slug: "private", EnableACL: true}

	t.Run("public project is visible to everyone", func(t *testing.T) {
		ok, err := acl.CanView(ctx, 1, public)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = acl.CanView(ctx, 0, public)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("private project requires a grant", func(t *testing.T) {
		ok, err := acl.CanView(ctx, 1, private)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, acl.Grant(ctx, 1, "private"))
		ok, err = acl.CanView(ctx, 1, private)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, acl.Revoke(ctx, 1, "private"))
		ok, err = acl.CanView(ctx, 1, private)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("group grant", func(t *testing.T) {
		require.NoError(t, e.AddPolicies([][]string{{permission.GroupSubject("Translators"), "project:private", "view"}}))
		require.NoError(t, e.AddRoleForUser(permission.UserSubject(5), permission.GroupSubject("Translators")))

		ok, err := acl.CanView(ctx, 5, private)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("anonymous never sees private projects", func(t *testing.T) {
		ok, err := acl.CanView(ctx, 0, private)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing project is an error", func(t *testing.T) {
		_, err := acl.CanView(ctx, 1, nil)
		assert.Error(t, err)
	})
}

func TestProjectACL_SeesChangesFromOtherProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.db")
	open := func() *ProjectACL {
		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { sqlDB.Close() })

		e, err := NewEnforcer(db, logger.NewDiscard())
		require.NoError(t, err)
		return NewProjectACL(e, logger.NewDiscard())
	}

	ctx := context.Background()
	secret := &translation.Project{Slug: "secret", EnableACL: true}
	worker := open()
	admin := open()

	ok, err := worker.CanView(ctx, 7, secret)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, admin.Grant(ctx, 7, "secret"))
	ok, err = worker.CanView(ctx, 7, secret)
	require.NoError(t, err)
	assert.True(t, ok, "grant stored by another enforcer is visible")

	require.NoError(t, admin.Revoke(ctx, 7, "secret"))
	ok, err = worker.CanView(ctx, 7, secret)
	require.NoError(t, err)
	assert.False(t, ok, "revocation stored by another enforcer is visible")
}

func TestDefaultGroups(t *testing.T) {
	groups, err := DefaultGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Users", groups[0].Name)
	assert.Len(t, groups[0].Permissions, 12)
	assert.Equal(t, "Managers", groups[1].Name)
	assert.Contains(t, groups[1].Permissions, "delete_comment")
	assert.NotContains(t, groups[0].Permissions, "delete_comment")

	_, err = ParseGroups([]byte("groups:\n  - name: A\n  - name: A\n"))
	assert.ErrorContains(t, err, "duplicate group")
}
