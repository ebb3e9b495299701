package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/verbatim-inc/verbatim/internal/shared/constants"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestNewManager_SQLiteAlwaysAutoMigrates(t *testing.T) {
	db := openSQLite(t)

	for _, env := range []string{constants.EnvDevelopment, constants.EnvTest, constants.EnvProduction} {
		m := NewManager(env, db, logger.NewDiscard())
		assert.Equal(t, "gorm_auto_migrate", m.GetStrategy().GetName(), env)
	}
}

func TestManager_MigrateCreatesTables(t *testing.T) {
	db := openSQLite(t)
	m := NewManager(constants.EnvDevelopment, db, logger.NewDiscard())

	require.NoError(t, m.Migrate(db))

	for _, table := range []string{
		constants.TableUsers,
		constants.TableProfiles,
		constants.TableProfileLanguages,
		constants.TableProfileSecondaryLanguages,
		constants.TableProfileSubscriptions,
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, m.Migrate(db))
}

func TestGooseStrategy_RejectsNonMySQL(t *testing.T) {
	db := openSQLite(t)
	_, err := NewGooseStrategy(logger.NewDiscard()).GetVersion(db)
	assert.ErrorContains(t, err, "require mysql")
}

func TestEmbeddedScripts(t *testing.T) {
	entries, err := scripts.ReadDir(scriptsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_users.sql", entries[0].Name())
}
