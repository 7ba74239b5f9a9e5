package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/test/testdb"
	"energy-ops-console/pkg/utils"
)

func TestMigrateAndEnsureAdmin(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, Migrate(db, MigrationAuto))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	require.NoError(t, EnsureAdmin(db, "s3cret"))
	require.NoError(t, EnsureAdmin(db, "other"))

	var admins []models.User
	require.NoError(t, db.Where("user_name = ?", AdminUserName).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, utils.CheckPasswordHash("s3cret", admins[0].Password))

	var links int64
	require.NoError(t, db.Model(&models.UserRole{}).Where("user_id = ?", admins[0].UserID).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestMigrate_Drop(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, Migrate(db, MigrationAuto))
	require.NoError(t, db.Create(&models.Device{DeviceType: "turbine"}).Error)

	require.NoError(t, Migrate(db, MigrationDrop))

	var count int64
	require.NoError(t, db.Model(&models.Device{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.Error(t, Migrate(db, "alter"))
}

func TestConnectionPool(t *testing.T) {
	pool := NewConnectionPoolFromDB(testdb.Open(t))

	require.NoError(t, pool.HealthCheck(context.Background()))
	stats, err := pool.Stats()
	require.NoError(t, err)
	assert.Contains(t, stats, "open_connections")
	assert.NotNil(t, pool.GetDB())
}
