package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ideafund/ideafund-backend/internal/config"
	"github.com/ideafund/ideafund-backend/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.db"), ConnMaxLifetime: 60}

	db, err := Open(cfg, false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, migration.Run(db))
	assert.True(t, db.Migrator().HasTable("campaigns"))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN(config.DatabaseConfig{
		Driver: "mysql", Host: "db", Port: 3306, User: "app", Password: "pw", DBName: "ideafund",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "app:pw@tcp(db:3306)/ideafund?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "time_zone=%27%2B00%3A00%27")
}
