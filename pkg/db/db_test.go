package db_test

import (
	"testing"

	"github.com/railzwaylabs/featuregate/internal/config"
	"github.com/railzwaylabs/featuregate/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Config{
		AppName: "featuregate",
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
			MaxOpenConns: 4,
		},
	}

	conn, err := db.Open(cfg, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, sqlDB.Ping())
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite} {
		d, err := db.Dialector(config.DatabaseConfig{Driver: driver, DSN: "x"})
		require.NoError(t, err)
		assert.NotNil(t, d)
	}

	_, err := db.Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, config.ErrInvalidDriver)
}
