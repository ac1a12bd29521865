package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/ppt_tools/pkg/config"
)

func TestOpenSqlite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "ppt.db")
	conn, err := Open("sqlite", dsn)
	require.NoError(t, err)
	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Close())
	assert.FileExists(t, dsn)
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorIs(t, err, config.ErrInvalidDatabaseConfig)
}

func TestCloseWithoutInit(t *testing.T) {
	assert.NoError(t, Close())
	assert.Nil(t, GetDB())
}
