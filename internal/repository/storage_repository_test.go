package repository

import (
	"path/filepath"
	"testing"

	"study_tracker_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *StorageRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StorageEntry{}))

	return NewStorageRepository(db)
}

func TestGetMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	value, ok, err := repo.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetAndGet(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Set("study-storage-abc", `{"version":3}`))

	value, ok, err := repo.Get("study-storage-abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":3}`, value)
}

func TestSetOverwrites(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Set("k", "v1"))
	require.NoError(t, repo.Set("k", "v2"))

	value, ok, err := repo.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Set("k", "v"))
	require.NoError(t, repo.Delete("k"))

	_, ok, err := repo.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的键不报错
	require.NoError(t, repo.Delete("k"))
}
