package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacySessionsPayload = `{"version":3,"state":{"sessions":[{"id":"s1","date":"2024-01-01","duration":90,"description":"Arrays","category":"Programming"}]}}`
const legacyGoalsPayload = `{"version":2,"state":{"goals":[],"achievements":[]}}`

func newMigrationService(storage *memStorage) (*MigrationService, *IdentityService) {
	identity := NewIdentityService(storage)
	return NewMigrationService(storage, identity), identity
}

func TestMigrationCopiesLegacyData(t *testing.T) {
	storage := newMemStorage()
	storage.data["coding-storage"] = legacySessionsPayload
	storage.data["goals-storage"] = legacyGoalsPayload

	migration, identity := newMigrationService(storage)
	require.NoError(t, migration.MigrateLegacyData())

	// 原样照搬到新键
	newStudy, ok, _ := storage.Get(identity.StorageKey("study-storage"))
	require.True(t, ok)
	assert.Equal(t, legacySessionsPayload, newStudy)

	newGoals, ok, _ := storage.Get(identity.StorageKey("goals-storage"))
	require.True(t, ok)
	assert.Equal(t, legacyGoalsPayload, newGoals)

	// 旧键不删除，另落一份备份
	legacy, ok, _ := storage.Get("coding-storage")
	require.True(t, ok)
	assert.Equal(t, legacySessionsPayload, legacy)

	backup, ok, _ := storage.Get("coding-storage-backup")
	require.True(t, ok)
	assert.Equal(t, legacySessionsPayload, backup)

	goalsBackup, ok, _ := storage.Get("goals-storage-backup")
	require.True(t, ok)
	assert.Equal(t, legacyGoalsPayload, goalsBackup)
}

func TestMigrationIsIdempotent(t *testing.T) {
	storage := newMemStorage()
	storage.data["coding-storage"] = legacySessionsPayload

	migration, identity := newMigrationService(storage)
	require.NoError(t, migration.MigrateLegacyData())

	after := map[string]string{}
	for k, v := range storage.data {
		after[k] = v
	}

	require.NoError(t, migration.MigrateLegacyData())
	assert.Equal(t, after, storage.data)

	value, ok, _ := storage.Get(identity.StorageKey("study-storage"))
	require.True(t, ok)
	assert.Equal(t, legacySessionsPayload, value)
}

func TestMigrationNeverOverwrites(t *testing.T) {
	storage := newMemStorage()
	migration, identity := newMigrationService(storage)

	existing := `{"version":3,"state":{"sessions":[]}}`
	require.NoError(t, storage.Set(identity.StorageKey("study-storage"), existing))
	storage.data["coding-storage"] = legacySessionsPayload

	require.NoError(t, migration.MigrateLegacyData())

	value, ok, _ := storage.Get(identity.StorageKey("study-storage"))
	require.True(t, ok)
	assert.Equal(t, existing, value)

	// 跳过时也不产生备份
	_, ok, _ = storage.Get("coding-storage-backup")
	assert.False(t, ok)
}

func TestMigrationNoopWithoutLegacyData(t *testing.T) {
	storage := newMemStorage()
	migration, identity := newMigrationService(storage)

	require.NoError(t, migration.MigrateLegacyData())

	_, ok, _ := storage.Get(identity.StorageKey("study-storage"))
	assert.False(t, ok)
	_, ok, _ = storage.Get(identity.StorageKey("goals-storage"))
	assert.False(t, ok)
}

// 迁移后新建的会话服务要能直接读到迁移过来的数据
func TestMigratedDataLoadsIntoStore(t *testing.T) {
	storage := newMemStorage()
	storage.data["coding-storage"] = legacySessionsPayload

	migration, identity := newMigrationService(storage)
	require.NoError(t, migration.MigrateLegacyData())

	svc := NewSessionService(storage, identity)
	sessions := svc.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, 90, sessions[0].Duration)
}
