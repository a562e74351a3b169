package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceIDIsStable(t *testing.T) {
	storage := newMemStorage()
	svc := NewIdentityService(storage)

	id := svc.InstanceID()
	require.NotEmpty(t, id)
	assert.Equal(t, id, svc.InstanceID())

	// 新实例从存储里读到同一个标识
	other := NewIdentityService(storage)
	assert.Equal(t, id, other.InstanceID())

	persisted, ok, _ := storage.Get(InstanceIDKey)
	require.True(t, ok)
	assert.Equal(t, id, persisted)
}

func TestInstanceIDFormat(t *testing.T) {
	svc := NewIdentityService(newMemStorage())

	parts := strings.Split(svc.InstanceID(), "-")
	require.Len(t, parts, 3)
	for _, part := range parts {
		assert.NotEmpty(t, part)
	}
	// 环境指纹是8位十六进制
	assert.Len(t, parts[2], 8)
}

func TestStorageKeyNamespacing(t *testing.T) {
	svc := NewIdentityService(newMemStorage())

	key := svc.StorageKey("study-storage")
	assert.Equal(t, "study-storage-"+svc.InstanceID(), key)
	assert.True(t, strings.HasPrefix(key, "study-storage-"))
}

func TestDistinctStoragesGetDistinctIDs(t *testing.T) {
	a := NewIdentityService(newMemStorage()).InstanceID()
	b := NewIdentityService(newMemStorage()).InstanceID()
	assert.NotEqual(t, a, b)
}
