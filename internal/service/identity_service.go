package service

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"study_tracker_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

// InstanceIDKey 实例标识在键值存储中的键名
const InstanceIDKey = "code-tracker-browser-id"

// IdentityService 生成并缓存本实例的唯一标识，用于给所有持久化键加命名空间，
// 避免共用同一数据文件的多个档案互相覆盖
type IdentityService struct {
	storage Storage

	mu     sync.Mutex
	cached string
}

func NewIdentityService(storage Storage) *IdentityService {
	return &IdentityService{storage: storage}
}

// InstanceID 返回持久化的实例标识，首次调用时生成并写入存储
func (s *IdentityService) InstanceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached
	}

	if id, ok, err := s.storage.Get(InstanceIDKey); err == nil && ok && id != "" {
		s.cached = id
		return id
	}

	id := generateInstanceID()
	if err := s.storage.Set(InstanceIDKey, id); err != nil {
		logger.Log.Warn("Failed to persist instance id", zap.Error(err))
	}
	s.cached = id
	return id
}

// StorageKey 把实例标识拼到基础键名后面
func (s *IdentityService) StorageKey(baseKey string) string {
	return baseKey + "-" + s.InstanceID()
}

// generateInstanceID 时间戳 + 随机数 + 环境指纹哈希，三段以 - 连接
func generateInstanceID() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var buf [8]byte
	rand.Read(buf[:])
	random := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)

	hostname, _ := os.Hostname()
	env := fmt.Sprintf("%s|%s/%s", hostname, runtime.GOOS, runtime.GOARCH)
	sum := sha3.Sum256([]byte(env))
	envHash := hex.EncodeToString(sum[:])[:8]

	return fmt.Sprintf("%s-%s-%s", timestamp, random, envHash)
}
