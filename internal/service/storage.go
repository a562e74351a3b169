package service

// Storage 各 store 依赖的持久化接口，生产环境由 repository.StorageRepository 实现
type Storage interface {
	// Get 返回键的原始值，第二个返回值表示键是否存在
	Get(key string) (string, bool, error)
	// Set 写入或覆盖键
	Set(key, value string) error
}
