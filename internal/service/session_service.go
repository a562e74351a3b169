package service

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"study_tracker_backend/internal/model"
	"study_tracker_backend/internal/util"
	"study_tracker_backend/pkg/logger"
	"study_tracker_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	studyStorageBaseKey = "study-storage"
	sessionStateVersion = 3
)

// sessionEnvelope 持久化快照的外层结构，带版本号
type sessionEnvelope struct {
	Version int          `json:"version"`
	State   sessionState `json:"state"`
}

type sessionState struct {
	Sessions []model.StudySession `json:"sessions"`
}

// SessionListener 会话集合变更的同步回调，携带完整的最新集合
type SessionListener func(sessions []model.StudySession)

// SessionService 学习会话的唯一数据源
// 每次成功变更都会整体持久化并同步通知订阅者，失败的变更不产生任何副作用
type SessionService struct {
	storage  Storage
	identity *IdentityService

	mu        sync.RWMutex
	sessions  []model.StudySession
	listeners []SessionListener
}

func NewSessionService(storage Storage, identity *IdentityService) *SessionService {
	s := &SessionService{
		storage:  storage,
		identity: identity,
	}
	s.load()
	return s
}

// CreateSessionRequest 新建学习会话的请求结构
type CreateSessionRequest struct {
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    int    `json:"duration" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	StudyReason string `json:"studyReason"`
}

// UpdateSessionRequest 部分更新的请求结构，零值字段保持原值
type UpdateSessionRequest struct {
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StudyReason string `json:"studyReason"`
}

// Subscribe 注册变更订阅者，回调在变更调用内同步执行
func (s *SessionService) Subscribe(l SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// AddSession 校验并追加新会话，成功后持久化并广播
func (s *SessionService) AddSession(req CreateSessionRequest) (*model.StudySession, error) {
	session := model.StudySession{
		ID:          uuid.New().String(),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Duration:    req.Duration,
		Description: req.Description,
		Category:    req.Category,
		StudyReason: req.StudyReason,
	}

	if err := validateSession(&session); err != nil {
		logger.Log.Warn("Rejected invalid session",
			zap.String("date", req.Date),
			zap.Int("duration", req.Duration),
			zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = append(s.sessions, session)
	s.persist()
	monitoring.SessionsCreated.Inc()
	s.notify()

	return &session, nil
}

// UpdateSession 把非零字段合并到已有会话上，合并结果重新整体校验
func (s *SessionService) UpdateSession(id string, req UpdateSessionRequest) (*model.StudySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		logger.Log.Warn("Session not found", zap.String("id", id))
		return nil, util.ErrSessionNotFound
	}

	merged := s.sessions[idx]
	if req.Date != "" {
		merged.Date = req.Date
	}
	if req.StartTime != "" {
		merged.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		merged.EndTime = req.EndTime
	}
	if req.Duration > 0 {
		merged.Duration = req.Duration
	}
	if req.Description != "" {
		merged.Description = req.Description
	}
	if req.Category != "" {
		merged.Category = req.Category
	}
	if req.StudyReason != "" {
		merged.StudyReason = req.StudyReason
	}

	if err := validateSession(&merged); err != nil {
		logger.Log.Warn("Rejected invalid session update", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 原位替换，保持插入顺序
	s.sessions[idx] = merged
	s.persist()
	s.notify()

	return &merged, nil
}

// DeleteSession 删除指定会话，未找到时不做任何变更
func (s *SessionService) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		logger.Log.Warn("Session not found", zap.String("id", id))
		return util.ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	s.persist()
	s.notify()

	return nil
}

// Sessions 返回当前集合的副本
func (s *SessionService) Sessions() []model.StudySession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySessions(s.sessions)
}

// GetStreak 从今天往前数连续有学习记录的天数
func (s *SessionService) GetStreak() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculateStreak(s.sessions)
}

// GetTotalTime 所有会话的总分钟数
func (s *SessionService) GetTotalTime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, session := range s.sessions {
		total += session.Duration
	}
	return total
}

// GetTotalTimeByDate 指定日期的总分钟数
func (s *SessionService) GetTotalTimeByDate(date string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, session := range s.sessions {
		if session.Date == date {
			total += session.Duration
		}
	}
	return total
}

// GetSessionsByDate 指定日期的所有会话
func (s *SessionService) GetSessionsByDate(date string) []model.StudySession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.StudySession{}
	for _, session := range s.sessions {
		if session.Date == date {
			result = append(result, session)
		}
	}
	return result
}

func (s *SessionService) indexOf(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// load 启动时从命名空间键恢复快照，键缺失或解析失败都从空集合开始
func (s *SessionService) load() {
	key := s.identity.StorageKey(studyStorageBaseKey)
	raw, ok, err := s.storage.Get(key)
	if err != nil {
		logger.Log.Error("Failed to read session snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		logger.Log.Error("Failed to decode session snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	s.sessions = envelope.State.Sessions
}

// persist 整体写入持久化快照，写失败只记日志，内存状态保持有效
func (s *SessionService) persist() {
	envelope := sessionEnvelope{
		Version: sessionStateVersion,
		State:   sessionState{Sessions: s.sessions},
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		logger.Log.Error("Failed to encode session snapshot", zap.Error(err))
		return
	}

	key := s.identity.StorageKey(studyStorageBaseKey)
	if err := s.storage.Set(key, string(data)); err != nil {
		logger.Log.Error("Failed to persist sessions", zap.String("key", key), zap.Error(err))
	}
}

// notify 持有锁时同步派发，保证订阅者看到的快照不早于触发它的变更
func (s *SessionService) notify() {
	snapshot := copySessions(s.sessions)
	for _, l := range s.listeners {
		l(snapshot)
	}
}

func copySessions(sessions []model.StudySession) []model.StudySession {
	snapshot := make([]model.StudySession, len(sessions))
	copy(snapshot, sessions)
	return snapshot
}

// validateSession 存储边界上的统一校验，任何一项不满足都拒绝写入
func validateSession(session *model.StudySession) error {
	if session.Duration <= 0 {
		return util.ErrMissingDuration
	}
	if session.Date == "" {
		return util.ErrMissingDate
	}
	if strings.TrimSpace(session.Description) == "" {
		return util.ErrMissingDescription
	}
	if strings.TrimSpace(session.Category) == "" {
		return util.ErrMissingCategory
	}
	return nil
}

// calculateStreak 从今天开始逐日回溯，遇到第一个没有会话的日期就停
func calculateStreak(sessions []model.StudySession) int {
	dates := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		dates[session.Date] = true
	}

	streak := 0
	day := time.Now()
	for {
		if !dates[day.Format("2006-01-02")] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
