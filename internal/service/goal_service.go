package service

import (
	"encoding/json"
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
	goalsStorageBaseKey = "goals-storage"
	goalsStateVersion   = 2
)

type goalsEnvelope struct {
	Version int        `json:"version"`
	State   goalsState `json:"state"`
}

type goalsState struct {
	Goals        []model.Goal        `json:"goals"`
	Achievements []model.Achievement `json:"achievements"`
}

// sessionStats 一次重算用到的全部派生量
type sessionStats struct {
	todayTotal   int
	totalMinutes int
	streak       int
	sessionCount int
}

// achievementRules 成就 ID 到进度计算规则的映射，目录固定，规则也固定
var achievementRules = map[string]func(stats sessionStats) int{
	"first-session": func(stats sessionStats) int {
		if stats.sessionCount > 0 {
			return 1
		}
		return 0
	},
	"study-streak-3": func(stats sessionStats) int {
		return min(stats.streak, 3)
	},
	"study-streak-7": func(stats sessionStats) int {
		return min(stats.streak, 7)
	},
	"total-hours-10": func(stats sessionStats) int {
		return min(stats.totalMinutes, 600)
	},
}

// GoalService 目标与成就的数据源
// 进度字段都是派生值，通过订阅 SessionService 的变更事件重算，
// 本服务从不反向写入会话数据
type GoalService struct {
	storage  Storage
	identity *IdentityService

	mu           sync.RWMutex
	goals        []model.Goal
	achievements []model.Achievement
}

func NewGoalService(storage Storage, identity *IdentityService) *GoalService {
	s := &GoalService{
		storage:  storage,
		identity: identity,
	}
	s.load()
	return s
}

// CreateGoalRequest 新建目标的请求结构
type CreateGoalRequest struct {
	Type          model.GoalType `json:"type" binding:"required,oneof=daily weekly monthly"`
	TargetMinutes int            `json:"targetMinutes" binding:"required"`
	StartDate     string         `json:"startDate" binding:"required"`
	EndDate       string         `json:"endDate" binding:"required"`
}

// AddGoal 创建目标，进度从 0 开始
func (s *GoalService) AddGoal(req CreateGoalRequest) (*model.Goal, error) {
	switch req.Type {
	case model.GoalDaily, model.GoalWeekly, model.GoalMonthly:
	default:
		return nil, util.ErrInvalidGoalType
	}
	if req.TargetMinutes <= 0 {
		return nil, util.ErrInvalidTarget
	}

	goal := model.Goal{
		ID:            uuid.New().String(),
		Type:          req.Type,
		TargetMinutes: req.TargetMinutes,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = append(s.goals, goal)
	s.persist()

	return &goal, nil
}

// Goals 返回目标列表的副本
func (s *GoalService) Goals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]model.Goal, len(s.goals))
	copy(goals, s.goals)
	return goals
}

// Achievements 返回成就目录的副本
func (s *GoalService) Achievements() []model.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	achievements := make([]model.Achievement, len(s.achievements))
	copy(achievements, s.achievements)
	return achievements
}

// UpdateGoalProgress 直接设置目标进度，达标时标记完成
// 常规路径是事件驱动重算，这里保留直接入口
func (s *GoalService) UpdateGoalProgress(id string, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].Progress = progress
			s.goals[i].Completed = progress >= s.goals[i].TargetMinutes
			s.persist()
			return nil
		}
	}
	return util.ErrGoalNotFound
}

// CompleteGoal 直接标记目标完成
func (s *GoalService) CompleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].Completed = true
			s.persist()
			return nil
		}
	}
	return util.ErrGoalNotFound
}

// UnlockAchievement 无条件写入解锁时间
func (s *GoalService) UnlockAchievement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.achievements {
		if s.achievements[i].ID == id {
			s.achievements[i].UnlockedAt = time.Now().Format(time.RFC3339)
			s.persist()
			return nil
		}
	}
	return util.ErrAchievementNotFound
}

// UpdateAchievementProgress 设置成就进度，首次达标时解锁
// 解锁是单向的，之后进度再低也不会清除解锁时间
func (s *GoalService) UpdateAchievementProgress(id string, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.achievements {
		if s.achievements[i].ID == id {
			s.achievements[i].Progress = progress
			if progress >= s.achievements[i].Target && s.achievements[i].UnlockedAt == "" {
				s.unlockLocked(i)
			}
			s.persist()
			return nil
		}
	}
	return util.ErrAchievementNotFound
}

// HandleSessionUpdate 会话变更的订阅回调，也在启动时用持久化快照调用一次
// 整个重算是会话快照的纯函数，外加解锁时间的单向写入
func (s *GoalService) HandleSessionUpdate(sessions []model.StudySession) {
	stats := computeStats(sessions)
	today := time.Now().Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	// 只有 daily 目标参与自动重算，weekly/monthly 目标创建后不会自动更新。
	// 与原有行为保持一致，见 DESIGN.md
	for i := range s.goals {
		goal := &s.goals[i]
		if goal.Type != model.GoalDaily || !goal.CoversDate(today) {
			continue
		}
		goal.Progress = stats.todayTotal
		if goal.Progress >= goal.TargetMinutes {
			goal.Completed = true
		}
	}

	for i := range s.achievements {
		achievement := &s.achievements[i]
		rule, ok := achievementRules[achievement.ID]
		if !ok {
			continue
		}
		achievement.Progress = rule(stats)
		if achievement.Progress >= achievement.Target && achievement.UnlockedAt == "" {
			s.unlockLocked(i)
		}
	}

	s.persist()
}

// unlockLocked 调用方必须已持有写锁
func (s *GoalService) unlockLocked(i int) {
	s.achievements[i].UnlockedAt = time.Now().Format(time.RFC3339)
	monitoring.AchievementsUnlocked.WithLabelValues(s.achievements[i].ID).Inc()
	logger.Log.Info("Achievement unlocked",
		zap.String("id", s.achievements[i].ID),
		zap.String("title", s.achievements[i].Title))
}

func computeStats(sessions []model.StudySession) sessionStats {
	today := time.Now().Format("2006-01-02")

	stats := sessionStats{sessionCount: len(sessions)}
	for _, session := range sessions {
		stats.totalMinutes += session.Duration
		if session.Date == today {
			stats.todayTotal += session.Duration
		}
	}
	stats.streak = calculateStreak(sessions)
	return stats
}

func (s *GoalService) load() {
	key := s.identity.StorageKey(goalsStorageBaseKey)
	raw, ok, err := s.storage.Get(key)
	if err != nil {
		logger.Log.Error("Failed to read goals snapshot", zap.String("key", key), zap.Error(err))
	}
	if err == nil && ok {
		var envelope goalsEnvelope
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			logger.Log.Error("Failed to decode goals snapshot", zap.String("key", key), zap.Error(err))
		} else {
			s.goals = envelope.State.Goals
			s.achievements = envelope.State.Achievements
		}
	}

	// 首次运行植入固定成就目录
	if len(s.achievements) == 0 {
		s.achievements = model.DefaultAchievements()
	}
}

func (s *GoalService) persist() {
	envelope := goalsEnvelope{
		Version: goalsStateVersion,
		State: goalsState{
			Goals:        s.goals,
			Achievements: s.achievements,
		},
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		logger.Log.Error("Failed to encode goals snapshot", zap.Error(err))
		return
	}

	key := s.identity.StorageKey(goalsStorageBaseKey)
	if err := s.storage.Set(key, string(data)); err != nil {
		logger.Log.Error("Failed to persist goals", zap.String("key", key), zap.Error(err))
	}
}
