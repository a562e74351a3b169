package service

import (
	"time"

	"study_tracker_backend/internal/model"
)

// DashboardService 给仪表盘和日历聚合只读视图，不持有任何状态
type DashboardService struct {
	SessionService *SessionService
	GoalService    *GoalService
}

func NewDashboardService(sessionService *SessionService, goalService *GoalService) *DashboardService {
	return &DashboardService{
		SessionService: sessionService,
		GoalService:    goalService,
	}
}

// DailyTotal 单日学习分钟数，用于最近一周的趋势图
type DailyTotal struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type DashboardSummary struct {
	Streak         int                  `json:"streak"`
	TotalMinutes   int                  `json:"totalMinutes"`
	TodayMinutes   int                  `json:"todayMinutes"`
	SessionCount   int                  `json:"sessionCount"`
	CategoryTotals map[string]int       `json:"categoryTotals"`
	LastWeek       []DailyTotal         `json:"lastWeek"`
	RecentSessions []model.StudySession `json:"recentSessions"`
	Goals          []model.Goal         `json:"goals"`
	Achievements   []model.Achievement  `json:"achievements"`
}

// GetDashboard 汇总仪表盘需要的全部数据
func (s *DashboardService) GetDashboard() *DashboardSummary {
	sessions := s.SessionService.Sessions()
	today := time.Now().Format("2006-01-02")

	summary := &DashboardSummary{
		Streak:         s.SessionService.GetStreak(),
		SessionCount:   len(sessions),
		CategoryTotals: map[string]int{},
		Goals:          s.GoalService.Goals(),
		Achievements:   s.GoalService.Achievements(),
	}

	for _, session := range sessions {
		summary.TotalMinutes += session.Duration
		summary.CategoryTotals[session.Category] += session.Duration
		if session.Date == today {
			summary.TodayMinutes += session.Duration
		}
	}

	summary.LastWeek = s.lastWeekTotals(sessions)
	summary.RecentSessions = recentSessions(sessions, 5)

	return summary
}

// lastWeekTotals 最近 7 天（含今天）每天的总分钟数，按日期升序
func (s *DashboardService) lastWeekTotals(sessions []model.StudySession) []DailyTotal {
	byDate := map[string]int{}
	for _, session := range sessions {
		byDate[session.Date] += session.Duration
	}

	totals := make([]DailyTotal, 0, 7)
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		totals = append(totals, DailyTotal{Date: date, Minutes: byDate[date]})
	}
	return totals
}

// recentSessions 按追加顺序取末尾 n 条，最新的排在前面
func recentSessions(sessions []model.StudySession, n int) []model.StudySession {
	recent := []model.StudySession{}
	for i := len(sessions) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, sessions[i])
	}
	return recent
}
