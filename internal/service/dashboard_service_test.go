package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	storage := newMemStorage()
	identity := NewIdentityService(storage)
	sessionSvc := NewSessionService(storage, identity)
	goalSvc := NewGoalService(storage, identity)
	sessionSvc.Subscribe(goalSvc.HandleSessionUpdate)
	svc := NewDashboardService(sessionSvc, goalSvc)

	today := time.Now().Format("2006-01-02")

	req := validSessionRequest()
	req.Date = today
	req.Duration = 30
	req.Category = "Programming"
	_, err := sessionSvc.AddSession(req)
	require.NoError(t, err)

	req = validSessionRequest()
	req.Date = dateDaysAgo(1)
	req.Duration = 45
	req.Category = "Mathematics"
	_, err = sessionSvc.AddSession(req)
	require.NoError(t, err)

	summary := svc.GetDashboard()

	assert.Equal(t, 2, summary.Streak)
	assert.Equal(t, 75, summary.TotalMinutes)
	assert.Equal(t, 30, summary.TodayMinutes)
	assert.Equal(t, 2, summary.SessionCount)
	assert.Equal(t, 30, summary.CategoryTotals["Programming"])
	assert.Equal(t, 45, summary.CategoryTotals["Mathematics"])
	assert.Len(t, summary.Achievements, 4)

	require.Len(t, summary.LastWeek, 7)
	assert.Equal(t, today, summary.LastWeek[6].Date)
	assert.Equal(t, 30, summary.LastWeek[6].Minutes)
	assert.Equal(t, 45, summary.LastWeek[5].Minutes)

	// 最近的会话排在前面
	require.Len(t, summary.RecentSessions, 2)
	assert.Equal(t, dateDaysAgo(1), summary.RecentSessions[0].Date)
}
