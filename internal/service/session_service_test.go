package service

import (
	"encoding/json"
	"testing"
	"time"

	"study_tracker_backend/internal/model"
	"study_tracker_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) (*SessionService, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	identity := NewIdentityService(storage)
	return NewSessionService(storage, identity), storage
}

func validSessionRequest() CreateSessionRequest {
	return CreateSessionRequest{
		Date:        "2024-01-01",
		StartTime:   "2024-01-01T10:00:00Z",
		EndTime:     "2024-01-01T11:30:00Z",
		Duration:    90,
		Description: "Arrays",
		Category:    "Programming",
	}
}

func TestAddSessionAssignsID(t *testing.T) {
	svc, _ := newSessionService(t)

	session, err := svc.AddSession(validSessionRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 90, session.Duration)
	assert.Len(t, svc.Sessions(), 1)
}

func TestAddSessionValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateSessionRequest)
		wantErr error
	}{
		{"zero duration", func(r *CreateSessionRequest) { r.Duration = 0 }, util.ErrMissingDuration},
		{"negative duration", func(r *CreateSessionRequest) { r.Duration = -5 }, util.ErrMissingDuration},
		{"empty date", func(r *CreateSessionRequest) { r.Date = "" }, util.ErrMissingDate},
		{"blank description", func(r *CreateSessionRequest) { r.Description = "   " }, util.ErrMissingDescription},
		{"blank category", func(r *CreateSessionRequest) { r.Category = "  " }, util.ErrMissingCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, storage := newSessionService(t)

			req := validSessionRequest()
			tc.mutate(&req)

			_, err := svc.AddSession(req)
			assert.ErrorIs(t, err, tc.wantErr)
			// 集合不变，也没有持久化
			assert.Empty(t, svc.Sessions())
			_, ok, _ := storage.Get("study-storage-" + NewIdentityService(storage).InstanceID())
			assert.False(t, ok)
		})
	}
}

func TestUpdateSessionMergesFields(t *testing.T) {
	svc, _ := newSessionService(t)

	session, err := svc.AddSession(validSessionRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateSession(session.ID, UpdateSessionRequest{Description: "Linked lists"})
	require.NoError(t, err)
	assert.Equal(t, "Linked lists", updated.Description)
	// 未提供的字段保持原值
	assert.Equal(t, 90, updated.Duration)
	assert.Equal(t, "Programming", updated.Category)
}

func TestUpdateSessionNotFound(t *testing.T) {
	svc, _ := newSessionService(t)

	_, err := svc.UpdateSession("missing", UpdateSessionRequest{Description: "x"})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestUpdateSessionInvalidMergeRejected(t *testing.T) {
	svc, _ := newSessionService(t)

	session, err := svc.AddSession(validSessionRequest())
	require.NoError(t, err)

	_, err = svc.UpdateSession(session.ID, UpdateSessionRequest{Description: "   "})
	assert.ErrorIs(t, err, util.ErrMissingDescription)

	// 原记录保持不变
	sessions := svc.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "Arrays", sessions[0].Description)
}

func TestDeleteSessionNotFound(t *testing.T) {
	svc, _ := newSessionService(t)

	err := svc.DeleteSession("missing")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestTotalsEndToEnd(t *testing.T) {
	svc, _ := newSessionService(t)

	session, err := svc.AddSession(validSessionRequest())
	require.NoError(t, err)

	assert.Equal(t, 90, svc.GetTotalTime())
	assert.Equal(t, 90, svc.GetTotalTimeByDate("2024-01-01"))
	assert.Len(t, svc.GetSessionsByDate("2024-01-01"), 1)

	require.NoError(t, svc.DeleteSession(session.ID))

	assert.Equal(t, 0, svc.GetTotalTime())
	assert.Equal(t, 0, svc.GetTotalTimeByDate("2024-01-01"))
	assert.Empty(t, svc.GetSessionsByDate("2024-01-01"))
}

func dateDaysAgo(days int) string {
	return time.Now().AddDate(0, 0, -days).Format("2006-01-02")
}

func addSessionOn(t *testing.T, svc *SessionService, date string) {
	t.Helper()
	req := validSessionRequest()
	req.Date = date
	_, err := svc.AddSession(req)
	require.NoError(t, err)
}

func TestStreakStopsAtGap(t *testing.T) {
	svc, _ := newSessionService(t)

	// 今天、昨天有记录，前天没有，3天前有
	addSessionOn(t, svc, dateDaysAgo(0))
	addSessionOn(t, svc, dateDaysAgo(1))
	addSessionOn(t, svc, dateDaysAgo(3))

	assert.Equal(t, 2, svc.GetStreak())
}

func TestStreakZeroWithoutToday(t *testing.T) {
	svc, _ := newSessionService(t)

	addSessionOn(t, svc, dateDaysAgo(1))
	addSessionOn(t, svc, dateDaysAgo(2))

	assert.Equal(t, 0, svc.GetStreak())
}

func TestStreakCountsDateOnce(t *testing.T) {
	svc, _ := newSessionService(t)

	addSessionOn(t, svc, dateDaysAgo(0))
	addSessionOn(t, svc, dateDaysAgo(0))

	assert.Equal(t, 1, svc.GetStreak())
}

func TestPersistedEnvelopeRoundTrip(t *testing.T) {
	storage := newMemStorage()
	identity := NewIdentityService(storage)
	svc := NewSessionService(storage, identity)

	_, err := svc.AddSession(validSessionRequest())
	require.NoError(t, err)

	raw, ok, _ := storage.Get(identity.StorageKey("study-storage"))
	require.True(t, ok)

	var envelope struct {
		Version int `json:"version"`
		State   struct {
			Sessions []model.StudySession `json:"sessions"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	assert.Equal(t, 3, envelope.Version)
	require.Len(t, envelope.State.Sessions, 1)

	// 新实例从同一存储恢复
	reloaded := NewSessionService(storage, NewIdentityService(storage))
	assert.Len(t, reloaded.Sessions(), 1)
}

func TestNotifyCarriesFullCollection(t *testing.T) {
	svc, _ := newSessionService(t)

	var seen [][]model.StudySession
	svc.Subscribe(func(sessions []model.StudySession) {
		seen = append(seen, sessions)
	})

	_, err := svc.AddSession(validSessionRequest())
	require.NoError(t, err)
	req := validSessionRequest()
	req.Date = "2024-01-02"
	_, err = svc.AddSession(req)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1)
	assert.Len(t, seen[1], 2)
}
