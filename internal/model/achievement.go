package model

// Achievement 固定成就目录中的一项
// progress 单位随成就而异（次数/天数/分钟），unlockedAt 一旦写入就不再清除
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
}

// Unlocked 是否已解锁
func (a *Achievement) Unlocked() bool {
	return a.UnlockedAt != ""
}

// DefaultAchievements 首次运行时植入的成就目录，运行期只更新进度和解锁时间
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID:          "first-session",
			Title:       "First Steps",
			Description: "Complete your first study session",
			Icon:        "🚀",
			Target:      1,
		},
		{
			ID:          "study-streak-3",
			Title:       "Getting Started",
			Description: "Maintain a 3-day study streak",
			Icon:        "🔥",
			Target:      3,
		},
		{
			ID:          "study-streak-7",
			Title:       "Week Warrior",
			Description: "Maintain a 7-day study streak",
			Icon:        "⚡",
			Target:      7,
		},
		{
			ID:          "total-hours-10",
			Title:       "Dedicated Learner",
			Description: "Log 10 total hours of studying",
			Icon:        "📚",
			Target:      600, // 10小时对应的分钟数
		},
	}
}
