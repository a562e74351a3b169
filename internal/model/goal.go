package model

type GoalType string

const (
	GoalDaily   GoalType = "daily"
	GoalWeekly  GoalType = "weekly"
	GoalMonthly GoalType = "monthly"
)

// Goal 用户自定义的学习时长目标
// progress 是派生值，由会话变更事件重新计算，用户不能直接设置
type Goal struct {
	ID            string   `json:"id"`
	Type          GoalType `json:"type"`
	TargetMinutes int      `json:"targetMinutes"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Completed     bool     `json:"completed"`
	Progress      int      `json:"progress"`
}

// CoversDate 判断目标的日期区间（含两端）是否覆盖指定日期
func (g *Goal) CoversDate(date string) bool {
	return g.StartDate <= date && g.EndDate >= date
}
