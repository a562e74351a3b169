package model

// StudySession 一次完整的学习记录
// date 为 YYYY-MM-DD，是所有按日期查询的分区键；
// duration 以分钟计，计时器会先扣除暂停时间，所以不要求等于 endTime-startTime
// swagger:model StudySession
type StudySession struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StudyReason string `json:"studyReason,omitempty"`
}

// 推荐的学习分类（仅用于前端下拉提示，数据层不做约束）
var SuggestedCategories = []string{
	"Programming",
	"Mathematics",
	"Science",
	"Language",
	"General",
}
