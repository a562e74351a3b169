package util

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrMissingDuration     = errors.New("duration must be greater than 0")
	ErrMissingDate         = errors.New("date is required")
	ErrMissingDescription  = errors.New("description is required")
	ErrMissingCategory     = errors.New("category is required")
	ErrInvalidGoalType     = errors.New("goal type must be daily, weekly or monthly")
	ErrInvalidTarget       = errors.New("target minutes must be greater than 0")
)

// IsValidationError 区分校验错误和未找到错误，便于控制器映射状态码
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrMissingDuration),
		errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrMissingDescription),
		errors.Is(err, ErrMissingCategory),
		errors.Is(err, ErrInvalidGoalType),
		errors.Is(err, ErrInvalidTarget):
		return true
	}
	return false
}
