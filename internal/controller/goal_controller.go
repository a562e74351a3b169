package controller

import (
	"errors"

	"study_tracker_backend/internal/service"
	"study_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GoalController 目标与成就的API入口
type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// @Summary 创建学习目标
// @Tags 目标与成就
// @Accept json
// @Produce json
// @Param goal body service.CreateGoalRequest true "目标内容"
// @Success 201 {object} util.Response
// @Router /api/goals [post]
func (c *GoalController) CreateGoal(ctx *gin.Context) {
	var req service.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.GoalService.AddGoal(req)
	if err != nil {
		if util.IsValidationError(err) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, goal)
}

// @Summary 目标列表
// @Tags 目标与成就
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/goals [get]
func (c *GoalController) ListGoals(ctx *gin.Context) {
	util.Success(ctx, c.GoalService.Goals())
}

type goalProgressRequest struct {
	Progress int `json:"progress" binding:"min=0"`
}

// @Summary 设置目标进度
// @Description 直接设置进度的内部入口，常规路径是会话事件驱动的自动重算
// @Tags 目标与成就
// @Accept json
// @Produce json
// @Param id path string true "目标ID"
// @Param progress body goalProgressRequest true "进度分钟数"
// @Success 200 {object} util.Response
// @Router /api/goals/{id}/progress [put]
func (c *GoalController) UpdateGoalProgress(ctx *gin.Context) {
	var req goalProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.GoalService.UpdateGoalProgress(ctx.Param("id"), req.Progress); err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"updated": true})
}

// @Summary 标记目标完成
// @Tags 目标与成就
// @Produce json
// @Param id path string true "目标ID"
// @Success 200 {object} util.Response
// @Router /api/goals/{id}/complete [post]
func (c *GoalController) CompleteGoal(ctx *gin.Context) {
	if err := c.GoalService.CompleteGoal(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"completed": true})
}

// @Summary 成就目录
// @Tags 目标与成就
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/achievements [get]
func (c *GoalController) ListAchievements(ctx *gin.Context) {
	util.Success(ctx, c.GoalService.Achievements())
}

// @Summary 手动解锁成就
// @Tags 目标与成就
// @Produce json
// @Param id path string true "成就ID"
// @Success 200 {object} util.Response
// @Router /api/achievements/{id}/unlock [post]
func (c *GoalController) UnlockAchievement(ctx *gin.Context) {
	if err := c.GoalService.UnlockAchievement(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrAchievementNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"unlocked": true})
}

type achievementProgressRequest struct {
	Progress int `json:"progress" binding:"min=0"`
}

// @Summary 设置成就进度
// @Description 首次达标时解锁，解锁后不会因进度回落而重新锁定
// @Tags 目标与成就
// @Accept json
// @Produce json
// @Param id path string true "成就ID"
// @Param progress body achievementProgressRequest true "进度值"
// @Success 200 {object} util.Response
// @Router /api/achievements/{id}/progress [put]
func (c *GoalController) UpdateAchievementProgress(ctx *gin.Context) {
	var req achievementProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.GoalService.UpdateAchievementProgress(ctx.Param("id"), req.Progress); err != nil {
		if errors.Is(err, util.ErrAchievementNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"updated": true})
}
