package controller

import (
	"errors"

	"study_tracker_backend/internal/service"
	"study_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionController 学习会话的API入口，计时器和会话编辑界面都调它
type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// @Summary 记录学习会话
// @Description 计时器结束或手动补录时创建一条学习会话
// @Tags 学习会话
// @Accept json
// @Produce json
// @Param session body service.CreateSessionRequest true "会话内容"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req service.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.AddSession(req)
	if err != nil {
		if util.IsValidationError(err) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary 会话列表
// @Description 返回全部会话，带 date 参数时只返回该日期的会话
// @Tags 学习会话
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} util.Response
// @Router /api/sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	if date := ctx.Query("date"); date != "" {
		util.Success(ctx, c.SessionService.GetSessionsByDate(date))
		return
	}
	util.Success(ctx, c.SessionService.Sessions())
}

// @Summary 更新学习会话
// @Description 部分字段更新，合并结果重新整体校验
// @Tags 学习会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param session body service.UpdateSessionRequest true "要更新的字段"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [put]
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	var req service.UpdateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.UpdateSession(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case util.IsValidationError(err):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// @Summary 删除学习会话
// @Tags 学习会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	if err := c.SessionService.DeleteSession(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary 学习统计
// @Description 连续天数、总时长，带 date 参数时附带该日期的时长
// @Tags 学习会话
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} util.Response
// @Router /api/sessions/stats [get]
func (c *SessionController) GetStats(ctx *gin.Context) {
	stats := gin.H{
		"streak":       c.SessionService.GetStreak(),
		"totalMinutes": c.SessionService.GetTotalTime(),
	}
	if date := ctx.Query("date"); date != "" {
		stats["dateMinutes"] = c.SessionService.GetTotalTimeByDate(date)
	}
	util.Success(ctx, stats)
}
