package app

import (
	"study_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 学习会话：计时器、日历和会话编辑界面的唯一写入口
		sessions := api.Group("/sessions")
		{
			sessions.POST("", c.session.CreateSession)
			sessions.GET("", c.session.ListSessions)
			sessions.GET("/stats", c.session.GetStats)
			sessions.PUT("/:id", c.session.UpdateSession)
			sessions.DELETE("/:id", c.session.DeleteSession)
		}

		// 目标与成就
		goals := api.Group("/goals")
		{
			goals.POST("", c.goal.CreateGoal)
			goals.GET("", c.goal.ListGoals)
			goals.PUT("/:id/progress", c.goal.UpdateGoalProgress)
			goals.POST("/:id/complete", c.goal.CompleteGoal)
		}

		achievements := api.Group("/achievements")
		{
			achievements.GET("", c.goal.ListAchievements)
			achievements.POST("/:id/unlock", c.goal.UnlockAchievement)
			achievements.PUT("/:id/progress", c.goal.UpdateAchievementProgress)
		}

		api.GET("/dashboard", c.dashboard.GetDashboard)

		// 数据管理
		data := api.Group("/data")
		{
			data.GET("/instance", c.data.GetInstanceInfo)
			data.POST("/migrate", c.data.ForceMigration)
		}
	}
}
