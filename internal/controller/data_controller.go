package controller

import (
	"study_tracker_backend/internal/model"
	"study_tracker_backend/internal/service"
	"study_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DataController 数据管理入口：实例标识查看和旧数据迁移的手动触发
type DataController struct {
	MigrationService *service.MigrationService
	IdentityService  *service.IdentityService
}

func NewDataController(migrationService *service.MigrationService, identityService *service.IdentityService) *DataController {
	return &DataController{
		MigrationService: migrationService,
		IdentityService:  identityService,
	}
}

// @Summary 查看实例信息
// @Description 实例标识和推荐分类，用于排查数据归属
// @Tags 数据管理
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/data/instance [get]
func (c *DataController) GetInstanceInfo(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"instanceId":          c.IdentityService.InstanceID(),
		"suggestedCategories": model.SuggestedCategories,
	})
}

// @Summary 手动触发旧数据迁移
// @Description 迁移是幂等的，重复调用不会覆盖已有的新格式数据
// @Tags 数据管理
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/data/migrate [post]
func (c *DataController) ForceMigration(ctx *gin.Context) {
	if err := c.MigrationService.MigrateLegacyData(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"migrated": true})
}
