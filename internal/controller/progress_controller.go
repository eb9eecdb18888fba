package controller

import (
	"examprep_backend/internal/model"
	"examprep_backend/internal/service"
	"examprep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 查询课时观看进度
// @Description 获取当前用户对某课时的观看进度，无记录表示未开始
// @Tags 观看进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程标识"
// @Param lessonId path string true "课时标识"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/lessons/{lessonId}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("courseId")
	lessonID := ctx.Param("lessonId")

	rec, ok := c.ProgressService.GetProgress(user.UserID, courseID, lessonID)
	if !ok {
		util.Success(ctx, gin.H{"courseId": courseID, "lessonId": lessonID, "record": nil})
		return
	}

	util.Success(ctx, gin.H{"courseId": courseID, "lessonId": lessonID, "record": rec})
}

// @Summary 上报播放进度
// @Description 播放器 timeupdate tick 调用，写入当前时间与时长，完成状态按 90% 规则推导
// @Tags 观看进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程标识"
// @Param lessonId path string true "课时标识"
// @Param body body model.ProgressUpdate true "播放进度"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/lessons/{lessonId}/progress [put]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req model.ProgressUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec := c.ProgressService.UpdateProgress(user.UserID, ctx.Param("courseId"), ctx.Param("lessonId"), req)
	util.Success(ctx, rec)
}

// @Summary 标记课时完成
// @Description 播放结束事件调用，无条件置为完成，幂等
// @Tags 观看进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程标识"
// @Param lessonId path string true "课时标识"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/lessons/{lessonId}/complete [post]
func (c *ProgressController) MarkCompleted(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rec := c.ProgressService.MarkCompleted(user.UserID, ctx.Param("courseId"), ctx.Param("lessonId"))
	util.Success(ctx, rec)
}

// @Summary 获取最近观看的课时
// @Description 页面加载时调用，返回课程内最近交互的课时标识，用于续播定位
// @Tags 观看进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程标识"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/last-watched [get]
func (c *ProgressController) GetLastWatched(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("courseId")
	lessonID, ok := c.ProgressService.GetLastWatchedVideo(user.UserID, courseID)
	if !ok {
		util.Success(ctx, gin.H{"courseId": courseID, "lessonId": nil})
		return
	}

	util.Success(ctx, gin.H{"courseId": courseID, "lessonId": lessonID})
}
