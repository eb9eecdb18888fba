package controller

import (
	"examprep_backend/internal/service"
	"examprep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 上传课时视频
// @Description 管理端上传视频文件，服务端探测真实时长并生成缩略图
// @Tags 课程管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path int true "课时ID"
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{lessonId}/video [post]
func (c *ContentController) UploadLessonVideo(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("lessonId"))
	if lessonID == 0 {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	lesson, err := c.ContentService.UploadLessonVideo(ctx.Request.Context(), lessonID, file)
	if err != nil {
		switch err {
		case util.ErrLessonNotFound:
			util.NotFound(ctx)
		case util.ErrInvalidVideoExt:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}
