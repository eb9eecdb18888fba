package controller

import (
	"examprep_backend/internal/model"
	"examprep_backend/internal/service"
	"examprep_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	LessonService *service.LessonService
}

func NewCourseController(lessonService *service.LessonService) *CourseController {
	return &CourseController{LessonService: lessonService}
}

// parseFilterSpec 从查询参数解析筛选排序指令
// 状态开关缺省为开启（与前端默认展示全部一致），三个全部显式关闭时结果为空
func parseFilterSpec(ctx *gin.Context) model.FilterSpec {
	boolQuery := func(name string) bool {
		return ctx.DefaultQuery(name, "true") == "true"
	}

	sortBy := model.SortKey(ctx.DefaultQuery("sortBy", string(model.SortByTitle)))
	switch sortBy {
	case model.SortByTitle, model.SortByDuration, model.SortByProgress:
	default:
		sortBy = model.SortByTitle
	}

	sortOrder := model.SortOrder(ctx.DefaultQuery("sortOrder", string(model.SortAsc)))
	if sortOrder != model.SortDesc {
		sortOrder = model.SortAsc
	}

	return model.FilterSpec{
		Completed:  boolQuery("completed"),
		InProgress: boolQuery("inProgress"),
		NotStarted: boolQuery("notStarted"),
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	}
}

// @Summary 课程列表
// @Description 获取全部课程
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	courses, err := c.LessonService.GetCourses()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary 课时列表（搜索/筛选/排序）
// @Description 按搜索词、状态开关和排序指令推导当前用户的可见课时列表
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程标识"
// @Param q query string false "搜索词，匹配标题或描述"
// @Param completed query bool false "包含已完成" default(true)
// @Param inProgress query bool false "包含进行中" default(true)
// @Param notStarted query bool false "包含未开始" default(true)
// @Param sortBy query string false "排序键 title/duration/progress" default(title)
// @Param sortOrder query string false "排序方向 asc/desc" default(asc)
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/lessons [get]
func (c *CourseController) GetLessons(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("courseId")
	spec := parseFilterSpec(ctx)

	items, err := c.LessonService.ListLessons(ctx.Request.Context(), user.UserID, courseID, ctx.Query("q"), spec)
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

type CreateCourseRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// @Summary 新建课程
// @Description 管理端创建课程
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := c.LessonService.CreateCourse(ctx.Request.Context(), course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

type CreateLessonRequest struct {
	Slug          string `json:"slug" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	DurationLabel string `json:"durationLabel"`
	Order         int    `json:"order"`
}

// @Summary 新建课时
// @Description 管理端在课程下创建课时，视频上传后时长会被探测值覆盖
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程标识"
// @Param body body CreateLessonRequest true "课时信息"
// @Success 201 {object} util.Response
// @Router /api/admin/courses/{courseId}/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		Slug:          req.Slug,
		Title:         req.Title,
		Description:   req.Description,
		DurationLabel: req.DurationLabel,
		Order:         req.Order,
	}

	err := c.LessonService.CreateLesson(ctx.Request.Context(), ctx.Param("courseId"), lesson)
	if err != nil {
		switch err {
		case util.ErrCourseNotFound:
			util.NotFound(ctx)
		case util.ErrLessonExists:
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}
