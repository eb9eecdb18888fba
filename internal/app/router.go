package app

import (
	"examprep_backend/docs"
	"examprep_backend/internal/config"
	"examprep_backend/internal/middleware"
	"examprep_backend/internal/model"
	"examprep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 课程与课时列表
		authGroup.GET("/courses", c.course.GetCourses)
		authGroup.GET("/courses/:courseId/lessons", c.course.GetLessons)

		// 观看进度与续播
		authGroup.GET("/courses/:courseId/last-watched", c.progress.GetLastWatched)
		authGroup.GET("/courses/:courseId/lessons/:lessonId/progress", c.progress.GetProgress)
		authGroup.PUT("/courses/:courseId/lessons/:lessonId/progress", c.progress.UpdateProgress)
		authGroup.POST("/courses/:courseId/lessons/:lessonId/complete", c.progress.MarkCompleted)
	}

	// 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/courses", c.course.CreateCourse)
		adminGroup.POST("/courses/:courseId/lessons", c.course.CreateLesson)
		adminGroup.POST("/lessons/:lessonId/video", c.content.UploadLessonVideo)
	}
}
