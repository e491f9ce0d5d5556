package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api/v1")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerCommunityRoutes(authGroup, c)
		a.registerCourseRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

// Browsing surfaces stay open to guests.
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api/v1")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/topics", c.topic.List)

		public.GET("/communities", c.community.List)
		public.GET("/communities/:id", c.community.Get)
		public.GET("/communities/:id/courses", c.course.ListByCommunity)
		public.GET("/communities/:id/reviews", c.review.ListByCommunity)
		public.GET("/communities/:id/posts", c.post.ListByCommunity)

		public.GET("/courses/:id", c.course.Get)
		public.GET("/posts/:postId", c.post.Get)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/users/me", c.user.GetProfile)
	rg.PUT("/users/me", c.user.UpdateProfile)

	rg.GET("/enrollments/my-enrollments", c.enrollment.MyEnrollments)

	rg.POST("/topics", c.topic.Create)
	rg.POST("/topics/:id/replace", c.topic.Replace)
	rg.DELETE("/topics/:id", c.topic.Remove)
}

func (a *App) registerCommunityRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/communities", c.community.Create)
	rg.PUT("/communities/:id", c.community.Update)
	rg.DELETE("/communities/:id", c.community.Delete)
	rg.POST("/communities/:id/photo", c.community.UploadPhoto)
	rg.DELETE("/communities/:id/photo", c.community.DeletePhoto)
	rg.POST("/communities/:id/transfer", c.community.TransferOwnership)

	rg.POST("/communities/:id/enroll", c.enrollment.Join(model.TargetCommunity))
	rg.DELETE("/communities/:id/enroll", c.enrollment.Leave(model.TargetCommunity))
	rg.GET("/communities/:id/enrolled", c.enrollment.Members(model.TargetCommunity))
	rg.GET("/communities/:id/enrollment-status", c.enrollment.Status(model.TargetCommunity))

	rg.POST("/communities/:id/courses", c.course.Create)
	rg.POST("/communities/:id/reviews", c.review.Create)
	rg.POST("/communities/:id/posts", c.post.Create)

	rg.PUT("/reviews/:reviewId", c.review.Update)
	rg.DELETE("/reviews/:reviewId", c.review.Delete)

	rg.PUT("/posts/:postId", c.post.Update)
	rg.DELETE("/posts/:postId", c.post.Delete)
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.PUT("/courses/:id", c.course.Update)
	rg.DELETE("/courses/:id", c.course.Delete)

	rg.POST("/courses/:id/enroll", c.enrollment.Join(model.TargetCourse))
	rg.DELETE("/courses/:id/enroll", c.enrollment.Leave(model.TargetCourse))
	rg.GET("/courses/:id/enrolled", c.enrollment.Members(model.TargetCourse))
	rg.GET("/courses/:id/enrollment-status", c.enrollment.Status(model.TargetCourse))

	rg.GET("/courses/:id/content", c.progress.GetCourseContent)
	rg.GET("/courses/:id/progress", c.progress.GetProgress)
	rg.POST("/courses/:id/complete", c.progress.CompleteCourse)

	rg.POST("/courses/:id/lessons", c.course.CreateLesson)
	rg.GET("/courses/:id/lessons/:lessonId", c.progress.GetLesson)
	rg.PUT("/courses/:id/lessons/:lessonId", c.course.UpdateLesson)
	rg.DELETE("/courses/:id/lessons/:lessonId", c.course.DeleteLesson)
	rg.POST("/courses/:id/lessons/:lessonId/progress", c.progress.RecordProgress)
	rg.POST("/courses/:id/lessons/:lessonId/video", c.course.UploadLessonVideo)
}

// Role enforcement lives in the services; the admin group only adds the role
// gate as an early reject.
func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		admin.DELETE("/users/:id", c.user.DeleteUser)
		admin.GET("/audit-logs", c.audit.List)
	}
}
