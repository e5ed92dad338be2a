package app

import (
	"syntax_feed_backend/docs"
	"syntax_feed_backend/internal/middleware"
	"syntax_feed_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public, a session is picked up when present
	public := router.Group("/api")
	public.Use(middleware.OptionalSession(s.session))
	a.registerPublicRoutes(public, c)

	// 2. learner routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.SessionMiddleware(s.session))
	{
		a.registerFeedRoutes(authGroup, c)
		a.registerLearnerRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(public *gin.RouterGroup, c *controllers) {
	public.GET("/health", c.health.HealthCheck)
	public.POST("/session", c.session.Create)

	public.GET("/lessons/:id", c.lesson.GetLesson)
	public.GET("/share/lesson/:id", c.lesson.ShareLesson)
	public.GET("/explore", c.lesson.Explore)

	public.GET("/courses", c.course.List)
	public.GET("/courses/:id", c.course.Detail)
	public.GET("/courses/:id/lessons/:lessonId/video", c.course.Video)

	public.GET("/notes/:lessonId", c.notes.Get)
	public.GET("/notes/:lessonId/download", c.notes.Download)
	public.GET("/notes/:lessonId/share", c.notes.Share)

	public.GET("/practice/exercises", c.practice.List)
	public.GET("/practice/exercises/:id", c.practice.Get)
	public.POST("/practice/exercises/:id/hint", c.practice.Hint)

	public.GET("/workshops", c.community.Workshops)
}

func (a *App) registerFeedRoutes(group *gin.RouterGroup, c *controllers) {
	feed := group.Group("/feed")
	{
		feed.POST("", c.feed.Open)
		feed.GET("/:sid", c.feed.State)
		feed.DELETE("/:sid", c.feed.Close)
		feed.GET("/:sid/current", c.feed.Current)
		feed.POST("/:sid/next", c.feed.Next)
		feed.POST("/:sid/prev", c.feed.Prev)
		feed.POST("/:sid/goto", c.feed.Goto)
		feed.POST("/:sid/visible", c.feed.Visible)
		feed.POST("/:sid/quiz/:pos/answer", c.feed.Answer)
		feed.POST("/:sid/quiz/:pos/skip", c.feed.Skip)
		feed.POST("/:sid/lessons/:lessonId/like", c.feed.Like)
		feed.POST("/:sid/lessons/:lessonId/save", c.feed.Save)
		feed.GET("/:sid/ws", c.feed.Stream)
	}
}

func (a *App) registerLearnerRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/session", c.session.Me)

	group.POST("/courses/:id/lessons/:lessonId/complete", c.course.Complete)
	group.DELETE("/courses/:id/lessons/:lessonId/complete", c.course.Uncomplete)
	group.GET("/my-courses", c.course.MyCourses)

	group.POST("/notes/:lessonId/export", c.notes.Export)
	group.POST("/practice/exercises/:id/run", c.practice.Run)

	group.GET("/onboarding", c.profile.GetOnboarding)
	group.POST("/onboarding", c.profile.SaveOnboarding)
	group.GET("/settings", c.profile.GetSettings)
	group.PUT("/settings", c.profile.UpdateSettings)
	group.GET("/profile", c.profile.Profile)

	growth := group.Group("/growth")
	{
		growth.GET("/streak", c.growth.Streak)
		growth.GET("/calendar", c.growth.Calendar)
		growth.GET("/achievements", c.growth.Achievements)
		growth.GET("/share", c.growth.Share)
	}

	community := group.Group("/community")
	{
		community.GET("/friends", c.community.Friends)
		community.GET("/suggestions", c.community.Suggestions)
		community.POST("/follow/:id", c.community.ToggleFollow)
	}

	group.POST("/workshops/:id/register", c.community.RegisterWorkshop)
}
