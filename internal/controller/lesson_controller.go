package controller

import (
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	CatalogService *service.CatalogService
}

func NewLessonController(catalogService *service.CatalogService) *LessonController {
	return &LessonController{CatalogService: catalogService}
}

// @Summary Lesson detail
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response{data=util.NotFoundData}
// @Router /lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lesson, err := c.CatalogService.Lesson(util.LearnerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "lesson", util.BackFeed)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Share lesson
// @Description Title, text and URL for a share sheet or the clipboard
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} util.Response{data=service.SharePayload}
// @Router /share/lesson/{id} [get]
func (c *LessonController) ShareLesson(ctx *gin.Context) {
	payload, err := c.CatalogService.ShareLesson(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "lesson", util.BackFeed)
		return
	}
	util.Success(ctx, payload)
}

// @Summary Explore collections
// @Description Searches course collections by title or description, level and topics
// @Tags lessons
// @Produce json
// @Param q query string false "Search text"
// @Param level query string false "Level" Enums(Beginner, Intermediate, Advanced)
// @Param topics query string false "Comma separated topics"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} util.Response{data=catalog.SearchResult}
// @Router /explore [get]
func (c *LessonController) Explore(ctx *gin.Context) {
	var req service.ExploreRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.CatalogService.Explore(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
