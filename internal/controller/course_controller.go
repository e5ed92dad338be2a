package controller

import (
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	VideoService  *service.VideoService
}

func NewCourseController(courseService *service.CourseService, videoService *service.VideoService) *CourseController {
	return &CourseController{CourseService: courseService, VideoService: videoService}
}

// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	util.Success(ctx, c.CourseService.List())
}

// @Summary Course detail
// @Description Course with its curriculum. Completion flags are filled in for a known learner.
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response{data=util.NotFoundData}
// @Router /courses/{id} [get]
func (c *CourseController) Detail(ctx *gin.Context) {
	detail, err := c.CourseService.Detail(util.LearnerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "course", util.BackCourses)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Mark lesson complete
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param lessonId path int true "Curriculum lesson ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Router /courses/{id}/lessons/{lessonId}/complete [post]
func (c *CourseController) Complete(ctx *gin.Context) {
	c.setComplete(ctx, true)
}

// @Summary Mark lesson incomplete
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param lessonId path int true "Curriculum lesson ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Router /courses/{id}/lessons/{lessonId}/complete [delete]
func (c *CourseController) Uncomplete(ctx *gin.Context) {
	c.setComplete(ctx, false)
}

func (c *CourseController) setComplete(ctx *gin.Context, done bool) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	lessonID, ok := intParam(ctx, "lessonId")
	if !ok {
		return
	}
	detail, err := c.CourseService.SetComplete(id, ctx.Param("id"), lessonID, done)
	if err != nil {
		respondError(ctx, err, "course lesson", util.BackCourses)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Video metadata
// @Description URL of a video lesson, with probed duration and size when the file is stored locally
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Param lessonId path int true "Curriculum lesson ID"
// @Success 200 {object} util.Response{data=service.VideoMetadata}
// @Router /courses/{id}/lessons/{lessonId}/video [get]
func (c *CourseController) Video(ctx *gin.Context) {
	lessonID, ok := intParam(ctx, "lessonId")
	if !ok {
		return
	}
	meta, err := c.VideoService.Metadata(ctx.Param("id"), lessonID)
	if err != nil {
		respondError(ctx, err, "course lesson", util.BackCourses)
		return
	}
	util.Success(ctx, meta)
}

// @Summary My courses
// @Description Courses with at least one completed lesson
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param sort query string false "Sort order" Enums(recent, progress, alphabetical) default(recent)
// @Success 200 {object} util.Response{data=[]service.EnrolledCourse}
// @Router /my-courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	list, err := c.CourseService.MyCourses(id, ctx.Query("sort"))
	if err != nil {
		respondError(ctx, err, "course", util.BackCourses)
		return
	}
	util.Success(ctx, list)
}
