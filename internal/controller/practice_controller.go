package controller

import (
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// @Summary List exercises
// @Tags practice
// @Produce json
// @Param language query string false "Filter by language"
// @Success 200 {object} util.Response{data=[]service.ExerciseSummary}
// @Router /practice/exercises [get]
func (c *PracticeController) List(ctx *gin.Context) {
	list, err := c.PracticeService.List(util.LearnerID(ctx), ctx.Query("language"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Exercise detail
// @Tags practice
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} util.Response{data=service.ExerciseSummary}
// @Failure 404 {object} util.Response{data=util.NotFoundData}
// @Router /practice/exercises/{id} [get]
func (c *PracticeController) Get(ctx *gin.Context) {
	ex, err := c.PracticeService.Get(util.LearnerID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "exercise", util.BackPractice)
		return
	}
	util.Success(ctx, ex)
}

// @Summary Run code
// @Description Grades the code against the exercise's tests. The default grader is a randomized mock.
// @Tags practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param body body service.RunRequest true "Code"
// @Success 200 {object} util.Response{data=grader.Report}
// @Failure 502 {object} util.Response
// @Router /practice/exercises/{id}/run [post]
func (c *PracticeController) Run(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	var req service.RunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	report, err := c.PracticeService.Run(ctx.Request.Context(), id, ctx.Param("id"), req.Code)
	if err != nil {
		respondError(ctx, err, "exercise", util.BackPractice)
		return
	}
	util.Success(ctx, report)
}

// @Summary Next hint
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Exercise ID"
// @Param body body service.HintRequest false "Hints already shown"
// @Success 200 {object} util.Response{data=service.HintResponse}
// @Router /practice/exercises/{id}/hint [post]
func (c *PracticeController) Hint(ctx *gin.Context) {
	var req service.HintRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}
	hint, err := c.PracticeService.Hint(ctx.Param("id"), req.Shown)
	if err != nil {
		respondError(ctx, err, "exercise", util.BackPractice)
		return
	}
	util.Success(ctx, hint)
}
