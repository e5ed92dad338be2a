package controller

import (
	"strconv"

	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GrowthController struct {
	GrowthService *service.GrowthService
}

func NewGrowthController(growthService *service.GrowthService) *GrowthController {
	return &GrowthController{GrowthService: growthService}
}

// @Summary Streak
// @Tags growth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.StreakData}
// @Router /growth/streak [get]
func (c *GrowthController) Streak(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	streak, err := c.GrowthService.Streak(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, streak)
}

// @Summary Activity calendar
// @Description One entry per day, oldest first, ending today
// @Tags growth
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of days" default(30)
// @Success 200 {object} util.Response{data=[]model.CalendarDay}
// @Router /growth/calendar [get]
func (c *GrowthController) Calendar(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	if days > 366 {
		util.BadRequest(ctx, "days must be at most 366")
		return
	}
	cal, err := c.GrowthService.Calendar(id, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cal)
}

// @Summary Achievements
// @Tags growth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /growth/achievements [get]
func (c *GrowthController) Achievements(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	list, err := c.GrowthService.Achievements(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Share streak
// @Tags growth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SharePayload}
// @Router /growth/share [get]
func (c *GrowthController) Share(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	payload, err := c.GrowthService.ShareStreak(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, payload)
}
