package controller

import (
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary Onboarding status
// @Description Whether onboarding was completed, the saved answers and the selectable options
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.OnboardingStatus}
// @Router /onboarding [get]
func (c *ProfileController) GetOnboarding(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	status, err := c.ProfileService.GetOnboarding(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// @Summary Save onboarding
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.OnboardingRequest true "Skill level, languages and goals"
// @Success 200 {object} util.Response{data=model.OnboardingProfile}
// @Router /onboarding [post]
func (c *ProfileController) SaveOnboarding(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	var req service.OnboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ProfileService.SaveOnboarding(id, req)
	if err != nil {
		respondError(ctx, err, "onboarding", util.BackFeed)
		return
	}
	util.Success(ctx, p)
}

// @Summary Get settings
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.LearnerSettings}
// @Router /settings [get]
func (c *ProfileController) GetSettings(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	st, err := c.ProfileService.GetSettings(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// @Summary Update settings
// @Description Partial update; omitted fields keep their value
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SettingsRequest true "Settings"
// @Success 200 {object} util.Response{data=model.LearnerSettings}
// @Router /settings [put]
func (c *ProfileController) UpdateSettings(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	var req service.SettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	st, err := c.ProfileService.UpdateSettings(id, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// @Summary Profile
// @Description Learner, liked and saved lessons, stats and streak
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProfileResponse}
// @Router /profile [get]
func (c *ProfileController) Profile(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	p, err := c.ProfileService.Profile(id)
	if err != nil {
		respondError(ctx, err, "learner", util.BackFeed)
		return
	}
	util.Success(ctx, p)
}
