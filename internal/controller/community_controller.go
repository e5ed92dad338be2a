package controller

import (
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	CommunityService *service.CommunityService
	WorkshopService  *service.WorkshopService
}

func NewCommunityController(communityService *service.CommunityService, workshopService *service.WorkshopService) *CommunityController {
	return &CommunityController{CommunityService: communityService, WorkshopService: workshopService}
}

// @Summary Friends
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by name or @handle"
// @Success 200 {object} util.Response{data=[]model.Friend}
// @Router /community/friends [get]
func (c *CommunityController) Friends(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	list, err := c.CommunityService.Friends(id, ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Friend suggestions
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by name or @handle"
// @Success 200 {object} util.Response{data=[]model.Friend}
// @Router /community/suggestions [get]
func (c *CommunityController) Suggestions(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	list, err := c.CommunityService.Suggestions(id, ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Follow or unfollow
// @Tags community
// @Produce json
// @Security BearerAuth
// @Param id path string true "Friend ID"
// @Success 200 {object} util.Response{data=service.FollowResponse}
// @Router /community/follow/{id} [post]
func (c *CommunityController) ToggleFollow(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	resp, err := c.CommunityService.ToggleFollow(id, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err, "friend", "/community")
		return
	}
	util.Success(ctx, resp)
}

// @Summary Workshops
// @Description Upcoming live workshops with seat counts
// @Tags community
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Workshop}
// @Router /workshops [get]
func (c *CommunityController) Workshops(ctx *gin.Context) {
	list, err := c.WorkshopService.List(util.LearnerID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Register for workshop
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param body body service.WorkshopRegisterRequest true "Registration form"
// @Success 201 {object} util.Response{data=model.Workshop}
// @Failure 409 {object} util.Response
// @Router /workshops/{id}/register [post]
func (c *CommunityController) RegisterWorkshop(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	var req service.WorkshopRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ws, err := c.WorkshopService.Register(id, ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err, "workshop", "/community")
		return
	}
	util.Created(ctx, ws)
}
