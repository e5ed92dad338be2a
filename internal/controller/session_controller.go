package controller

import (
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// @Summary Create guest session
// @Description Registers an anonymous learner and returns a signed session token
// @Tags session
// @Accept json
// @Produce json
// @Param session body service.SessionRequest false "Display name"
// @Success 201 {object} util.Response{data=service.SessionResponse}
// @Router /session [post]
func (c *SessionController) Create(ctx *gin.Context) {
	var req service.SessionRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	resp, err := c.SessionService.CreateGuest(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// @Summary Current learner
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Learner}
// @Router /session [get]
func (c *SessionController) Me(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	learner, err := c.SessionService.Learner(id)
	if err != nil {
		respondError(ctx, err, "learner", util.BackFeed)
		return
	}
	util.Success(ctx, learner)
}
