package controller

import (
	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedController struct {
	FeedService *service.FeedService
	Hub         *service.FeedHub
}

func NewFeedController(feedService *service.FeedService, hub *service.FeedHub) *FeedController {
	return &FeedController{FeedService: feedService, Hub: hub}
}

// @Summary Open feed
// @Description Builds a feed of lessons, quizzes and ads for the learner and opens a session on it
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response{data=service.OpenFeedResponse}
// @Router /feed [post]
func (c *FeedController) Open(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	resp, err := c.FeedService.Open(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// @Summary Feed state
// @Description Items, current index and answered quizzes. Status is "loading" while the feed is empty.
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Success 200 {object} util.Response{data=feed.State}
// @Failure 404 {object} util.Response
// @Router /feed/{sid} [get]
func (c *FeedController) State(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	st, err := c.FeedService.State(ctx.Param("sid"), id)
	if err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, st)
}

// @Summary Current item
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Success 200 {object} util.Response{data=service.CurrentItem}
// @Router /feed/{sid}/current [get]
func (c *FeedController) Current(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	cur, err := c.FeedService.Current(ctx.Param("sid"), id)
	if err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, cur)
}

// @Summary Next item
// @Description Moves one item forward. At the end of the feed moved is false.
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param body body service.NavigateRequest false "Reason"
// @Success 200 {object} util.Response{data=service.NavigationResult}
// @Router /feed/{sid}/next [post]
func (c *FeedController) Next(ctx *gin.Context) {
	c.navigate(ctx, func(sid, learner string, req service.NavigateRequest) (*service.NavigationResult, error) {
		return c.FeedService.Next(sid, learner, req.Reason)
	})
}

// @Summary Previous item
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param body body service.NavigateRequest false "Reason"
// @Success 200 {object} util.Response{data=service.NavigationResult}
// @Router /feed/{sid}/prev [post]
func (c *FeedController) Prev(ctx *gin.Context) {
	c.navigate(ctx, func(sid, learner string, req service.NavigateRequest) (*service.NavigationResult, error) {
		return c.FeedService.Prev(sid, learner, req.Reason)
	})
}

// @Summary Go to item
// @Description Jumps to index, clamped to the feed
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param body body service.NavigateRequest true "Target index and reason"
// @Success 200 {object} util.Response{data=service.NavigationResult}
// @Router /feed/{sid}/goto [post]
func (c *FeedController) Goto(ctx *gin.Context) {
	c.navigate(ctx, func(sid, learner string, req service.NavigateRequest) (*service.NavigationResult, error) {
		if req.Index == nil {
			return nil, feed.ErrOutOfRange
		}
		return c.FeedService.Goto(sid, learner, *req.Index, req.Reason)
	})
}

func (c *FeedController) navigate(ctx *gin.Context, move func(sid, learner string, req service.NavigateRequest) (*service.NavigationResult, error)) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	var req service.NavigateRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}
	res, err := move(ctx.Param("sid"), id, req)
	if err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, res)
}

// @Summary Report visibility
// @Description Records that an item was seen. Advisory only, never moves the index.
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param body body service.VisibilityRequest true "Index and intersection ratio"
// @Success 200 {object} util.Response
// @Router /feed/{sid}/visible [post]
func (c *FeedController) Visible(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	var req service.VisibilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	recorded, err := c.FeedService.Visible(ctx.Param("sid"), id, req)
	if err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, gin.H{"recorded": recorded})
}

// @Summary Answer quiz
// @Description Grades the quiz at pos. The feed advances automatically after a short delay.
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param pos path int true "Quiz position in the feed"
// @Param body body service.AnswerRequest true "Selected option"
// @Success 200 {object} util.Response{data=feed.QuizResult}
// @Failure 409 {object} util.Response
// @Router /feed/{sid}/quiz/{pos}/answer [post]
func (c *FeedController) Answer(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	pos, ok := intParam(ctx, "pos")
	if !ok {
		return
	}
	var req service.AnswerRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}
	res, err := c.FeedService.Answer(ctx.Param("sid"), id, pos, req.Selected)
	if err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, res)
}

// @Summary Skip quiz
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param pos path int true "Quiz position in the feed"
// @Success 200 {object} util.Response{data=service.SkipResponse}
// @Router /feed/{sid}/quiz/{pos}/skip [post]
func (c *FeedController) Skip(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	pos, ok := intParam(ctx, "pos")
	if !ok {
		return
	}
	res, err := c.FeedService.Skip(ctx.Param("sid"), id, pos)
	if err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, res)
}

// @Summary Toggle like
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /feed/{sid}/lessons/{lessonId}/like [post]
func (c *FeedController) Like(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	lesson, err := c.FeedService.ToggleLike(ctx.Param("sid"), id, ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err, "lesson", util.BackFeed)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Toggle save
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /feed/{sid}/lessons/{lessonId}/save [post]
func (c *FeedController) Save(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	lesson, err := c.FeedService.ToggleSave(ctx.Param("sid"), id, ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err, "lesson", util.BackFeed)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Close feed
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Feed session ID"
// @Success 200 {object} util.Response
// @Router /feed/{sid} [delete]
func (c *FeedController) Close(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	if err := c.FeedService.Close(ctx.Param("sid"), id); err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Feed event stream
// @Description Upgrades to a WebSocket streaming INDEX_CHANGED, QUIZ_RESULT and ITEM_UPDATED events. Pass the token as a query parameter.
// @Tags feed
// @Param sid path string true "Feed session ID"
// @Param token query string true "Session token"
// @Success 101
// @Router /feed/{sid}/ws [get]
func (c *FeedController) Stream(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	sid := ctx.Param("sid")
	if err := c.FeedService.Attach(sid, id); err != nil {
		respondError(ctx, err, "feed session", util.BackFeed)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, sid)
}
