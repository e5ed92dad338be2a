package controller

import (
	"errors"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/feed"
	"syntax_feed_backend/internal/grader"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

var badRequestErrors = []error{
	feed.ErrNoSelection,
	feed.ErrInvalidOption,
	feed.ErrNotQuiz,
	feed.ErrOutOfRange,
	feed.ErrEmptyFeed,
	util.ErrInvalidReason,
	util.ErrInvalidSort,
	util.ErrUnknownOption,
	util.ErrNotVideoLesson,
	grader.ErrEmptyCode,
	grader.ErrUnsupportedLanguage,
}

// respondError maps service errors onto the response envelope. what and back
// describe the resource for 404s, e.g. "lesson" and "/explore".
func respondError(ctx *gin.Context, err error, what, back string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		util.NotFoundBack(ctx, what, back)
	case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, feed.ErrControllerClosed):
		util.NotFoundBack(ctx, "feed session", "/")
	case errors.Is(err, feed.ErrLessonNotInFeed):
		util.NotFoundBack(ctx, "lesson", "/")
	case errors.Is(err, util.ErrLearnerNotFound):
		util.NotFoundBack(ctx, "learner", "/")
	case errors.Is(err, util.ErrSessionForbidden):
		util.Forbidden(ctx)
	case errors.Is(err, feed.ErrAlreadyAnswered),
		errors.Is(err, util.ErrWorkshopFull),
		errors.Is(err, util.ErrAlreadyRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrStorageUnavailable), errors.Is(err, grader.ErrGraderUnavailable):
		util.BadGateway(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// learnerID returns the learner set by the session middleware. Routes using
// it are always behind that middleware.
func learnerID(ctx *gin.Context) (string, bool) {
	id := util.LearnerID(ctx)
	if id == "" {
		util.Unauthorized(ctx)
		return "", false
	}
	return id, true
}

func intParam(ctx *gin.Context, name string) (int, bool) {
	v, err := util.ParseNonNegativeInt(name, ctx.Param(name))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return 0, false
	}
	return v, true
}

// bindOptionalJSON binds a body when one was sent.
func bindOptionalJSON(ctx *gin.Context, obj interface{}) bool {
	if ctx.Request.ContentLength == 0 {
		return true
	}
	if err := ctx.ShouldBindJSON(obj); err != nil {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
