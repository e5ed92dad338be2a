package controller

import (
	"fmt"
	"net/http"

	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotesController struct {
	NotesService *service.NotesService
}

func NewNotesController(notesService *service.NotesService) *NotesController {
	return &NotesController{NotesService: notesService}
}

// @Summary Lesson notes
// @Tags notes
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Notes}
// @Failure 404 {object} util.Response{data=util.NotFoundData}
// @Router /notes/{lessonId} [get]
func (c *NotesController) Get(ctx *gin.Context) {
	notes, err := c.NotesService.Get(ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err, "notes", util.BackFeed)
		return
	}
	util.Success(ctx, notes)
}

// @Summary Download notes
// @Description Plain-text rendering of the notes as an attachment
// @Tags notes
// @Produce plain
// @Param lessonId path string true "Lesson ID"
// @Success 200 {string} string
// @Router /notes/{lessonId}/download [get]
func (c *NotesController) Download(ctx *gin.Context) {
	dl, err := c.NotesService.Download(ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err, "notes", util.BackFeed)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.FileName))
	ctx.Data(http.StatusOK, util.MimeTextPlain, []byte(dl.Content))
}

// @Summary Export notes
// @Description Stores the rendered notes in object storage and returns the link
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=service.NotesExport}
// @Failure 502 {object} util.Response
// @Router /notes/{lessonId}/export [post]
func (c *NotesController) Export(ctx *gin.Context) {
	id, ok := learnerID(ctx)
	if !ok {
		return
	}
	exp, err := c.NotesService.Export(ctx.Request.Context(), id, ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err, "notes", util.BackFeed)
		return
	}
	util.Success(ctx, exp)
}

// @Summary Share notes
// @Tags notes
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=service.SharePayload}
// @Router /notes/{lessonId}/share [get]
func (c *NotesController) Share(ctx *gin.Context) {
	payload, err := c.NotesService.Share(ctx.Param("lessonId"))
	if err != nil {
		respondError(ctx, err, "notes", util.BackFeed)
		return
	}
	util.Success(ctx, payload)
}
