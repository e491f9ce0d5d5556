package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetCourseContent godoc
// @Summary Course with lessons and the caller's derived lesson states
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/courses/{id}/content [get]
func (c *ProgressController) GetCourseContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	content, err := c.ProgressService.GetCourseContent(ctx.Request.Context(), claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// GetLesson godoc
// @Summary Single lesson, gated by enrollment and unlock order
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param lessonId path int true "lesson id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/courses/{id}/lessons/{lessonId} [get]
func (c *ProgressController) GetLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	lesson, err := c.ProgressService.GetLesson(claims.UserID, claims.Role,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("lessonId")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// RecordProgress godoc
// @Summary Record lesson progress
// @Description Partial update; absent fields are untouched. Returns the full progress list.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param lessonId path int true "lesson id"
// @Param body body service.ProgressUpdateRequest true "progress fields"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/courses/{id}/lessons/{lessonId}/progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ProgressUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.RecordProgress(claims.UserID, claims.Role,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("lessonId")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetProgress godoc
// @Summary Raw persisted progress list for a course
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	progress, err := c.ProgressService.GetProgress(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// CompleteCourse godoc
// @Summary Mark the course enrollment completed
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/courses/{id}/complete [post]
func (c *ProgressController) CompleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	enrollment, err := c.ProgressService.CompleteCourse(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}
