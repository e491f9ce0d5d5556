package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// Create godoc
// @Summary Create a course inside a community
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Param body body service.CourseRequest true "course payload"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/communities/{id}/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// ListByCommunity godoc
// @Summary List courses in a community
// @Tags courses
// @Produce json
// @Param id path int true "community id"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/courses [get]
func (c *CourseController) ListByCommunity(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	courses, total, err := c.CourseService.ListByCommunity(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessPaginated(ctx, courses, page, limit, total)
}

// Get godoc
// @Summary Course detail with lessons
// @Tags courses
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.CourseRequest true "course payload"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.CourseService.Delete(ctx.Request.Context(), claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateLesson godoc
// @Summary Add a lesson to a course
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.LessonRequest true "lesson payload"
// @Success 201 {object} util.Response
// @Router /api/v1/courses/{id}/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.CreateLesson(ctx.Request.Context(), claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param lessonId path int true "lesson id"
// @Param body body service.LessonRequest true "lesson payload"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/lessons/{lessonId} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.UpdateLesson(ctx.Request.Context(), claims.UserID, claims.Role,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("lessonId")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param lessonId path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/lessons/{lessonId} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.CourseService.DeleteLesson(ctx.Request.Context(), claims.UserID, claims.Role,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("lessonId"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadLessonVideo godoc
// @Summary Upload a video for a lesson
// @Description Stores the file and probes its duration server-side
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param lessonId path int true "lesson id"
// @Param video formData file true "video file"
// @Success 200 {object} util.Response
// @Router /api/v1/courses/{id}/lessons/{lessonId}/video [post]
func (c *CourseController) UploadLessonVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	fileHeader, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !util.IsVideo(contentType) {
		util.BadRequest(ctx, "file must be a video")
		return
	}

	lesson, err := c.CourseService.UploadLessonVideo(ctx.Request.Context(), claims.UserID, claims.Role,
		util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Param("lessonId")),
		fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
