package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EnrollmentController serves both enrollment kinds with one handler set;
// the router binds each route with the appropriate target kind.
type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Join godoc
// @Summary Join a community or course
// @Description Idempotent per (user, target): an active duplicate yields 409
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "target id"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/communities/{id}/enroll [post]
func (c *EnrollmentController) Join(kind model.TargetKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := util.GetUserFromContext(ctx)

		enrollment, count, err := c.EnrollmentService.Join(claims.UserID, claims.Role, kind, util.MustParseUint(ctx.Param("id")))
		if err != nil {
			util.FromError(ctx, err)
			return
		}
		util.CreatedWithCount(ctx, enrollment, count)
	}
}

// Leave godoc
// @Summary Leave a community or course
// @Description Self by default; `?userId=` lets the owner or an admin remove another member
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "target id"
// @Param userId query int false "member to remove"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/communities/{id}/enroll [delete]
func (c *EnrollmentController) Leave(kind model.TargetKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := util.GetUserFromContext(ctx)

		count, err := c.EnrollmentService.Leave(claims.UserID, claims.Role, kind,
			util.MustParseUint(ctx.Param("id")), util.MustParseUint(ctx.Query("userId")))
		if err != nil {
			util.FromError(ctx, err)
			return
		}
		util.SuccessWithCount(ctx, nil, count)
	}
}

// Status godoc
// @Summary Caller's enrollment status for a target
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "target id"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/enrollment-status [get]
func (c *EnrollmentController) Status(kind model.TargetKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := util.GetUserFromContext(ctx)

		enrolled, err := c.EnrollmentService.GetStatus(claims.UserID, kind, util.MustParseUint(ctx.Param("id")))
		if err != nil {
			util.FromError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"enrolled": enrolled})
	}
}

// Members godoc
// @Summary Active members of a target (owner/admin)
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "target id"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/communities/{id}/enrolled [get]
func (c *EnrollmentController) Members(kind model.TargetKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := util.GetUserFromContext(ctx)
		page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

		members, total, err := c.EnrollmentService.ListMembers(claims.UserID, claims.Role, kind,
			util.MustParseUint(ctx.Param("id")), page, limit)
		if err != nil {
			util.FromError(ctx, err)
			return
		}
		util.SuccessPaginated(ctx, members, page, limit, total)
	}
}

// MyEnrollments godoc
// @Summary Caller's enrollments, both kinds
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/v1/enrollments/my-enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	enrollments, total, err := c.EnrollmentService.MyEnrollments(claims.UserID, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessPaginated(ctx, enrollments, page, limit, total)
}
