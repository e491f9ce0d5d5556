package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// Create godoc
// @Summary Review a community
// @Description One review per user and community; recomputes the average rating
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Param body body service.ReviewRequest true "review payload"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/communities/{id}/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Create(claims.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, review)
}

// ListByCommunity godoc
// @Summary Reviews of a community
// @Tags reviews
// @Produce json
// @Param id path int true "community id"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/reviews [get]
func (c *ReviewController) ListByCommunity(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	reviews, total, err := c.ReviewService.ListByCommunity(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessPaginated(ctx, reviews, page, limit, total)
}

// Update godoc
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "review id"
// @Param body body service.ReviewRequest true "review payload"
// @Success 200 {object} util.Response
// @Router /api/v1/reviews/{reviewId} [put]
func (c *ReviewController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Update(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("reviewId")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// Delete godoc
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "review id"
// @Success 200 {object} util.Response
// @Router /api/v1/reviews/{reviewId} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.ReviewService.Delete(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("reviewId"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
