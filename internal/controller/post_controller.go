package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	PostService *service.PostService
}

func NewPostController(postService *service.PostService) *PostController {
	return &PostController{PostService: postService}
}

// Create godoc
// @Summary Post to a community timeline
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Param body body service.PostRequest true "post payload"
// @Success 201 {object} util.Response
// @Router /api/v1/communities/{id}/posts [post]
func (c *PostController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.PostService.Create(claims.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, post)
}

// ListByCommunity godoc
// @Summary Community timeline, newest first
// @Tags posts
// @Produce json
// @Param id path int true "community id"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/posts [get]
func (c *PostController) ListByCommunity(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	posts, total, err := c.PostService.ListByCommunity(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessPaginated(ctx, posts, page, limit, total)
}

// Get godoc
// @Summary Post detail
// @Description Counts the view through the buffered counter
// @Tags posts
// @Produce json
// @Param postId path string true "post id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/posts/{postId} [get]
func (c *PostController) Get(ctx *gin.Context) {
	post, err := c.PostService.Get(ctx.Request.Context(), ctx.Param("postId"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, post)
}

// Update godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "post id"
// @Param body body service.PostRequest true "post payload"
// @Success 200 {object} util.Response
// @Router /api/v1/posts/{postId} [put]
func (c *PostController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.PostService.Update(claims.UserID, claims.Role, ctx.Param("postId"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, post)
}

// Delete godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path string true "post id"
// @Success 200 {object} util.Response
// @Router /api/v1/posts/{postId} [delete]
func (c *PostController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.PostService.Delete(claims.UserID, claims.Role, ctx.Param("postId")); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
