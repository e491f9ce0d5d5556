package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	CommunityService *service.CommunityService
}

func NewCommunityController(communityService *service.CommunityService) *CommunityController {
	return &CommunityController{CommunityService: communityService}
}

// Create godoc
// @Summary Create a community
// @Description Publisher/admin only; a publisher may own at most one community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CommunityRequest true "community payload"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/communities [post]
func (c *CommunityController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	community, err := c.CommunityService.Create(claims.UserID, claims.Role, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, community)
}

// List godoc
// @Summary Browse communities
// @Tags communities
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param topic query string false "topic name filter"
// @Param search query string false "name search"
// @Success 200 {object} util.Response
// @Router /api/v1/communities [get]
func (c *CommunityController) List(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	communities, total, err := c.CommunityService.List(page, limit, ctx.Query("topic"), ctx.Query("search"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessPaginated(ctx, communities, page, limit, total)
}

// Get godoc
// @Summary Community detail
// @Tags communities
// @Produce json
// @Param id path int true "community id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/communities/{id} [get]
func (c *CommunityController) Get(ctx *gin.Context) {
	community, err := c.CommunityService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, community)
}

// Update godoc
// @Summary Update a community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Param body body service.CommunityRequest true "community payload"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id} [put]
func (c *CommunityController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	community, err := c.CommunityService.Update(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, community)
}

// Delete godoc
// @Summary Delete a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id} [delete]
func (c *CommunityController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.CommunityService.Delete(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadPhoto godoc
// @Summary Upload the community photo
// @Tags communities
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Param photo formData file true "image file"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/photo [post]
func (c *CommunityController) UploadPhoto(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		util.BadRequest(ctx, "photo file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !util.IsImage(contentType) {
		util.BadRequest(ctx, "photo must be an image")
		return
	}

	community, err := c.CommunityService.UploadPhoto(ctx.Request.Context(),
		claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")),
		fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, community)
}

// DeletePhoto godoc
// @Summary Remove the community photo
// @Description Idempotent: deleting an absent photo succeeds
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/photo [delete]
func (c *CommunityController) DeletePhoto(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.CommunityService.DeletePhoto(ctx.Request.Context(), claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type TransferOwnershipRequest struct {
	NewOwnerID uint `json:"newOwnerId" binding:"required"`
}

// TransferOwnership godoc
// @Summary Transfer community ownership (admin)
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "community id"
// @Param body body TransferOwnershipRequest true "new owner"
// @Success 200 {object} util.Response
// @Router /api/v1/communities/{id}/transfer [post]
func (c *CommunityController) TransferOwnership(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req TransferOwnershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	community, err := c.CommunityService.TransferOwnership(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")), req.NewOwnerID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, community)
}
