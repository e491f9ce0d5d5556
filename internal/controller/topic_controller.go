package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	TopicService *service.TopicService
}

func NewTopicController(topicService *service.TopicService) *TopicController {
	return &TopicController{TopicService: topicService}
}

// List godoc
// @Summary All topic tags
// @Tags topics
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/topics [get]
func (c *TopicController) List(ctx *gin.Context) {
	topics, err := c.TopicService.List()
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// Create godoc
// @Summary Create a topic tag
// @Tags topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TopicRequest true "topic payload"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/topics [post]
func (c *TopicController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.TopicService.Create(claims.Role, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

type TopicReplaceRequest struct {
	NewTopicID uint `json:"newTopicId" binding:"required"`
}

// Replace godoc
// @Summary Re-point every community from one topic to another (admin)
// @Tags topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "topic id to retire"
// @Param body body TopicReplaceRequest true "replacement topic"
// @Success 200 {object} util.Response
// @Router /api/v1/topics/{id}/replace [post]
func (c *TopicController) Replace(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req TopicReplaceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.TopicService.Replace(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id")), req.NewTopicID); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Remove godoc
// @Summary Delete a topic and strip it from all communities (admin)
// @Tags topics
// @Produce json
// @Security BearerAuth
// @Param id path int true "topic id"
// @Success 200 {object} util.Response
// @Router /api/v1/topics/{id} [delete]
func (c *TopicController) Remove(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.TopicService.Remove(claims.UserID, claims.Role, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
