package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	AuditService *service.AuditService
}

func NewAuditController(auditService *service.AuditService) *AuditController {
	return &AuditController{AuditService: auditService}
}

// List godoc
// @Summary Audit log entries (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param resourceType query string false "filter by resource type"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/admin/audit-logs [get]
func (c *AuditController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	entries, total, err := c.AuditService.List(claims.Role, page, limit, ctx.Query("resourceType"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.SuccessPaginated(ctx, entries, page, limit, total)
}
