package handlers

import (
	"net/http"

	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListDocuments(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := h.projectForOwner(ctx, projectID, userID)

	if !ok {
		return
	}

	documents, err := h.rag.Documents(ctx.Request.Context(), project.ID)

	if err != nil {
		h.logger.Error("failed to list documents", zap.Uint("project_id", project.ID), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Retrieval service unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"documents": documents})
}

func (h *Handler) GetQuota(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := h.projectForOwner(ctx, projectID, userID)

	if !ok {
		return
	}

	quota, err := h.rag.Quota(ctx.Request.Context(), project.ID)

	if err != nil {
		h.logger.Error("failed to fetch quota", zap.Uint("project_id", project.ID), zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Retrieval service unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, quota)
}
