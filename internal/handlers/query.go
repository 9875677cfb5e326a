package handlers

import (
	"net/http"

	"github.com/contexthub-dev/contexthub/internal/rag"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	TopK      int    `json:"top_k" binding:"omitempty,min=1,max=50"`
	ProjectID uint   `json:"project_id" binding:"required"`
}

// Query validates the request, checks project ownership and delegates to
// the retrieval service.
func (h *Handler) Query(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req QueryRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.projectForOwner(ctx, uint64(req.ProjectID), userID); !ok {
		return
	}

	resp, err := h.rag.Query(ctx.Request.Context(), rag.QueryRequest{
		Query:     req.Query,
		TopK:      req.TopK,
		ProjectID: req.ProjectID,
	})

	if err != nil {
		h.logger.Error("retrieval query failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Retrieval service unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
