package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required"`
}

type APIKeySummary struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

const apiKeyPrefix = "ch_"

func newAPIKeyValue() string {
	return apiKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateAPIKey returns the full key value once; listings only ever expose
// the prefix.
func (h *Handler) CreateAPIKey(ctx *gin.Context) {
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

	var req CreateAPIKeyRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := h.projectForOwner(ctx, projectID, userID)

	if !ok {
		return
	}

	key := models.APIKey{
		ProjectID: project.ID,
		Name:      req.Name,
		Key:       newAPIKeyValue(),
	}

	if err := h.db.Create(&key).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":   key.ID,
		"name": key.Name,
		"key":  key.Key,
	})
}

func (h *Handler) ListAPIKeys(ctx *gin.Context) {
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

	var keys []models.APIKey

	if err := h.db.Where("project_id = ?", project.ID).Order("id ASC").Find(&keys).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve API keys"})
		return
	}

	var response []APIKeySummary

	for _, key := range keys {
		prefix := key.Key
		if len(prefix) > len(apiKeyPrefix)+8 {
			prefix = prefix[:len(apiKeyPrefix)+8]
		}

		response = append(response, APIKeySummary{
			ID:         key.ID,
			Name:       key.Name,
			KeyPrefix:  prefix,
			LastUsedAt: key.LastUsedAt,
			CreatedAt:  key.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) DeleteAPIKey(ctx *gin.Context) {
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

	keyID, err := utils.GetKeyID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := h.projectForOwner(ctx, projectID, userID)

	if !ok {
		return
	}

	res := h.db.Where("id = ? AND project_id = ?", keyID, project.ID).Delete(&models.APIKey{})

	if res.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
