package handlers

import (
	"net/http"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type ProfileResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ProjectID uint   `json:"project_id"`
}

func (h *Handler) CreateProfile(ctx *gin.Context) {
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

	var body CreateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, ok := h.projectForOwner(ctx, projectID, userID)

	if !ok {
		return
	}

	profile := models.Profile{
		Name:      body.Name,
		ProjectID: project.ID,
	}

	if err := h.db.Create(&profile).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	ctx.JSON(http.StatusCreated, ProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		ProjectID: profile.ProjectID,
	})
}

func (h *Handler) ListProfiles(ctx *gin.Context) {
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

	if _, ok := h.projectForOwner(ctx, projectID, userID); !ok {
		return
	}

	var profiles []models.Profile

	if err := h.db.Where("project_id = ?", projectID).Order("id ASC").Find(&profiles).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profiles"})
		return
	}

	var response []ProfileResponse

	for _, profile := range profiles {
		response = append(response, ProfileResponse{
			ID:        profile.ID,
			Name:      profile.Name,
			ProjectID: profile.ProjectID,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) UpdateProfile(ctx *gin.Context) {
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

	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	profile.Name = body.Name

	if err := h.db.Save(&profile).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	ctx.JSON(http.StatusOK, ProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		ProjectID: profile.ProjectID,
	})
}

func (h *Handler) DeleteProfile(ctx *gin.Context) {
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

	profileID, err := utils.GetProfileID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.ServerConfig{}).Error; err != nil {
			return err
		}

		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.CustomServerConfig{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Profile{}, profile.ID).Error
	})

	if err != nil {
		h.logger.Error("failed to delete profile", zap.Uint("profile_id", profile.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
