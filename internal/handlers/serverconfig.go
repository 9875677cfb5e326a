package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateServerConfigRequest struct {
	Name   string                 `json:"name" binding:"required"`
	Config map[string]interface{} `json:"config" binding:"required"`
}

type UpdateServerConfigRequest struct {
	Name   string                 `json:"name" binding:"required"`
	Config map[string]interface{} `json:"config" binding:"required"`
}

type CreateCustomServerConfigRequest struct {
	Name    string            `json:"name" binding:"required"`
	Command string            `json:"command" binding:"required"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

func (h *Handler) CreateServerConfig(ctx *gin.Context) {
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

	var req CreateServerConfigRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	configJSON, err := json.Marshal(req.Config)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid config format"})
		return
	}

	config := models.ServerConfig{
		ProfileID: profile.ID,
		Name:      req.Name,
		Config:    configJSON,
	}

	if err := h.db.Create(&config).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create server config"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Server config created successfully", "config_id": config.ID})
}

func (h *Handler) ListServerConfigs(ctx *gin.Context) {
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

	var configs []models.ServerConfig

	if err := h.db.Where("profile_id = ?", profile.ID).Order("id ASC").Find(&configs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve server configs"})
		return
	}

	ctx.JSON(http.StatusOK, configs)
}

func (h *Handler) UpdateServerConfig(ctx *gin.Context) {
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

	configID, err := utils.GetConfigID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateServerConfigRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	var config models.ServerConfig

	if err := h.db.Where("id = ? AND profile_id = ?", configID, profile.ID).First(&config).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Server config not found"})
		return
	}

	configJSON, err := json.Marshal(req.Config)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid config format"})
		return
	}

	config.Name = req.Name
	config.Config = configJSON

	if err := h.db.Save(&config).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update server config"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Server config updated successfully", "config_id": config.ID})
}

func (h *Handler) DeleteServerConfig(ctx *gin.Context) {
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

	configID, err := utils.GetConfigID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	res := h.db.Where("id = ? AND profile_id = ?", configID, profile.ID).Delete(&models.ServerConfig{})

	if res.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete server config"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Server config not found"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) CreateCustomServerConfig(ctx *gin.Context) {
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

	var req CreateCustomServerConfigRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	argsJSON, err := json.Marshal(req.Args)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid args format"})
		return
	}

	envJSON, err := json.Marshal(req.Env)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid env format"})
		return
	}

	config := models.CustomServerConfig{
		ProfileID: profile.ID,
		Name:      req.Name,
		Command:   req.Command,
		Args:      argsJSON,
		Env:       envJSON,
	}

	if err := h.db.Create(&config).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create custom server config"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Custom server config created successfully", "config_id": config.ID})
}

func (h *Handler) ListCustomServerConfigs(ctx *gin.Context) {
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

	var configs []models.CustomServerConfig

	if err := h.db.Where("profile_id = ?", profile.ID).Order("id ASC").Find(&configs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve custom server configs"})
		return
	}

	ctx.JSON(http.StatusOK, configs)
}

func (h *Handler) DeleteCustomServerConfig(ctx *gin.Context) {
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

	configID, err := utils.GetConfigID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, ok := h.profileForOwner(ctx, projectID, profileID, userID)

	if !ok {
		return
	}

	res := h.db.Where("id = ? AND profile_id = ?", configID, profile.ID).Delete(&models.CustomServerConfig{})

	if res.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete custom server config"})
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Custom server config not found"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
