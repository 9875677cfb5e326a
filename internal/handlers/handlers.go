package handlers

import (
	"errors"
	"net/http"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/rag"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/storage"
	"github.com/contexthub-dev/contexthub/internal/teardown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler carries the collaborators every endpoint needs. Nothing is
// package-global so tests can run against in-memory substitutes.
type Handler struct {
	db         *gorm.DB
	sessions   *session.Store
	avatars    *storage.AvatarStore
	rag        *rag.Client
	teardown   *teardown.Service
	logger     *zap.Logger
	opsWebhook string
}

func New(gdb *gorm.DB, sessions *session.Store, avatars *storage.AvatarStore, ragClient *rag.Client, td *teardown.Service, logger *zap.Logger, opsWebhook string) *Handler {
	return &Handler{
		db:         gdb,
		sessions:   sessions,
		avatars:    avatars,
		rag:        ragClient,
		teardown:   td,
		logger:     logger,
		opsWebhook: opsWebhook,
	}
}

// projectForOwner loads a project scoped to its owner, writing the error
// response itself when the lookup fails.
func (h *Handler) projectForOwner(ctx *gin.Context, projectID uint64, userID uint) (models.Project, bool) {
	var project models.Project

	if err := h.db.Where("id = ? AND owner_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return models.Project{}, false
	}

	return project, true
}

// profileForOwner loads a profile scoped to the owning user through the
// project join.
func (h *Handler) profileForOwner(ctx *gin.Context, projectID, profileID uint64, userID uint) (models.Profile, bool) {
	var profile models.Profile

	if err := h.db.Joins("JOIN projects ON projects.id = profiles.project_id").
		Where("profiles.id = ? AND profiles.project_id = ? AND projects.owner_id = ?", profileID, projectID, userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return models.Profile{}, false
	}

	return profile, true
}
