package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/services"
	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/teardown"
	"github.com/contexthub-dev/contexthub/internal/types"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateAccountRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=8"`
}

func (h *Handler) GetAccount(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		h.logger.Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			AvatarPath: user.AvatarPath,
		},
	})
}

func (h *Handler) UpdateAccount(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var dbUser models.User

	if err := h.db.First(&dbUser, userID).Error; err != nil {
		h.logger.Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var updateReq UpdateAccountRequest

	if err := ctx.BindJSON(&updateReq); err != nil {
		h.logger.Warn("failed to bind JSON", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if updateReq.Name != "" {
		updates["name"] = strings.TrimSpace(updateReq.Name)
	}

	if strings.TrimSpace(updateReq.Email) != "" {
		newEmail, err := normalizeEmail(updateReq.Email)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}

		if newEmail != dbUser.Email {
			var existingUser models.User
			err := h.db.Where("email = ? AND id != ?", newEmail, dbUser.ID).First(&existingUser).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				h.logger.Error("database error when checking existing email", zap.Error(err))
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
		}

		updates["email"] = newEmail
	}

	if updateReq.NewPassword != "" {
		if updateReq.CurrentPassword == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is required to change password"})
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(updateReq.CurrentPassword))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(updateReq.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error("failed to hash new password", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		updates["password_hash"] = string(passwordHash)
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := h.db.Model(&dbUser).Updates(updates).Error; err != nil {
		h.logger.Error("failed to update user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.db.First(&dbUser, dbUser.ID).Error; err != nil {
		h.logger.Error("failed to refresh user data", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Account updated successfully",
		"user": types.UserResponse{
			ID:         dbUser.ID,
			Name:       dbUser.Name,
			Email:      dbUser.Email,
			AvatarPath: dbUser.AvatarPath,
		},
	})
}

// DeleteAccount removes the caller's account and everything it owns. The
// principal id comes from the session, never from request parameters. No
// request body is read.
func (h *Handler) DeleteAccount(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	email := ""

	if err := h.db.First(&user, userID).Error; err == nil {
		email = user.Email
	}

	result, err := h.teardown.Teardown(ctx.Request.Context(), userID)

	if err != nil {
		if errors.Is(err, teardown.ErrNotFound) {
			session.ClearCookies(ctx.Writer)
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	session.ClearCookies(ctx.Writer)

	if h.opsWebhook != "" {
		if err := services.SendAccountDeletedNotification(h.opsWebhook, userID, email); err != nil {
			h.logger.Warn("ops notification failed", zap.Error(err))
		}
	}

	response := gin.H{"message": "Account deleted successfully"}

	if len(result.Warnings) > 0 {
		response["warnings"] = result.Warnings
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) UploadAvatar(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var dbUser models.User

	if err := h.db.First(&dbUser, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		h.logger.Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	fileHeader, err := ctx.FormFile("avatar")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image format"})
		return
	}

	file, err := fileHeader.Open()

	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	defer file.Close()

	path, err := h.avatars.Save(dbUser.ID, ext, file)

	if err != nil {
		h.logger.Error("failed to store avatar", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	previous := dbUser.AvatarPath

	if err := h.db.Model(&dbUser).Update("avatar_path", path).Error; err != nil {
		h.logger.Error("failed to update avatar path", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if previous != "" && previous != path && h.avatars.Contains(previous) {
		if err := h.avatars.Remove(previous); err != nil {
			h.logger.Warn("failed to remove previous avatar", zap.String("path", previous), zap.Error(err))
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"avatar_path": path})
}
