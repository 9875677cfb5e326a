// Package teardown removes an account and everything it owns as a single
// all-or-nothing operation.
package teardown

import (
	"context"
	"errors"
	"fmt"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the session's owner no longer exists; any sessions
	// still referencing the id have been purged.
	ErrNotFound = errors.New("account not found")

	// ErrTeardownFailed means the cascade rolled back; no data changed.
	ErrTeardownFailed = errors.New("account teardown failed")
)

// Result reports the outcome of a successful teardown. Warnings cover
// best-effort cleanup that failed without affecting the outcome.
type Result struct {
	Warnings []string
}

type Service struct {
	db      *gorm.DB
	avatars *storage.AvatarStore
	logger  *zap.Logger
}

func NewService(gdb *gorm.DB, avatars *storage.AvatarStore, logger *zap.Logger) *Service {
	return &Service{db: gdb, avatars: avatars, logger: logger}
}

// Teardown deletes the user and its entire owned subtree, bottom-up, inside
// one transaction: server configs and custom server configs, then API keys,
// profiles, projects, auth linkages, sessions, and finally the user row.
// After the commit the avatar file is removed best-effort.
func (s *Service) Teardown(ctx context.Context, userID uint) (Result, error) {
	// A client disconnect must not abort the cascade mid-flight; partial
	// deletion is never acceptable.
	ctx = context.WithoutCancel(ctx)

	var result Result

	var user models.User

	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
				return result, fmt.Errorf("%w: purging orphan sessions: %v", ErrTeardownFailed, err)
			}
			return result, ErrNotFound
		}
		return result, fmt.Errorf("%w: %v", ErrTeardownFailed, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint

		if err := tx.Model(&models.Project{}).Where("owner_id = ?", user.ID).Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		var profileIDs []uint

		if len(projectIDs) > 0 {
			if err := tx.Model(&models.Profile{}).Where("project_id IN ?", projectIDs).Pluck("id", &profileIDs).Error; err != nil {
				return err
			}
		}

		if len(profileIDs) > 0 {
			if err := tx.Where("profile_id IN ?", profileIDs).Delete(&models.ServerConfig{}).Error; err != nil {
				return err
			}

			if err := tx.Where("profile_id IN ?", profileIDs).Delete(&models.CustomServerConfig{}).Error; err != nil {
				return err
			}
		}

		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.APIKey{}).Error; err != nil {
				return err
			}

			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Profile{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("owner_id = ?", user.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.AuthLinkage{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, user.ID).Error
	})

	if err != nil {
		s.logger.Error("account teardown rolled back",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
		return result, fmt.Errorf("%w: %v", ErrTeardownFailed, err)
	}

	if user.AvatarPath != "" && s.avatars.Contains(user.AvatarPath) {
		if err := s.avatars.Remove(user.AvatarPath); err != nil {
			s.logger.Warn("avatar cleanup failed",
				zap.Uint("user_id", user.ID),
				zap.String("path", user.AvatarPath),
				zap.Error(err))
			result.Warnings = append(result.Warnings, "avatar file could not be removed")
		}
	}

	s.logger.Info("account deleted", zap.Uint("user_id", user.ID))

	return result, nil
}
