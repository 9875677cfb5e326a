package session

import (
	"errors"
	"time"

	"github.com/contexthub-dev/contexthub/internal/auth"
	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TTL matches the cookie lifetime: seven days.
const TTL = 168 * time.Hour

var ErrInvalidSession = errors.New("invalid or expired session")

// Store manages session rows. Tokens are only accepted while the backing
// row exists, so deleting rows is how sessions get revoked.
type Store struct {
	db *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Create inserts a session row for the user and returns the signed token.
func (s *Store) Create(userID uint) (string, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(TTL),
	}

	if err := s.db.Create(&sess).Error; err != nil {
		return "", err
	}

	return auth.GenerateSessionToken(sess.ID, sess.UserID, sess.ExpiresAt)
}

// Validate checks the token signature and the backing row.
func (s *Store) Validate(token string) (models.Session, error) {
	sessionID, _, err := auth.VerifySessionToken(token)

	if err != nil {
		return models.Session{}, ErrInvalidSession
	}

	var sess models.Session

	if err := s.db.Where("id = ?", sessionID).First(&sess).Error; err != nil {
		return models.Session{}, ErrInvalidSession
	}

	if time.Now().After(sess.ExpiresAt) {
		return models.Session{}, ErrInvalidSession
	}

	return sess, nil
}

func (s *Store) Delete(sessionID string) error {
	return s.db.Where("id = ?", sessionID).Delete(&models.Session{}).Error
}

func (s *Store) DeleteByUser(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// PurgeExpired removes sessions past their expiry and reports how many.
func (s *Store) PurgeExpired() (int64, error) {
	res := s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
