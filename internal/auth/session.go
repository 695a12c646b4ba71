package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoSession is returned when a session id is unknown or expired.
var ErrNoSession = errors.New("no valid session")

// Sessions persists login sessions in the same store as everything else,
// keyed by an opaque UUID. There is no background sweeper; expired rows
// are deleted lazily on lookup and once at startup via DeleteExpired.
type Sessions struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewSessions(db *gorm.DB, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Sessions{db: db, ttl: ttl}
}

// TTL returns the session time-to-live, used for the cookie max-age.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create establishes a new session for the user.
func (s *Sessions) Create(userID uint, provider string) (*models.Session, error) {
	if provider == "" {
		provider = ProviderLocal
	}
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Provider:  provider,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Lookup resolves a session id to its user. Expired sessions are removed
// on the way out and reported as ErrNoSession, same as unknown ids.
func (s *Sessions) Lookup(id string) (*models.User, error) {
	if id == "" {
		return nil, ErrNoSession
	}

	var sess models.Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if sess.Expired(time.Now()) {
		_ = s.db.Delete(&models.Session{}, "id = ?", id).Error
		return nil, ErrNoSession
	}

	var user models.User
	if err := s.db.First(&user, sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// user deleted out from under the session
			_ = s.db.Delete(&models.Session{}, "id = ?", id).Error
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("lookup session user: %w", err)
	}

	return &user, nil
}

// Invalidate removes a session. Unknown ids are not an error; logout is
// idempotent.
func (s *Sessions) Invalidate(id string) error {
	if id == "" {
		return nil
	}
	if err := s.db.Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// InvalidateUser removes every session belonging to a user, used when an
// admin deletes the account.
func (s *Sessions) InvalidateUser(userID uint) error {
	if err := s.db.Delete(&models.Session{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("invalidate user sessions: %w", err)
	}
	return nil
}

// DeleteExpired sweeps expired sessions; called once at startup.
func (s *Sessions) DeleteExpired() (int64, error) {
	res := s.db.Delete(&models.Session{}, "expires_at <= ?", time.Now())
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
