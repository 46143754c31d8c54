package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
	jwtpkg "github.com/geoexplorer/core/internal/pkg/jwt"
)

const (
	// AccessTTL is the lifetime of a signed access token.
	AccessTTL = 24 * time.Hour
	// DefaultTTL is the lifetime of the server-side session (refresh window).
	DefaultTTL = 30 * 24 * time.Hour
)

// Tokens is the credential pair handed to a client on login or refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue creates a DB session and signs an access token bound to it.
func Issue(db *gorm.DB, userID, ip, ua string, ttl time.Duration) (*Tokens, *models.UserSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, nil, err
	}

	s := &models.UserSession{
		UserID:       userID,
		RefreshToken: refresh,
		IP:           strings.TrimSpace(ip),
		UA:           strings.TrimSpace(ua),
		ExpiresAt:    time.Now().Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return nil, nil, err
	}

	access, err := jwtpkg.Sign(userID, s.ID, AccessTTL)
	if err != nil {
		_ = db.Delete(s).Error
		return nil, nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, s, nil
}

// IsActive reports whether the session the token was bound to is still live.
func IsActive(db *gorm.DB, userID, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := db.Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Refresh exchanges a live refresh token for a new token pair. The refresh
// token is rotated; the old one stops working.
func Refresh(db *gorm.DB, refreshToken string) (*Tokens, *models.UserSession, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, nil, gorm.ErrRecordNotFound
	}

	var s models.UserSession
	err := db.Where("refresh_token = ? AND revoked_at IS NULL AND expires_at > ?", refreshToken, time.Now()).
		First(&s).Error
	if err != nil {
		return nil, nil, err
	}

	rotated, err := newRefreshToken()
	if err != nil {
		return nil, nil, err
	}
	if err := db.Model(&s).Update("refresh_token", rotated).Error; err != nil {
		return nil, nil, err
	}
	s.RefreshToken = rotated

	access, err := jwtpkg.Sign(s.UserID, s.ID, AccessTTL)
	if err != nil {
		return nil, nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: rotated}, &s, nil
}

// Touch bumps the session's updated_at so active sessions sort first.
func Touch(db *gorm.DB, userID, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	_ = db.Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, time.Now()).
		Update("updated_at", time.Now()).Error
}

// Revoke marks a single session as logged out.
func Revoke(db *gorm.DB, userID, sessionID string) error {
	now := time.Now()
	res := db.Model(&models.UserSession{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", sessionID, userID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAll logs the user out everywhere.
func RevokeAll(db *gorm.DB, userID string) error {
	now := time.Now()
	return db.Model(&models.UserSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
}
