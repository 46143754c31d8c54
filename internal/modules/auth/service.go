package auth

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/models"
	sessionpkg "github.com/geoexplorer/core/internal/pkg/session"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	if dto.Password != dto.Password2 {
		return nil, errPasswordMismatch
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	username := strings.TrimSpace(dto.Username)

	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errEmailTaken
	}
	if err := s.db.Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.UserModel{
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(dto.FirstName),
		LastName:  strings.TrimSpace(dto.LastName),
		Password:  string(hash),
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Login(email, password, ip, ua string) (*sessionpkg.Tokens, *models.UserModel, error) {
	var u models.UserModel
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, nil, errInvalidCredentials
	}

	tokens, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	_ = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error
	u.LastLoginTime = &now
	u.LastLoginIP = ip

	return tokens, &u, nil
}

func (s *Service) Refresh(refreshToken string) (*sessionpkg.Tokens, *models.UserModel, error) {
	tokens, sess, err := sessionpkg.Refresh(s.db, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, err
	}

	var u models.UserModel
	if err := s.db.First(&u, "id = ?", sess.UserID).Error; err != nil {
		return nil, nil, err
	}
	return tokens, &u, nil
}

func (s *Service) Logout(userID, sessionID string) error {
	err := sessionpkg.Revoke(s.db, userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Already revoked is still a successful logout.
		return nil
	}
	return err
}

// LogoutAll revokes every live session the user has, on this device and
// every other one.
func (s *Service) LogoutAll(userID string) error {
	return sessionpkg.RevokeAll(s.db, userID)
}

func (s *Service) GetUser(userID string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
