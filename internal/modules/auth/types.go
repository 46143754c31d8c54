package auth

import (
	"errors"
	"time"

	"github.com/geoexplorer/core/internal/models"
	sessionpkg "github.com/geoexplorer/core/internal/pkg/session"
)

type RegisterDTO struct {
	Email     string `json:"email"     binding:"required,email"`
	Username  string `json:"username"  binding:"required,min=3"`
	Password  string `json:"password"  binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshDTO struct {
	Refresh string `json:"refresh" binding:"required"`
}

type userResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	LastLoginTime *time.Time `json:"last_login_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    userResponse `json:"user"`
}

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errEmailTaken         = errors.New("email already registered")
	errUsernameTaken      = errors.New("username already taken")
	errPasswordMismatch   = errors.New("password fields didn't match")
)

func toUserResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		LastLoginTime: u.LastLoginTime,
		CreatedAt:     u.CreatedAt,
	}
}

func toLoginResponse(tokens *sessionpkg.Tokens, u *models.UserModel) loginResponse {
	return loginResponse{
		Access:  tokens.AccessToken,
		Refresh: tokens.RefreshToken,
		User:    toUserResponse(u),
	}
}
