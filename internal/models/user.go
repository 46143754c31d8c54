package models

import "time"

// UserModel represents an account that owns one business profile.
type UserModel struct {
	Base
	Email         string     `json:"email"      gorm:"uniqueIndex;not null"`
	Username      string     `json:"username"   gorm:"index;not null"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Password      string     `json:"-"          gorm:"not null"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// UserSession tracks an issued token pair. The access JWT is bound to the
// session ID; the refresh token is the opaque string stored here.
type UserSession struct {
	Base
	UserID       string     `json:"user_id"       gorm:"index;not null"`
	RefreshToken string     `json:"-"             gorm:"uniqueIndex;not null"`
	IP           string     `json:"ip"`
	UA           string     `json:"ua"            gorm:"type:text"`
	ExpiresAt    time.Time  `json:"expires_at"    gorm:"index;not null"`
	RevokedAt    *time.Time `json:"revoked_at"    gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
