// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Roles, strongest first. Global roles live on the users row; members
// without one fall back to their company membership role.
const (
	RoleSuperAdmin   = "superadmin"
	RoleAdmin        = "admin"
	RoleCompanyAdmin = "company_admin"
	RoleCompanyUser  = "company_user"
	RoleUser         = "user"
)

// ValidRole reports whether the name is a known role.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleCompanyAdmin, RoleCompanyUser, RoleUser:
		return true
	}
	return false
}

var roleRank = map[string]int{
	RoleSuperAdmin:   5,
	RoleAdmin:        4,
	RoleCompanyAdmin: 3,
	RoleCompanyUser:  2,
	RoleUser:         1,
}

// RoleAtLeast reports whether role carries at least the privilege of
// min. Unknown roles rank below everything.
func RoleAtLeast(role, min string) bool {
	return roleRank[role] >= roleRank[min]
}

// User represents a system user account.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"column:email;uniqueIndex;not null"`
	DisplayName  string       `gorm:"column:display_name;type:text"`
	Role         string       `gorm:"column:role;not null;default:user"`
	PasswordHash *string      `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
