package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

func IsValidRole(role Role) bool {
	switch role {
	case RoleClient, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	PasswordHash     string    `json:"-"`
	AvatarURL        string    `json:"img_avatar_url,omitempty"`
	Role             Role      `json:"role"`
	VerificationCode string    `json:"-"`
	IsVerified       bool      `json:"is_verified"`
	Points           int       `json:"points"`
	DiscountCode     string    `json:"discount_code,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Session is an opaque bearer token persisted server side. The token value is
// a UUID; there is no claims payload to decode.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type UserRepository interface {
	CreateUser(user *User) (*User, error)
	GetUserByID(id int64) (*User, error)
	GetUserByEmail(email string) (*User, error)
	UpdateUser(user *User) (*User, error)
	DeleteUser(id int64) error
	ListUsers(limit, offset int) ([]User, error)
}

type SessionRepository interface {
	CreateSession(session *Session) error
	GetSession(token string) (*Session, error)
	DeleteSessionsForUser(userID int64) error
}

type UserUpdate struct {
	FullName  *string `json:"full_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	AvatarURL *string `json:"img_avatar_url"`
}

type UserUseCase interface {
	Register(ctx context.Context, fullName, email, phoneNumber, password string) (*User, error)
	VerifyCode(email, code string) (*User, error)
	Login(email, password string) (string, *User, error)
	GetProfile(id int64) (*User, error)
	UpdateProfile(id int64, update UserUpdate) (*User, error)
	DeleteUser(id int64) error
	ListUsers(limit, offset int) ([]User, error)
}
