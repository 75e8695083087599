package models

import "time"

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`
	Avatar       string `json:"avatar"`

	// telegram notification link, managed via profile settings
	TelegramChatID int64 `json:"-"`
	NotifyTelegram bool  `json:"-"`

	// refresh-token storage (opaque value, rotated on use)
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef is the denormalized user shape embedded in time logs and report rows.
type UserRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
