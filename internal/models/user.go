package models

import "time"

// User is a chat account from the user directory. PasswordHash is never
// serialized; AvatarImage is a base64 data string chosen after signup.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAvatarSet  bool      `json:"isAvatarImageSet"`
	AvatarImage  string    `json:"avatarImg"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
