package model

import (
	"strings"
	"time"
)

// User is a profile row in the single table (pk USER#{id}, sk PROFILE).
type User struct {
	UserID       string `dynamodbav:"-" json:"user_id"`
	Email        string `dynamodbav:"email" json:"email"`
	FullName     string `dynamodbav:"full_name" json:"full_name"`
	PasswordHash string `dynamodbav:"password_hash" json:"-"`
	CreatedAt    string `dynamodbav:"created_at" json:"created_at"`
	LastLogin    string `dynamodbav:"last_login" json:"last_login"`
}

func (u *User) SanitizePassword() {
	u.PasswordHash = ""
}

// Initials returns two display initials, "JD" for "John Doe".
func (u *User) Initials() string {
	fields := strings.Fields(u.FullName)
	if len(fields) >= 2 {
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}

	name := []rune(strings.TrimSpace(u.FullName))
	if len(name) > 2 {
		name = name[:2]
	}
	return strings.ToUpper(string(name))
}

type VerificationCode struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
