package domain

import (
	"strings"
	"time"
)

// Recognized values for the Sex profile field.
const (
	SexMale           = "male"
	SexFemale         = "female"
	SexOther          = "other"
	SexPreferNotToSay = "prefer-not-to-say"
)

// User is a stored account record. Email is unique across all records and
// stored lower-cased (lookups are case-insensitive by normalization).
// PasswordHash is a bcrypt digest and never appears in a response body.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Name         string    `json:"name" dynamodbav:"name"`
	Sex          string    `json:"sex" dynamodbav:"sex"`
	BirthYear    int       `json:"birthYear" dynamodbav:"birth_year"`
	AvatarKey    string    `json:"-" dynamodbav:"avatar_key"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries a partial profile update. Nil fields keep
// their stored values.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Sex       *string `json:"sex" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	BirthYear *int    `json:"birthYear"`
}

// NormalizeEmail fixes the case-sensitivity policy: addresses are compared
// and stored trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
