package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Address is embedded in users (saved addresses) and snapshotted onto
// orders (shipping/billing).
type Address struct {
	Label     string `bson:"label,omitempty" json:"label,omitempty"`
	Street    string `bson:"street" json:"street" validate:"required"`
	City      string `bson:"city" json:"city" validate:"required"`
	State     string `bson:"state" json:"state" validate:"required"`
	ZipCode   string `bson:"zip_code" json:"zip_code" validate:"required"`
	Country   string `bson:"country" json:"country" validate:"required"`
	IsDefault bool   `bson:"is_default,omitempty" json:"is_default,omitempty"`
}

type User struct {
	ID            string    `bson:"_id" json:"id"`
	FirstName     string    `bson:"first_name" json:"first_name"`
	LastName      string    `bson:"last_name" json:"last_name"`
	Email         string    `bson:"email" json:"email"`
	Password      string    `bson:"password" json:"-"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role          Role      `bson:"role" json:"role"`
	Addresses     []Address `bson:"addresses,omitempty" json:"addresses,omitempty"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	EmailVerified bool      `bson:"email_verified" json:"email_verified"`
	LastLogin     time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expires_in,omitempty"`
	RemainingTries int    `json:"remaining_tries,omitempty"`
	Message        string `json:"message,omitempty"`
	User           *User  `json:"user,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName *string   `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  *string   `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Phone     *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Addresses []Address `json:"addresses,omitempty" validate:"omitempty,dive"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
