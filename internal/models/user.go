package models

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNameRequired     = errors.New("the user name must not be empty")
	ErrUserEmailRequired    = errors.New("the user email must not be empty")
	ErrUserEmailNotUnique   = errors.New("a user with this email already exists")
	ErrUserPasswordTooShort = errors.New("the password must have at least 8 characters")
	ErrUserCredentials      = errors.New("the email or password is incorrect")
)

// User is an account that can authenticate against the API.
type User struct {
	DefaultModel
	Name     string `json:"name" example:"Maria Souza"`
	Email    string `json:"email" gorm:"uniqueIndex" example:"maria@example.com"`
	Password string `json:"-"` // bcrypt hash, never serialized
	Active   bool   `json:"active" gorm:"default:true" example:"true"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Name == "" {
		return ErrUserNameRequired
	}

	if u.Email == "" {
		return ErrUserEmailRequired
	}

	return nil
}

// SetPassword hashes the plain text password and stores the hash.
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return ErrUserPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether the plain text password matches the
// stored hash.
func (u User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// UserByEmail returns the active user with the given email.
func UserByEmail(db *gorm.DB, email string) (User, error) {
	var user User
	err := db.
		Where("email = ? AND active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error
	return user, err
}
