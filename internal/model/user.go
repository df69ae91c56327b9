// Package model defines data structures for the chat platform.
package model

import (
	"time"
)

// UserRole represents the access level of a user.
type UserRole string

const (
	RoleUserDefault UserRole = "user"
	RoleAdmin       UserRole = "admin"
)

// User is a persisted account, created or refreshed on every successful login.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OpenID       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"openId"`
	Name         *string   `gorm:"type:text" json:"name"`
	Email        *string   `gorm:"type:varchar(320)" json:"email"`
	LoginMethod  *string   `gorm:"type:varchar(64)" json:"loginMethod"`
	Role         UserRole  `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `gorm:"not null" json:"lastSignedIn"`
}

// UpsertUserParams carries the fields of an insert-or-update keyed on OpenID.
// Only non-nil pointer fields enter the update set; a nil field leaves the
// existing column untouched.
type UpsertUserParams struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	Role         *UserRole
	LastSignedIn *time.Time
}
