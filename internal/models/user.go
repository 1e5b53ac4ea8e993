package models

import (
	"gorm.io/gorm"
)

// User rows are owned by the external account-management subsystem; the
// messaging core only reads them for existence/role checks and display
// snapshots.
type User struct {
	gorm.Model
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"unique;not null" json:"email"`
	Role      string `gorm:"not null;default:client" json:"role"`
}

func (user *User) FullName() string {
	return user.FirstName + " " + user.LastName
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}
