package models

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"type:varchar(50);not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	PhoneNumber  string         `gorm:"type:varchar(10)" json:"phone_number"`
	Role         *rbac.Role     `gorm:"type:varchar(20);index" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	RosterEntries    []RosterEntry `gorm:"foreignKey:UserID" json:"-"`
	CreatedDocuments []Document    `gorm:"foreignKey:CreatedBy" json:"-"`
}

// AccountRole returns the user's role, RoleNone when unassigned.
func (u User) AccountRole() rbac.Role {
	if u.Role == nil {
		return rbac.RoleNone
	}
	return *u.Role
}

// RolePtr maps RoleNone to NULL for storage.
func RolePtr(r rbac.Role) *rbac.Role {
	if r == rbac.RoleNone {
		return nil
	}
	return &r
}
