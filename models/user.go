package models

import "time"

const UserTable = "lib_users"

// Roles a user can register with.
const (
	RoleStudent       = "student"
	RoleInstructor    = "instructor"
	RoleAdministrator = "administrator"
)

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:150;index;not null" json:"email"` // stored lowercase; unique via LOWER(email) index in Migrate
	Phone     *string   `gorm:"size:30" json:"phone,omitempty"`
	Address   *string   `gorm:"size:300" json:"address,omitempty"`
	Role      string    `gorm:"size:20;not null;default:'student';index" json:"role"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
