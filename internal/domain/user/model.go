package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User anchors an externally verified principal. Rows are created lazily on
// first authenticated request and are never deleted.
type User struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null;default:''"`
	Email     *string   `gorm:"type:text"`
	Role      string    `gorm:"not null;default:user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
