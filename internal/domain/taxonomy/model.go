package taxonomy

import "time"

// Tag is a reference taxonomy entry members attach to their profiles.
type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Content   string    `gorm:"not null"`
	Category  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Tag) TableName() string { return "tags" }

// Medal is a reference badge granted to members by administrators.
type Medal struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description string    `gorm:"not null;default:''"`
	IconURL     string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Medal) TableName() string { return "medals" }

type CreateTagInput struct {
	Content  string
	Category string
}

type UpdateTagInput struct {
	ID       string
	Content  string
	Category string
}

type CreateMedalInput struct {
	Name        string
	Description string
	IconURL     string
}

type UpdateMedalInput struct {
	ID          string
	Name        string
	Description string
	IconURL     string
}
