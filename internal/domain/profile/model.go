package profile

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Profile is the canonical, live member profile. Self-service edits never
// touch the live columns directly: they are staged as a full candidate copy
// in NewSnapshot until an admin adjudicates them.
type Profile struct {
	ID                 string         `gorm:"type:uuid;primaryKey"`
	UserID             string         `gorm:"uniqueIndex;not null"`
	Handle             string         `gorm:"uniqueIndex;not null"`
	DisplayName        string         `gorm:"not null;default:''"`
	Gender             int            `gorm:"not null;default:0"`
	AvatarURL          string         `gorm:"not null;default:''"`
	BannerURL          string         `gorm:"not null;default:''"`
	StatusMessage      string         `gorm:"not null;default:''"`
	Bio                string         `gorm:"not null;default:''"`
	ExpertiseSummary   string         `gorm:"not null;default:''"`
	Background         string         `gorm:"not null;default:''"`
	Motivation         string         `gorm:"not null;default:''"`
	Expectations       string         `gorm:"not null;default:''"`
	CanOffer           string         `gorm:"not null;default:''"`
	Achievements       string         `gorm:"not null;default:''"`
	CoreSkills         datatypes.JSON `gorm:"type:jsonb"`
	OtherSocialIssues  string         `gorm:"not null;default:''"`
	Hobbies            string         `gorm:"not null;default:''"`
	Inspirations       string         `gorm:"not null;default:''"`
	Wechat             string         `gorm:"not null;default:''"`
	Province           string         `gorm:"not null;default:''"`
	City               string         `gorm:"not null;default:''"`
	District           string         `gorm:"not null;default:''"`
	LocationVisibility int            `gorm:"not null;default:0"`
	IsVerified         bool           `gorm:"not null;default:false"`
	NewSnapshot        datatypes.JSON `gorm:"type:jsonb"`
	ExtraData          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) HasPendingRevision() bool { return len(p.NewSnapshot) > 0 }

// Snapshot is the complete candidate copy of the editable profile fields
// staged by a self-service edit.
type Snapshot struct {
	Handle             string   `json:"handle"`
	DisplayName        string   `json:"displayName"`
	Gender             int      `json:"gender"`
	AvatarURL          string   `json:"avatarUrl"`
	BannerURL          string   `json:"bannerUrl"`
	StatusMessage      string   `json:"statusMessage"`
	Bio                string   `json:"bio"`
	ExpertiseSummary   string   `json:"expertiseSummary"`
	Background         string   `json:"background"`
	Motivation         string   `json:"motivation"`
	Expectations       string   `json:"expectations"`
	CanOffer           string   `json:"canOffer"`
	Achievements       string   `json:"achievements"`
	CoreSkills         []string `json:"coreSkills"`
	OtherSocialIssues  string   `json:"otherSocialIssues"`
	Hobbies            string   `json:"hobbies"`
	Inspirations       string   `json:"inspirations"`
	Wechat             string   `json:"wechat"`
	Province           string   `json:"province"`
	City               string   `json:"city"`
	District           string   `json:"district"`
	LocationVisibility int      `json:"locationVisibility"`
}

// ModerationText flattens every user-authored free-text field into the single
// blob sent to the moderation gateway. System-assigned values (ids,
// timestamps, numeric codes) are never moderated.
func (s Snapshot) ModerationText() string {
	parts := []string{
		s.Handle,
		s.DisplayName,
		s.StatusMessage,
		s.Bio,
		s.ExpertiseSummary,
		s.Background,
		s.Motivation,
		s.Expectations,
		s.CanOffer,
		s.Achievements,
		s.OtherSocialIssues,
		s.Hobbies,
		s.Inspirations,
		s.Wechat,
		s.Province,
		s.City,
		s.District,
	}
	parts = append(parts, s.CoreSkills...)

	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			filtered = append(filtered, part)
		}
	}
	return strings.Join(filtered, "\n")
}

// UserTag links a user to a taxonomy tag. Composite key, idempotent insert.
type UserTag struct {
	UserID    string    `gorm:"primaryKey"`
	TagID     string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserTag) TableName() string { return "user_tags" }

// UserAvailability is a recurring weekly slot the user is available.
// WeekDay is 0-6 (Sunday first), TimeSlot a half-hour index 0-47.
type UserAvailability struct {
	UserID    string    `gorm:"primaryKey"`
	WeekDay   int       `gorm:"primaryKey"`
	TimeSlot  int       `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserAvailability) TableName() string { return "user_availability" }

// UserMedal records an admin-granted medal. No self-service path exists.
type UserMedal struct {
	UserID    string    `gorm:"primaryKey"`
	MedalID   string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserMedal) TableName() string { return "user_medals" }

// Tag is the joined read view of a member's tag (user_tags x tags).
type Tag struct {
	ID       string
	Content  string
	Category string
}

// Slot is the read view of one availability row.
type Slot struct {
	WeekDay  int
	TimeSlot int
}

// Medal is the joined read view of a granted medal.
type Medal struct {
	ID          string
	Name        string
	Description string
	IconURL     string
}

// Detail is a profile with its associations, as returned by self and
// single-profile reads.
type Detail struct {
	Profile      Profile
	Tags         []Tag
	Availability []Slot
	Medals       []Medal
}

// DirectoryEntry is one row of the member directory.
type DirectoryEntry struct {
	Profile      Profile
	DisplayName  string
	Tags         []Tag
	Availability []Slot
}

// DirectoryPage is one page of the member directory plus paging totals.
type DirectoryPage struct {
	Items      []DirectoryEntry
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}
