package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public face of an account
type Profile struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"column:user_id;size:36;not null;uniqueIndex" json:"user_id"`
	Username    string    `gorm:"column:username;size:50;not null;uniqueIndex" json:"username"`
	DisplayName *string   `gorm:"column:display_name;size:100" json:"display_name"`
	AvatarURL   *string   `gorm:"column:avatar_url;size:500" json:"avatar_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// BeforeCreate assigns a UUID when none is set
func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PublicProfile is what visitors see on a profile page
type PublicProfile struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// ToPublic strips account-level fields
func (p *Profile) ToPublic() *PublicProfile {
	return &PublicProfile{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}

// ProfileView is one load of a public profile page
type ProfileView struct {
	ID              string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	ProfileID       string    `gorm:"column:profile_id;size:36;not null;index" json:"profile_id"`
	ViewerIP        string    `gorm:"column:viewer_ip;size:64" json:"viewer_ip"`
	ViewerUserAgent string    `gorm:"column:viewer_user_agent;size:512" json:"viewer_user_agent"`
	Referrer        *string   `gorm:"column:referrer;size:1024" json:"referrer"`
	ViewedAt        time.Time `gorm:"column:viewed_at;not null;index" json:"viewed_at"`
}

func (ProfileView) TableName() string { return "profile_views" }

// BeforeCreate assigns a UUID when none is set
func (v *ProfileView) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// UpdateProfileFields are the text fields of a settings update
type UpdateProfileFields struct {
	Username     string `form:"username" json:"username"`
	DisplayName  string `form:"display_name" json:"display_name" binding:"max=100"`
	RemoveAvatar bool   `form:"remove_avatar" json:"remove_avatar"`
}
