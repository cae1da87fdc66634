package models

import "time"

// Post represents a published blog entry owned by exactly one user.
// EditedAt stays nil until the post is updated for the first time.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Title     string     `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Subtitle  string     `gorm:"size:255;not null" json:"subtitle"`
	ImgURL    string     `gorm:"size:512;not null" json:"img_url"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at"`
	User      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments  []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}
