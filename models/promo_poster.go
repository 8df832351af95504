package models

import "time"

// PromoPoster without StartDate and EndDate is an announcement.
type PromoPoster struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string     `gorm:"column:image_url;type:varchar(512);not null" json:"image_url"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (PromoPoster) TableName() string { return "promo_posters" }

func (p PromoPoster) IsAnnouncement() bool {
	return p.StartDate == nil && p.EndDate == nil
}
