package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Icon      string    `gorm:"type:varchar(32)" json:"icon"`
	Gradient  string    `gorm:"type:varchar(100)" json:"gradient"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Category) TableName() string { return "categories" }
