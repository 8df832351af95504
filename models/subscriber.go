package models

import "time"

const SubscriberActive = "Active"

// Subscriber is one row of the newsletter sheet: email, timestamp, status.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
}

func (Subscriber) TableName() string { return "newsletter_sheet" }

// Row returns the sheet representation of the subscriber.
func (s Subscriber) Row() []string {
	return []string{s.Email, s.Timestamp.UTC().Format(time.RFC3339), s.Status}
}
