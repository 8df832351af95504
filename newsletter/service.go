package newsletter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
)

var (
	ErrEmailRequired     = errors.New("Email is required")
	ErrInvalidEmail      = errors.New("Please enter a valid email address")
	ErrAlreadySubscribed = errors.New("This email is already subscribed")
)

const MessageSubscribed = "Thank you for subscribing!"

// Service records signups, rejecting invalid and duplicate emails.
type Service struct {
	Sheet Sheet
	Now   func() time.Time

	mu sync.Mutex
}

func NewService(sheet Sheet) *Service {
	return &Service{Sheet: sheet, Now: time.Now}
}

// Subscribe appends [email, timestamp, "Active"] for a new valid email.
func (s *Service) Subscribe(ctx context.Context, raw string) (models.Subscriber, error) {
	email := NormalizeEmail(raw)
	if email == "" {
		return models.Subscriber{}, ErrEmailRequired
	}
	if !ValidEmail(email) {
		return models.Subscriber{}, ErrInvalidEmail
	}

	// Check and append must not interleave, or two posts could both pass dedup.
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Sheet.HasEmail(ctx, email)
	if err != nil {
		return models.Subscriber{}, fmt.Errorf("check subscriber: %w", err)
	}
	if exists {
		return models.Subscriber{}, ErrAlreadySubscribed
	}

	row := models.Subscriber{
		Email:     email,
		Timestamp: s.Now().UTC(),
		Status:    models.SubscriberActive,
	}
	if err := s.Sheet.Append(ctx, row); err != nil {
		return models.Subscriber{}, fmt.Errorf("append subscriber: %w", err)
	}
	utils.InfoLogger.Printf("Newsletter subscriber added: %s", email)
	return row, nil
}
