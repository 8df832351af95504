package newsletter

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/yeremiapane/restaurant-site/models"
	"gorm.io/gorm"
)

// Sheet is the persisted list of subscribers, one row per signup.
type Sheet interface {
	HasEmail(ctx context.Context, email string) (bool, error)
	Append(ctx context.Context, row models.Subscriber) error
	Rows(ctx context.Context) ([]models.Subscriber, error)
}

// GormSheet keeps the rows in the newsletter_sheet table.
type GormSheet struct {
	DB *gorm.DB
}

func NewGormSheet(db *gorm.DB) *GormSheet {
	return &GormSheet{DB: db}
}

func (s *GormSheet) HasEmail(ctx context.Context, email string) (bool, error) {
	var row models.Subscriber
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *GormSheet) Append(ctx context.Context, row models.Subscriber) error {
	return s.DB.WithContext(ctx).Create(&row).Error
}

func (s *GormSheet) Rows(ctx context.Context) ([]models.Subscriber, error) {
	var rows []models.Subscriber
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteCSV writes a header and every row as email,timestamp,status.
func WriteCSV(w io.Writer, rows []models.Subscriber) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "timestamp", "status"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
