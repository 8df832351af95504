package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

var (
	ErrReorderInProgress = errors.New("a category reorder is already in progress")
	ErrInvalidIndex      = errors.New("category index out of range")
)

// MoveCategory removes the category at from and reinserts it at to.
// The input slice is left untouched.
func MoveCategory(list []models.Category, from, to int) ([]models.Category, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, fmt.Errorf("%w: from=%d to=%d len=%d", ErrInvalidIndex, from, to, len(list))
	}

	moved := list[from]
	out := make([]models.Category, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)

	out = append(out, models.Category{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, nil
}

// AssignSortOrders sets sort_order = position + 1 on every element.
func AssignSortOrders(list []models.Category) []models.Category {
	for i := range list {
		list[i].SortOrder = i + 1
	}
	return list
}

// LoadOrderedCategories returns the categories in display order.
func LoadOrderedCategories(ctx context.Context, db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	if err := db.WithContext(ctx).Order("sort_order ASC").Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CategoryReorderer persists admin drag-and-drop reorders.
type CategoryReorderer struct {
	DB       *gorm.DB
	inFlight atomic.Bool
}

func NewCategoryReorderer(db *gorm.DB) *CategoryReorderer {
	return &CategoryReorderer{DB: db}
}

// Reorder moves the category at from to to and renumbers every category.
// On a failed write the stored order is re-fetched and returned with the
// error, so callers can replace their optimistic order with it.
func (r *CategoryReorderer) Reorder(ctx context.Context, from, to int) ([]models.Category, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil, ErrReorderInProgress
	}
	defer r.inFlight.Store(false)

	current, err := LoadOrderedCategories(ctx, r.DB)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	optimistic, err := MoveCategory(current, from, to)
	if err != nil {
		return current, err
	}
	AssignSortOrders(optimistic)

	if err := r.persist(ctx, optimistic); err != nil {
		utils.ErrorLogger.Printf("Category reorder failed, reloading stored order: %v", err)
		authoritative, loadErr := LoadOrderedCategories(ctx, r.DB)
		if loadErr != nil {
			return nil, fmt.Errorf("persist category order: %w (reload failed: %v)", err, loadErr)
		}
		return authoritative, fmt.Errorf("persist category order: %w", err)
	}

	utils.InfoLogger.Printf("Categories reordered: moved index %d to %d", from, to)
	return optimistic, nil
}

// Renumber closes gaps left by deletes so sort orders stay 1..n.
func (r *CategoryReorderer) Renumber(ctx context.Context) ([]models.Category, error) {
	current, err := LoadOrderedCategories(ctx, r.DB)
	if err != nil {
		return nil, err
	}
	AssignSortOrders(current)
	if err := r.persist(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// NextSortOrder is the sort order for a newly appended category.
func (r *CategoryReorderer) NextSortOrder(ctx context.Context) (int, error) {
	var max int
	row := r.DB.WithContext(ctx).Model(&models.Category{}).Select("COALESCE(MAX(sort_order), 0)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return max + 1, nil
}

// persist writes one row per statement, in order, inside a single transaction.
func (r *CategoryReorderer) persist(ctx context.Context, ordered []models.Category) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range ordered {
			res := tx.Model(&models.Category{}).Where("id = ?", c.ID).Update("sort_order", c.SortOrder)
			if res.Error != nil {
				return fmt.Errorf("category %d: %w", c.ID, res.Error)
			}
		}
		return nil
	})
}
