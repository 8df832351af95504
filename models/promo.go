package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixedAmount
}

// PromoScope is the targeting rule deciding which items a promo discounts.
type PromoScope string

const (
	ScopeAllItems           PromoScope = "all_items"
	ScopeSpecificCategories PromoScope = "specific_categories"
	ScopeSpecificItems      PromoScope = "specific_items"
)

func (s PromoScope) Valid() bool {
	switch s {
	case ScopeAllItems, ScopeSpecificCategories, ScopeSpecificItems:
		return true
	}
	return false
}

type Promo struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	EndDate       time.Time       `gorm:"not null" json:"end_date"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	AppliesTo     PromoScope      `gorm:"type:varchar(30);not null" json:"applies_to"`
	CategoryIDs   []uint          `gorm:"serializer:json;type:text" json:"category_ids,omitempty"`
	ItemIDs       []uint          `gorm:"serializer:json;type:text" json:"item_ids,omitempty"`
	PromoCode     *string         `gorm:"type:varchar(50);index" json:"promo_code,omitempty"`
	MaxUses       *int            `json:"max_uses,omitempty"`
	CurrentUses   int             `gorm:"not null;default:0" json:"current_uses"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Promo) TableName() string { return "promos" }

// NormalizeScope keeps only the id list that matches AppliesTo.
func (p *Promo) NormalizeScope() {
	switch p.AppliesTo {
	case ScopeSpecificCategories:
		p.ItemIDs = nil
	case ScopeSpecificItems:
		p.CategoryIDs = nil
	default:
		p.CategoryIDs = nil
		p.ItemIDs = nil
	}
}
